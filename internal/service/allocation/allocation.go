// internal/service/allocation/allocation.go
package allocation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"prospecta-service/internal/domain/company"
	"prospecta-service/internal/domain/distribution"
	"prospecta-service/internal/domain/representative"
	xerrors "prospecta-service/internal/pkg/errors"
	"prospecta-service/internal/repository/postgres"
	"prospecta-service/internal/search"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const DefaultPerRepLimit = 50

// Registry is the slice of the company repository the engine draws from.
type Registry interface {
	Draw(ctx context.Context, q postgres.Querier, pred *search.Predicate, limit int) ([]company.Company, error)
}

// Ledger is the distribution ledger: the exclusion source, the append sink
// and the statistics source.
type Ledger interface {
	Record(ctx context.Context, q postgres.Querier, companyIDs []int64, repID int64, repName, code string) error
	ExclusionSet(ctx context.Context) (map[int64]struct{}, error)
	Statistics(ctx context.Context) ([]distribution.RepresentativeStats, error)
}

// Representatives lists the SDRs a run allocates to.
type Representatives interface {
	ListActive(ctx context.Context) ([]representative.Representative, error)
}

// TxBeginner opens the transaction that fences one representative's draw and
// ledger append together.
type TxBeginner interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
}

// Notifier receives progress events for connected clients. Broadcasts are
// best-effort; allocation never blocks on them.
type Notifier interface {
	Broadcast(payload interface{})
}

// Event is one progress update of an allocation run.
type Event struct {
	Type               string `json:"type"`
	RunID              string `json:"run_id"`
	RepresentativeName string `json:"representante_nome,omitempty"`
	Allocated          int    `json:"allocated,omitempty"`
	Error              string `json:"error,omitempty"`
}

type AllocationService struct {
	registry Registry
	ledger   Ledger
	reps     Representatives
	db       TxBeginner
	notifier Notifier
	logger   *zap.Logger
}

func NewAllocationService(registry Registry, ledger Ledger, reps Representatives, db TxBeginner, notifier Notifier, logger *zap.Logger) *AllocationService {
	return &AllocationService{
		registry: registry,
		ledger:   ledger,
		reps:     reps,
		db:       db,
		notifier: notifier,
		logger:   logger,
	}
}

// Allocate runs one allocation batch over every active representative, in id
// order. The exclusion set is loaded once and then folded forward: each
// representative's draw is appended to the ledger and added to the in-memory
// set before the next representative draws, so two representatives in the
// same run can never receive the same company. A failed representative
// aborts only that representative's attempt; the run continues.
func (s *AllocationService) Allocate(ctx context.Context, req *distribution.AllocationRequest) (*distribution.AllocationResult, error) {
	codes := cleanCodes(req.TargetCodes)
	if len(codes) == 0 {
		return nil, fmt.Errorf("no valid target codes: %w", xerrors.ErrInvalidInput)
	}

	limit := req.PerRepLimit
	if limit < 1 {
		limit = DefaultPerRepLimit
	}

	reps, err := s.reps.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list representatives: %w", err)
	}

	excluded, err := s.ledger.ExclusionSet(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load exclusion set: %w", err)
	}
	if excluded == nil {
		// An empty ledger may come back as a nil map; draws are folded into
		// this set, so it must be writable.
		excluded = make(map[int64]struct{})
	}

	runID := ulid.Make().String()
	s.notify(Event{Type: "run_started", RunID: runID})

	result := &distribution.AllocationResult{RunID: runID}
	for _, rep := range reps {
		alloc := s.allocateOne(ctx, rep, codes, limit, excluded)
		result.Allocations = append(result.Allocations, alloc)

		s.notify(Event{
			Type:               "representative_allocated",
			RunID:              runID,
			RepresentativeName: rep.Nome,
			Allocated:          len(alloc.Companies),
			Error:              alloc.Err,
		})
	}

	s.notify(Event{Type: "run_finished", RunID: runID})

	return result, nil
}

// allocateOne draws for a single representative and appends the draw to the
// ledger in one transaction. On success the drawn ids are folded into the
// shared exclusion set. Errors are terminal for this representative: the
// ledger's unique constraint means a retry without a fresh exclusion set
// would just repeat the collision.
func (s *AllocationService) allocateOne(ctx context.Context, rep representative.Representative, codes []string, limit int, excluded map[int64]struct{}) distribution.RepresentativeAllocation {
	alloc := distribution.RepresentativeAllocation{
		RepresentativeID:   rep.ID,
		RepresentativeName: rep.Nome,
		DDD:                rep.DDD,
		Companies:          []company.Company{},
	}

	pred := search.BuildAllocation(codes, rep.DDD, sortedIDs(excluded))

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		alloc.Err = fmt.Sprintf("failed to begin transaction: %v", err)
		return alloc
	}

	companies, err := s.registry.Draw(ctx, tx, pred, limit)
	if err != nil {
		_ = tx.Rollback(ctx)
		s.logger.Error("allocation draw failed",
			zap.Int64("representative_id", rep.ID),
			zap.Error(err),
		)
		alloc.Err = err.Error()
		return alloc
	}

	ids := make([]int64, len(companies))
	for i, c := range companies {
		ids[i] = c.ID
	}

	if err := s.ledger.Record(ctx, tx, ids, rep.ID, rep.Nome, strings.Join(codes, ",")); err != nil {
		_ = tx.Rollback(ctx)
		s.logger.Error("ledger append failed",
			zap.Int64("representative_id", rep.ID),
			zap.Int("companies", len(ids)),
			zap.Error(err),
		)
		alloc.Err = err.Error()
		return alloc
	}

	if err := tx.Commit(ctx); err != nil {
		alloc.Err = fmt.Sprintf("failed to commit allocation: %v", err)
		return alloc
	}

	for _, id := range ids {
		excluded[id] = struct{}{}
	}

	s.logger.Info("representative allocated",
		zap.Int64("representative_id", rep.ID),
		zap.String("ddd", rep.DDD),
		zap.Int("companies", len(ids)),
	)

	alloc.Companies = companies
	return alloc
}

// ListActiveRepresentatives exposes the SDRs a run would target.
func (s *AllocationService) ListActiveRepresentatives(ctx context.Context) ([]representative.Representative, error) {
	return s.reps.ListActive(ctx)
}

// Statistics aggregates the ledger per representative.
func (s *AllocationService) Statistics(ctx context.Context) ([]distribution.RepresentativeStats, error) {
	return s.ledger.Statistics(ctx)
}

func (s *AllocationService) notify(ev Event) {
	if s.notifier != nil {
		s.notifier.Broadcast(ev)
	}
}

// cleanCodes strips formatting from the target codes and drops anything that
// is not a plain digit string. Free text has no meaning in an allocation run.
func cleanCodes(raw []string) []string {
	codes := make([]string, 0, len(raw))
	for _, r := range raw {
		if c := search.CleanCode(r); isCode(c) {
			codes = append(codes, c)
		}
	}
	return codes
}

func isCode(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func sortedIDs(set map[int64]struct{}) []int64 {
	if len(set) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
