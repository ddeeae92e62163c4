package allocation

import (
	"context"
	"testing"

	"prospecta-service/internal/domain/company"
	"prospecta-service/internal/domain/distribution"
	"prospecta-service/internal/domain/representative"
	xerrors "prospecta-service/internal/pkg/errors"
	"prospecta-service/internal/repository/postgres"
	"prospecta-service/internal/search"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeDB struct {
	txs []*fakeTx
}

func (d *fakeDB) BeginTx(context.Context) (pgx.Tx, error) {
	tx := &fakeTx{}
	d.txs = append(d.txs, tx)
	return tx, nil
}

// MockRegistry implements Registry for testing
type MockRegistry struct {
	draw func(context.Context, postgres.Querier, *search.Predicate, int) ([]company.Company, error)
}

func (m *MockRegistry) Draw(ctx context.Context, q postgres.Querier, pred *search.Predicate, limit int) ([]company.Company, error) {
	return m.draw(ctx, q, pred, limit)
}

// MockLedger implements Ledger for testing
type MockLedger struct {
	record       func(context.Context, postgres.Querier, []int64, int64, string, string) error
	exclusionSet func(context.Context) (map[int64]struct{}, error)
	statistics   func(context.Context) ([]distribution.RepresentativeStats, error)
}

func (m *MockLedger) Record(ctx context.Context, q postgres.Querier, ids []int64, repID int64, repName, code string) error {
	return m.record(ctx, q, ids, repID, repName, code)
}

func (m *MockLedger) ExclusionSet(ctx context.Context) (map[int64]struct{}, error) {
	return m.exclusionSet(ctx)
}

func (m *MockLedger) Statistics(ctx context.Context) ([]distribution.RepresentativeStats, error) {
	return m.statistics(ctx)
}

// MockRepresentatives implements Representatives for testing
type MockRepresentatives struct {
	listActive func(context.Context) ([]representative.Representative, error)
}

func (m *MockRepresentatives) ListActive(ctx context.Context) ([]representative.Representative, error) {
	return m.listActive(ctx)
}

func twoReps() []representative.Representative {
	return []representative.Representative{
		{ID: 1, Nome: "Ana", DDD: "11", IsActive: true},
		{ID: 2, Nome: "Bruno", DDD: "21", IsActive: true},
	}
}

func companiesWithIDs(ids ...int64) []company.Company {
	out := make([]company.Company, len(ids))
	for i, id := range ids {
		out[i] = company.Company{ID: id}
	}
	return out
}

// exclusionIDs pulls the excluded ids bound into a draw predicate. The
// exclusion list is always the last argument when present.
func exclusionIDs(t *testing.T, pred *search.Predicate) []int64 {
	t.Helper()
	args := pred.Args()
	if len(args) == 0 {
		return nil
	}
	arr, ok := args[len(args)-1].(*pq.Int64Array)
	if !ok {
		return nil
	}
	return []int64(*arr)
}

func TestAllocateRejectsInvalidCodes(t *testing.T) {
	svc := NewAllocationService(nil, nil, nil, nil, nil, zaptest.NewLogger(t))

	_, err := svc.Allocate(context.Background(), &distribution.AllocationRequest{
		TargetCodes: []string{"", "abc", "--//"},
	})

	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestAllocateFoldsExclusionsForward(t *testing.T) {
	// The second representative's predicate must exclude both the seed
	// exclusions from the ledger and the first representative's fresh draw.
	db := &fakeDB{}
	var predicates []*search.Predicate
	registry := &MockRegistry{
		draw: func(_ context.Context, _ postgres.Querier, pred *search.Predicate, limit int) ([]company.Company, error) {
			predicates = append(predicates, pred)
			assert.Equal(t, 2, limit)
			if len(predicates) == 1 {
				return companiesWithIDs(10, 11), nil
			}
			return companiesWithIDs(20), nil
		},
	}
	var recorded [][]int64
	ledger := &MockLedger{
		exclusionSet: func(context.Context) (map[int64]struct{}, error) {
			return map[int64]struct{}{5: {}}, nil
		},
		record: func(_ context.Context, _ postgres.Querier, ids []int64, _ int64, _, code string) error {
			assert.Equal(t, "6821801", code)
			recorded = append(recorded, ids)
			return nil
		},
	}
	reps := &MockRepresentatives{listActive: func(context.Context) ([]representative.Representative, error) {
		return twoReps(), nil
	}}
	svc := NewAllocationService(registry, ledger, reps, db, nil, zaptest.NewLogger(t))

	result, err := svc.Allocate(context.Background(), &distribution.AllocationRequest{
		TargetCodes: []string{"6821-8/01"},
		PerRepLimit: 2,
	})

	require.NoError(t, err)
	require.NotEmpty(t, result.RunID)
	require.Len(t, result.Allocations, 2)
	assert.Equal(t, "Ana", result.Allocations[0].RepresentativeName)
	assert.Len(t, result.Allocations[0].Companies, 2)
	assert.Equal(t, "Bruno", result.Allocations[1].RepresentativeName)
	assert.Len(t, result.Allocations[1].Companies, 1)

	require.Len(t, predicates, 2)
	// The first rep sees only the ledger seed; the second also sees the
	// first rep's fresh draw, sorted ascending.
	assert.Equal(t, []int64{5}, exclusionIDs(t, predicates[0]))
	assert.Equal(t, []int64{5, 10, 11}, exclusionIDs(t, predicates[1]))

	require.Len(t, recorded, 2)
	assert.Equal(t, []int64{10, 11}, recorded[0])
	assert.Equal(t, []int64{20}, recorded[1])

	require.Len(t, db.txs, 2)
	for _, tx := range db.txs {
		assert.True(t, tx.committed)
		assert.False(t, tx.rolledBack)
	}
}

func TestAllocatePartialDrawIsSuccess(t *testing.T) {
	// An empty ledger hands back a nil exclusion set. Draws must still fold
	// into it, and a draw below the limit is exhausted supply, not failure.
	db := &fakeDB{}
	var predicates []*search.Predicate
	registry := &MockRegistry{
		draw: func(_ context.Context, _ postgres.Querier, pred *search.Predicate, _ int) ([]company.Company, error) {
			predicates = append(predicates, pred)
			if len(predicates) == 1 {
				return companiesWithIDs(1), nil
			}
			return nil, nil
		},
	}
	ledger := &MockLedger{
		exclusionSet: func(context.Context) (map[int64]struct{}, error) { return nil, nil },
		record: func(context.Context, postgres.Querier, []int64, int64, string, string) error {
			return nil
		},
	}
	reps := &MockRepresentatives{listActive: func(context.Context) ([]representative.Representative, error) {
		return twoReps(), nil
	}}
	svc := NewAllocationService(registry, ledger, reps, db, nil, zaptest.NewLogger(t))

	result, err := svc.Allocate(context.Background(), &distribution.AllocationRequest{
		TargetCodes: []string{"6821801"},
		PerRepLimit: 50,
	})

	require.NoError(t, err)
	require.Len(t, result.Allocations, 2)
	assert.Empty(t, result.Allocations[0].Err)
	assert.Len(t, result.Allocations[0].Companies, 1)
	assert.Empty(t, result.Allocations[1].Err)
	assert.Empty(t, result.Allocations[1].Companies)

	require.Len(t, predicates, 2)
	assert.Nil(t, exclusionIDs(t, predicates[0]))
	assert.Equal(t, []int64{1}, exclusionIDs(t, predicates[1]))
}

func TestAllocateLedgerFailureIsFatalPerRepresentative(t *testing.T) {
	// A duplicate in the ledger fails the first representative, rolls back its
	// transaction and leaves its draw out of the exclusion set. The run still
	// reaches the second representative.
	db := &fakeDB{}
	registry := &MockRegistry{
		draw: func(context.Context, postgres.Querier, *search.Predicate, int) ([]company.Company, error) {
			return companiesWithIDs(7), nil
		},
	}
	calls := 0
	ledger := &MockLedger{
		exclusionSet: func(context.Context) (map[int64]struct{}, error) { return nil, nil },
		record: func(context.Context, postgres.Querier, []int64, int64, string, string) error {
			calls++
			if calls == 1 {
				return xerrors.ErrDuplicateEntry
			}
			return nil
		},
	}
	reps := &MockRepresentatives{listActive: func(context.Context) ([]representative.Representative, error) {
		return twoReps(), nil
	}}
	svc := NewAllocationService(registry, ledger, reps, db, nil, zaptest.NewLogger(t))

	result, err := svc.Allocate(context.Background(), &distribution.AllocationRequest{
		TargetCodes: []string{"6821801"},
	})

	require.NoError(t, err)
	require.Len(t, result.Allocations, 2)
	assert.NotEmpty(t, result.Allocations[0].Err)
	assert.Empty(t, result.Allocations[0].Companies)
	assert.Empty(t, result.Allocations[1].Err)
	assert.Len(t, result.Allocations[1].Companies, 1)

	require.Len(t, db.txs, 2)
	assert.True(t, db.txs[0].rolledBack)
	assert.False(t, db.txs[0].committed)
	assert.True(t, db.txs[1].committed)
}

type captureNotifier struct {
	events []Event
}

func (n *captureNotifier) Broadcast(payload interface{}) {
	if ev, ok := payload.(Event); ok {
		n.events = append(n.events, ev)
	}
}

func TestAllocateEmitsProgressEvents(t *testing.T) {
	db := &fakeDB{}
	registry := &MockRegistry{
		draw: func(context.Context, postgres.Querier, *search.Predicate, int) ([]company.Company, error) {
			return companiesWithIDs(3), nil
		},
	}
	ledger := &MockLedger{
		exclusionSet: func(context.Context) (map[int64]struct{}, error) { return nil, nil },
		record: func(context.Context, postgres.Querier, []int64, int64, string, string) error {
			return nil
		},
	}
	reps := &MockRepresentatives{listActive: func(context.Context) ([]representative.Representative, error) {
		return twoReps()[:1], nil
	}}
	notifier := &captureNotifier{}
	svc := NewAllocationService(registry, ledger, reps, db, notifier, zaptest.NewLogger(t))

	result, err := svc.Allocate(context.Background(), &distribution.AllocationRequest{
		TargetCodes: []string{"6821801"},
	})

	require.NoError(t, err)
	require.Len(t, notifier.events, 3)
	assert.Equal(t, "run_started", notifier.events[0].Type)
	assert.Equal(t, "representative_allocated", notifier.events[1].Type)
	assert.Equal(t, "Ana", notifier.events[1].RepresentativeName)
	assert.Equal(t, 1, notifier.events[1].Allocated)
	assert.Equal(t, "run_finished", notifier.events[2].Type)
	for _, ev := range notifier.events {
		assert.Equal(t, result.RunID, ev.RunID)
	}
}
