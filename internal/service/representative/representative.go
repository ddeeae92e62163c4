// internal/service/representative/representative.go
package representative

import (
	"context"
	"fmt"
	"strings"

	"prospecta-service/internal/domain/representative"
	xerrors "prospecta-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// Store is the slice of the representative repository the admin flow uses.
type Store interface {
	Create(ctx context.Context, r *representative.Representative) error
	List(ctx context.Context) ([]representative.Representative, error)
	FindByID(ctx context.Context, id int64) (*representative.Representative, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

type RepresentativeService struct {
	reps   Store
	logger *zap.Logger
}

func NewRepresentativeService(reps Store, logger *zap.Logger) *RepresentativeService {
	return &RepresentativeService{
		reps:   reps,
		logger: logger,
	}
}

// Create registers a new SDR. The DDD is the two-digit phone area code used
// as the allocation prefix filter.
func (s *RepresentativeService) Create(ctx context.Context, req *representative.CreateRepresentativeRequest) (*representative.Representative, error) {
	nome := strings.TrimSpace(req.Nome)
	ddd := strings.TrimSpace(req.DDD)
	if nome == "" || !isDDD(ddd) {
		return nil, fmt.Errorf("name and a two-digit ddd are required: %w", xerrors.ErrInvalidInput)
	}

	rep := &representative.Representative{
		Nome:     nome,
		DDD:      ddd,
		IsActive: true,
	}

	if err := s.reps.Create(ctx, rep); err != nil {
		return nil, fmt.Errorf("failed to create representative: %w", err)
	}

	s.logger.Info("representative created",
		zap.Int64("representative_id", rep.ID),
		zap.String("ddd", rep.DDD),
	)

	return rep, nil
}

// List returns every representative, active or not.
func (s *RepresentativeService) List(ctx context.Context) ([]representative.Representative, error) {
	return s.reps.List(ctx)
}

// Get loads one representative.
func (s *RepresentativeService) Get(ctx context.Context, id int64) (*representative.Representative, error) {
	return s.reps.FindByID(ctx, id)
}

// SetActive toggles whether a representative participates in allocation runs.
func (s *RepresentativeService) SetActive(ctx context.Context, id int64, active bool) error {
	return s.reps.SetActive(ctx, id, active)
}

func isDDD(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
