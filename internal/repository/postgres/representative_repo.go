// internal/repository/postgres/representative_repo.go
package postgres

import (
	"context"
	"fmt"

	"prospecta-service/internal/domain/representative"
	xerrors "prospecta-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RepresentativeRepository struct {
	db *pgxpool.Pool
}

func NewRepresentativeRepository(db *pgxpool.Pool) *RepresentativeRepository {
	return &RepresentativeRepository{db: db}
}

// Create registers a new SDR, active by default.
func (r *RepresentativeRepository) Create(ctx context.Context, rep *representative.Representative) error {
	query := `
		INSERT INTO representantes (nome, ddd, is_active)
		VALUES ($1, $2, TRUE)
		RETURNING id, is_active, created_at
	`

	err := r.db.QueryRow(ctx, query, rep.Nome, rep.DDD).
		Scan(&rep.ID, &rep.IsActive, &rep.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create representative: %w", err)
	}

	return nil
}

// ListActive returns active SDRs in id order. The allocation engine depends
// on this ordering: representatives are processed oldest first.
func (r *RepresentativeRepository) ListActive(ctx context.Context) ([]representative.Representative, error) {
	return r.list(ctx, `SELECT id, nome, ddd, is_active, created_at FROM representantes WHERE is_active ORDER BY id ASC`)
}

// List returns every SDR, active or not.
func (r *RepresentativeRepository) List(ctx context.Context) ([]representative.Representative, error) {
	return r.list(ctx, `SELECT id, nome, ddd, is_active, created_at FROM representantes ORDER BY id ASC`)
}

func (r *RepresentativeRepository) list(ctx context.Context, query string) ([]representative.Representative, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list representatives: %w", err)
	}
	defer rows.Close()

	reps := []representative.Representative{}
	for rows.Next() {
		var rep representative.Representative
		if err := rows.Scan(&rep.ID, &rep.Nome, &rep.DDD, &rep.IsActive, &rep.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan representative: %w", err)
		}
		reps = append(reps, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read representatives: %w", err)
	}

	return reps, nil
}

// FindByID retrieves one SDR.
func (r *RepresentativeRepository) FindByID(ctx context.Context, id int64) (*representative.Representative, error) {
	query := `SELECT id, nome, ddd, is_active, created_at FROM representantes WHERE id = $1`

	var rep representative.Representative
	err := r.db.QueryRow(ctx, query, id).Scan(&rep.ID, &rep.Nome, &rep.DDD, &rep.IsActive, &rep.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find representative: %w", err)
	}

	return &rep, nil
}

// SetActive flips the active flag; inactive SDRs are skipped by allocation.
func (r *RepresentativeRepository) SetActive(ctx context.Context, id int64, active bool) error {
	result, err := r.db.Exec(ctx, `UPDATE representantes SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("failed to update representative: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
