// internal/repository/postgres/distribution_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"prospecta-service/internal/domain/distribution"
	xerrors "prospecta-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type DistributionRepository struct {
	db *pgxpool.Pool
}

func NewDistributionRepository(db *pgxpool.Pool) *DistributionRepository {
	return &DistributionRepository{db: db}
}

// Record appends one ledger row per company id, all or nothing. It runs on
// the caller's Querier so the append commits together with the draw that
// produced it. The UNIQUE constraint on empresa_id is the fence: hitting it
// means a company was drawn twice, which maps to ErrDuplicateEntry and must
// abort the representative's allocation rather than be retried as-is.
func (r *DistributionRepository) Record(ctx context.Context, q Querier, companyIDs []int64, repID int64, repName, code string) error {
	if len(companyIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO distribuicoes (empresa_id, representante_id, representante_nome, cnae, created_at)
		SELECT unnest($1::bigint[]), $2, $3, $4, NOW()
	`

	if _, err := q.Exec(ctx, query, pq.Array(companyIDs), repID, repName, code); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("company already distributed: %w", xerrors.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to record distribution: %w", err)
	}

	return nil
}

// ExclusionSet returns every company id ever distributed, to anyone, under
// any code. The ledger grows slowly relative to the registry and is read
// once per allocation run, so a full scan is acceptable here.
func (r *DistributionRepository) ExclusionSet(ctx context.Context) (map[int64]struct{}, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT empresa_id FROM distribuicoes`)
	if err != nil {
		return nil, fmt.Errorf("failed to load exclusion set: %w", err)
	}
	defer rows.Close()

	excluded := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan excluded id: %w", err)
		}
		excluded[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read exclusion set: %w", err)
	}

	return excluded, nil
}

// Statistics aggregates the ledger per representative name.
func (r *DistributionRepository) Statistics(ctx context.Context) ([]distribution.RepresentativeStats, error) {
	query := `
		SELECT representante_nome,
		       COUNT(*) AS total,
		       MAX(created_at) AS last_distributed_at
		FROM distribuicoes
		GROUP BY representante_nome
		ORDER BY MAX(created_at) DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load distribution stats: %w", err)
	}
	defer rows.Close()

	stats := []distribution.RepresentativeStats{}
	for rows.Next() {
		var s distribution.RepresentativeStats
		if err := rows.Scan(&s.RepresentativeName, &s.TotalDistributed, &s.LastDistributedAt); err != nil {
			return nil, fmt.Errorf("failed to scan distribution stats: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read distribution stats: %w", err)
	}

	return stats, nil
}
