// internal/repository/postgres/auth_repo.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"prospecta-service/internal/domain/auth"
	xerrors "prospecta-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuthRepository struct {
	db *pgxpool.Pool
}

func NewAuthRepository(db *pgxpool.Pool) *AuthRepository {
	return &AuthRepository{db: db}
}

const userColumns = `id, email, full_name, password_hash, role, is_active, created_at, last_login_at`

// FindByEmail retrieves a user by email, active or not. Callers decide what
// an inactive account means for them.
func (r *AuthRepository) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	query := fmt.Sprintf("SELECT %s FROM usuarios WHERE email = $1", userColumns)

	var u auth.User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.LastLoginAt,
	)
	if err == pgx.ErrNoRows {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &u, nil
}

// FindByID retrieves a user by id.
func (r *AuthRepository) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	query := fmt.Sprintf("SELECT %s FROM usuarios WHERE id = $1", userColumns)

	var u auth.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.LastLoginAt,
	)
	if err == pgx.ErrNoRows {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &u, nil
}

// Create inserts a new user.
func (r *AuthRepository) Create(ctx context.Context, u *auth.User) error {
	query := `
		INSERT INTO usuarios (email, full_name, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id, is_active, created_at
	`

	err := r.db.QueryRow(ctx, query, u.Email, u.FullName, u.PasswordHash, u.Role).
		Scan(&u.ID, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// List returns all users in creation order.
func (r *AuthRepository) List(ctx context.Context) ([]auth.User, error) {
	query := fmt.Sprintf("SELECT %s FROM usuarios ORDER BY id ASC", userColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []auth.User{}
	for rows.Next() {
		var u auth.User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.LastLoginAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	return users, nil
}

// SetActive activates or deactivates an account.
func (r *AuthRepository) SetActive(ctx context.Context, id int64, active bool) error {
	result, err := r.db.Exec(ctx, `UPDATE usuarios SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// UpdateLastLogin stamps a successful login.
func (r *AuthRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `UPDATE usuarios SET last_login_at = $1 WHERE id = $2`, time.Now(), id); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// ExistsByEmail checks whether an email is already registered.
func (r *AuthRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM usuarios WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}
