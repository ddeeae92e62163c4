// internal/domain/auth/entity.go
package auth

import (
	"database/sql"
	"time"
)

// User is an application account. Roles are flat strings ("admin", "user");
// only admins may run allocations or manage representatives and users.
type User struct {
	ID           int64          `json:"id"`
	Email        string         `json:"email"`
	FullName     sql.NullString `json:"full_name"`
	PasswordHash string         `json:"-"`
	Role         string         `json:"role"`
	IsActive     bool           `json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	LastLoginAt  sql.NullTime   `json:"last_login_at"`
}
