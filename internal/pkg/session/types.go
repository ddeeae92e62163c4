// internal/pkg/session/types.go
package session

import "time"

// SessionData is the Redis-held state of one login. Keyed by user id + JTI;
// expiry tracks the token expiry so revocation and expiry stay in lockstep.
type SessionData struct {
	JTI            string    `json:"jti"`
	UserID         int64     `json:"user_id"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	IPAddress      string    `json:"ip_address"`
	UserAgent      string    `json:"user_agent"`
	LoginAt        time.Time `json:"login_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}
