// internal/domain/representative/entity.go
package representative

import "time"

// Representative is an SDR who receives allocated companies. The DDD is the
// phone area code used as the allocation prefix filter.
type Representative struct {
	ID        int64     `json:"id"`
	Nome      string    `json:"nome"`
	DDD       string    `json:"ddd"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateRepresentativeRequest is the admin payload for registering an SDR.
type CreateRepresentativeRequest struct {
	Nome string `json:"nome" binding:"required"`
	DDD  string `json:"ddd" binding:"required"`
}
