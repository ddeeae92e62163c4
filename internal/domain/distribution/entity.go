// internal/domain/distribution/entity.go
package distribution

import (
	"time"

	"prospecta-service/internal/domain/company"
)

// Distribution is one append-only ledger row: a company handed to a
// representative under a given CNAE code. Rows are never updated or deleted.
type Distribution struct {
	ID                 int64     `json:"id"`
	CompanyID          int64     `json:"empresa_id"`
	RepresentativeID   int64     `json:"representante_id"`
	RepresentativeName string    `json:"representante_nome"`
	CNAE               string    `json:"cnae"`
	CreatedAt          time.Time `json:"created_at"`
}

// RepresentativeStats aggregates the ledger per representative name.
type RepresentativeStats struct {
	RepresentativeName string    `json:"representante_nome"`
	TotalDistributed   int64     `json:"total_distributed"`
	LastDistributedAt  time.Time `json:"last_distributed_at"`
}

// AllocationRequest triggers one allocation run over all active
// representatives.
type AllocationRequest struct {
	TargetCodes []string `json:"target_codes" binding:"required"`
	PerRepLimit int      `json:"per_rep_limit"`
}

// RepresentativeAllocation is one representative's draw within a run. A draw
// smaller than the limit means supply ran out, not failure; Err is set only
// when the ledger write for that representative was aborted.
type RepresentativeAllocation struct {
	RepresentativeID   int64             `json:"representante_id"`
	RepresentativeName string            `json:"representante_nome"`
	DDD                string            `json:"ddd"`
	Companies          []company.Company `json:"companies"`
	Err                string            `json:"error,omitempty"`
}

// AllocationResult is the outcome of a whole run.
type AllocationResult struct {
	RunID       string                     `json:"run_id"`
	Allocations []RepresentativeAllocation `json:"allocations"`
}
