// internal/handlers/allocation/allocation_handler.go
package allocation

import (
	"errors"
	"net/http"

	"prospecta-service/internal/domain/distribution"
	xerrors "prospecta-service/internal/pkg/errors"
	"prospecta-service/internal/pkg/response"
	allocUsecase "prospecta-service/internal/service/allocation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AllocationHandler struct {
	allocService *allocUsecase.AllocationService
	logger       *zap.Logger
}

func NewAllocationHandler(allocService *allocUsecase.AllocationService, logger *zap.Logger) *AllocationHandler {
	return &AllocationHandler{
		allocService: allocService,
		logger:       logger,
	}
}

// Allocate runs one distribution batch over all active representatives
// (admin only)
func (h *AllocationHandler) Allocate(c *gin.Context) {
	var req distribution.AllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid allocation request", err)
		return
	}

	result, err := h.allocService.Allocate(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, xerrors.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, "no valid target codes", err)
			return
		}
		h.logger.Error("allocation run failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "allocation failed", err)
		return
	}

	response.Success(c, http.StatusOK, "allocation complete", result)
}

// Representatives lists the active SDRs a run would target
func (h *AllocationHandler) Representatives(c *gin.Context) {
	reps, err := h.allocService.ListActiveRepresentatives(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list representatives", err)
		return
	}

	response.Success(c, http.StatusOK, "active representatives", reps)
}

// Stats aggregates the distribution ledger per representative
func (h *AllocationHandler) Stats(c *gin.Context) {
	stats, err := h.allocService.Statistics(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to load statistics", err)
		return
	}

	response.Success(c, http.StatusOK, "distribution statistics", stats)
}
