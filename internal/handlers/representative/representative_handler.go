// internal/handlers/representative/representative_handler.go
package representative

import (
	"errors"
	"net/http"
	"strconv"

	"prospecta-service/internal/domain/representative"
	xerrors "prospecta-service/internal/pkg/errors"
	"prospecta-service/internal/pkg/response"
	repUsecase "prospecta-service/internal/service/representative"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RepresentativeHandler struct {
	repService *repUsecase.RepresentativeService
	logger     *zap.Logger
}

func NewRepresentativeHandler(repService *repUsecase.RepresentativeService, logger *zap.Logger) *RepresentativeHandler {
	return &RepresentativeHandler{
		repService: repService,
		logger:     logger,
	}
}

// Create registers a new SDR (admin only)
func (h *RepresentativeHandler) Create(c *gin.Context) {
	var req representative.CreateRepresentativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	rep, err := h.repService.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, xerrors.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, "invalid representative data", err)
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to create representative", err)
		return
	}

	response.Success(c, http.StatusCreated, "representative created", rep)
}

// List returns every representative, active or not (admin only)
func (h *RepresentativeHandler) List(c *gin.Context) {
	reps, err := h.repService.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list representatives", err)
		return
	}

	response.Success(c, http.StatusOK, "representatives", reps)
}

// SetActive toggles allocation participation (admin only)
func (h *RepresentativeHandler) SetActive(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid representative id", err)
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.repService.SetActive(c.Request.Context(), id, *req.IsActive); err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "representative not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to update representative", err)
		return
	}

	response.Success(c, http.StatusOK, "representative updated", nil)
}
