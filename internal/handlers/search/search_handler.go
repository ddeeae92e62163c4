// internal/handlers/search/search_handler.go
package search

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"prospecta-service/internal/domain/company"
	"prospecta-service/internal/pkg/response"
	"prospecta-service/internal/service/export"
	searchUsecase "prospecta-service/internal/service/search"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SearchHandler struct {
	searchService *searchUsecase.SearchService
	countTimeout  time.Duration
	logger        *zap.Logger
}

func NewSearchHandler(searchService *searchUsecase.SearchService, countTimeout time.Duration, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		countTimeout:  countTimeout,
		logger:        logger,
	}
}

// Search returns one page of matching companies
func (h *SearchHandler) Search(c *gin.Context) {
	var req company.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid search parameters", err)
		return
	}

	result, err := h.searchService.Search(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "search failed", err)
		return
	}

	response.Success(c, http.StatusOK, "search results", result)
}

// Count returns the exact total for a search. It runs under its own deadline
// so a slow free-text count times out instead of hanging the client.
func (h *SearchHandler) Count(c *gin.Context) {
	var req company.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid search parameters", err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.countTimeout)
	defer cancel()

	total, err := h.searchService.Count(ctx, req.Term, req.Region, req.IncludeSecondary)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			response.Error(c, http.StatusGatewayTimeout, "count timed out", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "count failed", err)
		return
	}

	response.Success(c, http.StatusOK, "total", gin.H{"total": total})
}

// Export streams the current result page as a CSV download
func (h *SearchHandler) Export(c *gin.Context) {
	var req company.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid search parameters", err)
		return
	}

	result, err := h.searchService.Search(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "export failed", err)
		return
	}

	filename := fmt.Sprintf("empresas_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	if err := export.WriteCSV(c.Writer, result.Rows); err != nil {
		h.logger.Error("csv export failed", zap.Error(err))
	}
}

// Create inserts one company into the registry (admin only)
func (h *SearchHandler) Create(c *gin.Context) {
	var req company.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid company data", err)
		return
	}

	created, err := h.searchService.CreateCompany(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to create company", err)
		return
	}

	response.Success(c, http.StatusCreated, "company created", created)
}
