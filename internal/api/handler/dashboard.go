package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/timmy/vidguard/internal/domain"
	"github.com/timmy/vidguard/internal/service"
)

// DashboardHandler handles the dashboard read endpoints.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler.
// Parameters:
//   - dashboard: dashboard service instance.
// Returns:
//   - *DashboardHandler: initialized handler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Summary handles GET /dashboard/summary.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *DashboardHandler) Summary(c *gin.Context) {
	mode, err := domain.ParseMode(c.DefaultQuery("mode", string(domain.ModeQuantum)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.dashboard.Summary(c.Request.Context(), mode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get summary: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Recent handles GET /dashboard/recent.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *DashboardHandler) Recent(c *gin.Context) {
	mode, err := domain.ParseMode(c.DefaultQuery("mode", string(domain.ModeQuantum)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	recent, err := h.dashboard.Recent(c.Request.Context(), mode, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get recent analyses: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, recent)
}
