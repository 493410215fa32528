package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abenitj/biblefacts-backend/internal/response"
	"github.com/abenitj/biblefacts-backend/internal/service"
)

// DashboardHandler handles the admin overview endpoints.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetOverview godoc
// GET /api/v1/admin/dashboard
// Returns content counts, sync status, and recent publish history.
func (h *DashboardHandler) GetOverview(c *gin.Context) {
	overview, err := h.dashboardService.Overview(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, overview)
}

// GetStats godoc
// GET /api/v1/admin/dashboard/stats
// Returns the cached content counts alone.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}
