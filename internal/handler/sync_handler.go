package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abenitj/biblefacts-backend/internal/middleware"
	"github.com/abenitj/biblefacts-backend/internal/model"
	"github.com/abenitj/biblefacts-backend/internal/response"
	"github.com/abenitj/biblefacts-backend/internal/service"
	"github.com/abenitj/biblefacts-backend/internal/validator"
)

// SyncHandler handles content publishing and the public mobile sync surface.
type SyncHandler struct {
	syncService *service.SyncService
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(syncService *service.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// TriggerSync godoc
// POST /api/v1/admin/sync/trigger
// Publishes the current content state: bumps the version, records the event,
// and queues a snapshot rebuild.
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	result, err := h.syncService.Trigger(c.Request.Context(), claims.UserID, claims.Username)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// GetSyncStatus godoc
// GET /api/v1/sync/status
// Public. Returns the current version, last publish time, and change counts.
func (h *SyncHandler) GetSyncStatus(c *gin.Context) {
	status, err := h.syncService.Status(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, status)
}

// CheckUpdates godoc
// POST /api/v1/sync/check
// Public. Answers a client's staleness query without payload transfer.
func (h *SyncHandler) CheckUpdates(c *gin.Context) {
	var req model.CheckUpdatesRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.syncService.Check(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// DownloadSnapshot godoc
// GET /api/v1/sync/download
// Public. Returns the full content snapshot. Every download carries the
// complete dataset; there is no delta transfer.
func (h *SyncHandler) DownloadSnapshot(c *gin.Context) {
	snapshot, err := h.syncService.Snapshot(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, snapshot)
}

// SyncHistory godoc
// GET /api/v1/admin/sync/history?limit=N
func (h *SyncHandler) SyncHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	events, err := h.syncService.History(c.Request.Context(), limit)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if events == nil {
		events = []model.SyncEvent{}
	}
	response.Success(c, http.StatusOK, gin.H{"events": events})
}
