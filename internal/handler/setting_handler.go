package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abenitj/biblefacts-backend/internal/model"
	"github.com/abenitj/biblefacts-backend/internal/response"
	"github.com/abenitj/biblefacts-backend/internal/service"
	"github.com/abenitj/biblefacts-backend/internal/validator"
)

// SettingHandler handles application setting endpoints.
type SettingHandler struct {
	settingService *service.SettingService
}

// NewSettingHandler creates a new SettingHandler.
func NewSettingHandler(settingService *service.SettingService) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

// ListSettings godoc
// GET /api/v1/admin/settings
func (h *SettingHandler) ListSettings(c *gin.Context) {
	settings, err := h.settingService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if settings == nil {
		settings = []model.AppSetting{}
	}
	response.Success(c, http.StatusOK, gin.H{"settings": settings})
}

// GetSetting godoc
// GET /api/v1/admin/settings/:key
func (h *SettingHandler) GetSetting(c *gin.Context) {
	setting, err := h.settingService.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"setting": setting})
}

// UpdateSettings godoc
// PUT /api/v1/admin/settings
// Bulk-upserts settings. The sync coordinator's keys are skipped.
func (h *SettingHandler) UpdateSettings(c *gin.Context) {
	var req model.UpdateSettingsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	settings, err := h.settingService.Update(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"settings": settings})
}
