package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abenitj/biblefacts-backend/internal/mailer"
	"github.com/abenitj/biblefacts-backend/internal/model"
	"github.com/abenitj/biblefacts-backend/internal/response"
	"github.com/abenitj/biblefacts-backend/internal/service"
	"github.com/abenitj/biblefacts-backend/internal/validator"
)

// SMTPHandler handles SMTP configuration and email dispatch endpoints.
type SMTPHandler struct {
	smtpService *service.SMTPService
}

// NewSMTPHandler creates a new SMTPHandler.
func NewSMTPHandler(smtpService *service.SMTPService) *SMTPHandler {
	return &SMTPHandler{smtpService: smtpService}
}

// ListConfigs godoc
// GET /api/v1/admin/smtp-configs
func (h *SMTPHandler) ListConfigs(c *gin.Context) {
	configs, err := h.smtpService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if configs == nil {
		configs = []model.SMTPConfig{}
	}
	response.Success(c, http.StatusOK, gin.H{"configs": configs})
}

// GetConfig godoc
// GET /api/v1/admin/smtp-configs/:id
func (h *SMTPHandler) GetConfig(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	cfg, err := h.smtpService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"config": cfg})
}

// CreateConfig godoc
// POST /api/v1/admin/smtp-configs
func (h *SMTPHandler) CreateConfig(c *gin.Context) {
	var req model.CreateSMTPConfigRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	cfg, err := h.smtpService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"config": cfg})
}

// UpdateConfig godoc
// PUT /api/v1/admin/smtp-configs/:id
// An empty password keeps the stored credential.
func (h *SMTPHandler) UpdateConfig(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateSMTPConfigRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	cfg, err := h.smtpService.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"config": cfg})
}

// ActivateConfig godoc
// POST /api/v1/admin/smtp-configs/:id/activate
// Marks one configuration active, deactivating every other.
func (h *SMTPHandler) ActivateConfig(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.smtpService.Activate(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "configuration activated"})
}

// DeleteConfig godoc
// DELETE /api/v1/admin/smtp-configs/:id
func (h *SMTPHandler) DeleteConfig(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.smtpService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "configuration deleted"})
}

// TestConfig godoc
// POST /api/v1/admin/smtp-configs/:id/test
// Verifies connectivity and authentication without sending a message.
func (h *SMTPHandler) TestConfig(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.smtpService.Test(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// SendEmail godoc
// POST /api/v1/admin/email/send
// Sends an ad-hoc email through the active configuration. One attempt, no
// retries; without an active configuration nothing is dialed.
func (h *SMTPHandler) SendEmail(c *gin.Context) {
	var req model.SendEmailRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	msg := mailer.Message{
		To:      []string{req.To},
		Subject: req.Subject,
		HTML:    req.HTML,
		Text:    req.Text,
	}

	result, err := h.smtpService.SendWithActiveConfig(c.Request.Context(), msg)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveSMTPConfig) {
			response.Fail(c, http.StatusBadRequest, response.ErrNoActiveSMTPConfig)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !result.Success {
		response.Fail(c, http.StatusBadGateway, response.ErrSMTPSendFailed)
		return
	}

	response.Success(c, http.StatusOK, result)
}
