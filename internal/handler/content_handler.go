package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abenitj/biblefacts-backend/internal/model"
	"github.com/abenitj/biblefacts-backend/internal/response"
	"github.com/abenitj/biblefacts-backend/internal/service"
	"github.com/abenitj/biblefacts-backend/internal/validator"
)

// ContentHandler handles topic content endpoints.
type ContentHandler struct {
	contentService *service.ContentService
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(contentService *service.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// GetContent godoc
// GET /api/v1/admin/topics/:id/content
func (h *ContentHandler) GetContent(c *gin.Context) {
	topicID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	detail, err := h.contentService.Get(c.Request.Context(), topicID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"content": detail})
}

// SaveContent godoc
// PUT /api/v1/admin/topics/:id/content
// Creates or replaces topic content. The request carries the version the
// client last read; a stale version is rejected with 409 so concurrent edits
// never silently overwrite each other.
func (h *ContentHandler) SaveContent(c *gin.Context) {
	topicID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SaveContentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	detail, err := h.contentService.Save(c.Request.Context(), topicID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrVersionConflict):
			response.Fail(c, http.StatusConflict, response.ErrVersionConflict)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"content": detail})
}

// DeleteContent godoc
// DELETE /api/v1/admin/topics/:id/content
func (h *ContentHandler) DeleteContent(c *gin.Context) {
	topicID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.contentService.Delete(c.Request.Context(), topicID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "content deleted"})
}
