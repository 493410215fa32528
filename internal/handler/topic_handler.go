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

// TopicHandler handles topic management endpoints.
type TopicHandler struct {
	topicService *service.TopicService
}

// NewTopicHandler creates a new TopicHandler.
func NewTopicHandler(topicService *service.TopicService) *TopicHandler {
	return &TopicHandler{topicService: topicService}
}

// ListTopics godoc
// GET /api/v1/admin/topics?religion_id=N
// Lists all topics, optionally filtered to one religion.
func (h *TopicHandler) ListTopics(c *gin.Context) {
	religionID, _ := strconv.Atoi(c.DefaultQuery("religion_id", "0"))

	topics, err := h.topicService.List(c.Request.Context(), religionID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if topics == nil {
		topics = []model.Topic{}
	}
	response.Success(c, http.StatusOK, gin.H{"topics": topics})
}

// GetTopic godoc
// GET /api/v1/admin/topics/:id
func (h *TopicHandler) GetTopic(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	topic, err := h.topicService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"topic": topic})
}

// CreateTopic godoc
// POST /api/v1/admin/topics
func (h *TopicHandler) CreateTopic(c *gin.Context) {
	var req model.CreateTopicRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	topic := &model.Topic{
		ReligionID:  req.ReligionID,
		Title:       req.Title,
		TitleEn:     req.TitleEn,
		Description: req.Description,
	}

	if err := h.topicService.Create(c.Request.Context(), topic); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"topic": topic})
}

// UpdateTopic godoc
// PUT /api/v1/admin/topics/:id
func (h *TopicHandler) UpdateTopic(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateTopicRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	existing, err := h.topicService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	existing.Title = req.Title
	existing.TitleEn = req.TitleEn
	existing.Description = req.Description

	if err := h.topicService.Update(c.Request.Context(), existing); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"topic": existing})
}

// DeleteTopic godoc
// DELETE /api/v1/admin/topics/:id
// Topics carrying content cannot be deleted until the content is removed.
func (h *TopicHandler) DeleteTopic(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.topicService.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrTopicHasContent):
			response.Fail(c, http.StatusBadRequest, response.ErrTopicHasContent)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "topic deleted"})
}
