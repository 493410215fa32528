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

// ReligionHandler handles religion management endpoints.
type ReligionHandler struct {
	religionService *service.ReligionService
}

// NewReligionHandler creates a new ReligionHandler.
func NewReligionHandler(religionService *service.ReligionService) *ReligionHandler {
	return &ReligionHandler{religionService: religionService}
}

// ListReligions godoc
// GET /api/v1/admin/religions
func (h *ReligionHandler) ListReligions(c *gin.Context) {
	religions, err := h.religionService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if religions == nil {
		religions = []model.Religion{}
	}
	response.Success(c, http.StatusOK, gin.H{"religions": religions})
}

// GetReligion godoc
// GET /api/v1/admin/religions/:id
func (h *ReligionHandler) GetReligion(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	religion, err := h.religionService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"religion": religion})
}

// CreateReligion godoc
// POST /api/v1/admin/religions
func (h *ReligionHandler) CreateReligion(c *gin.Context) {
	var req model.CreateReligionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	religion := &model.Religion{
		Name:        req.Name,
		NameEn:      req.NameEn,
		Description: req.Description,
		Color:       req.Color,
	}

	if err := h.religionService.Create(c.Request.Context(), religion); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"religion": religion})
}

// UpdateReligion godoc
// PUT /api/v1/admin/religions/:id
func (h *ReligionHandler) UpdateReligion(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateReligionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	religion := &model.Religion{
		ID:          id,
		Name:        req.Name,
		NameEn:      req.NameEn,
		Description: req.Description,
		Color:       req.Color,
	}

	if err := h.religionService.Update(c.Request.Context(), religion); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"religion": religion})
}

// DeleteReligion godoc
// DELETE /api/v1/admin/religions/:id
// Religions still carrying topics cannot be deleted.
func (h *ReligionHandler) DeleteReligion(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.religionService.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrReligionHasTopics):
			response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "religion deleted"})
}
