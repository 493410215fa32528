package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abenitj/biblefacts-backend/internal/middleware"
	"github.com/abenitj/biblefacts-backend/internal/model"
	"github.com/abenitj/biblefacts-backend/internal/response"
	"github.com/abenitj/biblefacts-backend/internal/service"
	"github.com/abenitj/biblefacts-backend/internal/validator"
)

// AuthHandler handles authentication and own-profile endpoints.
type AuthHandler struct {
	authService  *service.AuthService
	userService  *service.UserService
	permissions  *service.PermissionService
	mediaService *service.MediaService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	authService *service.AuthService,
	userService *service.UserService,
	permissions *service.PermissionService,
	mediaService *service.MediaService,
) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		userService:  userService,
		permissions:  permissions,
		mediaService: mediaService,
	}
}

// Login godoc
// POST /api/v1/auth/login
// Verifies credentials and returns a JWT with resolved permissions.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		case errors.Is(err, service.ErrAccountInactive):
			response.Fail(c, http.StatusForbidden, response.ErrAccountInactive)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, result)
}

// GetProfile godoc
// GET /api/v1/auth/me
// Returns the authenticated user with their effective permission set.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	user, err := h.userService.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":        user,
		"permissions": h.permissions.Effective(c.Request.Context(), claims.UserID, claims.Role),
	})
}

// UpdateProfile godoc
// PUT /api/v1/auth/me
// Updates the authenticated user's own email or password.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.UpdateProfileRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// UploadAvatar godoc
// POST /api/v1/auth/me/avatar
// Stores a profile image for the authenticated user and returns the
// updated profile.
func (h *AuthHandler) UploadAvatar(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	url, err := h.mediaService.SaveUpload(file, header)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedFileType):
			response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		case errors.Is(err, service.ErrFileTooLarge):
			response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	user, err := h.userService.UpdateAvatar(c.Request.Context(), claims.UserID, url)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// ListPermissions godoc
// GET /api/v1/auth/permissions
// Returns the permission catalog grouped for the admin UI.
func (h *AuthHandler) ListPermissions(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"groups": model.PermissionGroups})
}
