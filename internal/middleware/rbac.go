package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abenitj/biblefacts-backend/internal/model"
	"github.com/abenitj/biblefacts-backend/internal/response"
	"github.com/abenitj/biblefacts-backend/internal/service"
)

// RequirePermission checks the caller's effective permission set against one
// required permission. The set is resolved through the cache-backed resolver,
// so permission edits take effect without reissuing tokens.
func RequirePermission(permissions *service.PermissionService, required model.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		effective := permissions.Effective(c.Request.Context(), claims.UserID, claims.Role)
		for _, p := range effective {
			if p == string(required) {
				c.Next()
				return
			}
		}

		response.AbortFail(c, http.StatusForbidden, response.ErrPermissionDenied)
	}
}

// RequireAnyPermission passes when the caller holds at least one of the
// specified permissions.
func RequireAnyPermission(permissions *service.PermissionService, required ...model.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		effective := permissions.Effective(c.Request.Context(), claims.UserID, claims.Role)
		for _, p := range effective {
			for _, req := range required {
				if p == string(req) {
					c.Next()
					return
				}
			}
		}

		response.AbortFail(c, http.StatusForbidden, response.ErrPermissionDenied)
	}
}
