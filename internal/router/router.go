package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/abenitj/biblefacts-backend/internal/config"
	"github.com/abenitj/biblefacts-backend/internal/handler"
	"github.com/abenitj/biblefacts-backend/internal/middleware"
	"github.com/abenitj/biblefacts-backend/internal/model"
	"github.com/abenitj/biblefacts-backend/internal/response"
	"github.com/abenitj/biblefacts-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Religion  *handler.ReligionHandler
	Topic     *handler.TopicHandler
	Content   *handler.ContentHandler
	User      *handler.UserHandler
	SMTP      *handler.SMTPHandler
	Sync      *handler.SyncHandler
	Dashboard *handler.DashboardHandler
	Setting   *handler.SettingHandler
	Media     *handler.MediaHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	permissions *service.PermissionService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally. The snapshot download is the main
	// beneficiary.
	router.Use(middleware.Brotli())

	// Serve uploaded media files statically with aggressive caching (1 year).
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Public Sync Group (No Auth) ────────────────────────────────
	// Mobile clients poll and download here; no account is involved.
	syncAPI := router.Group("/api/v1/sync")
	{
		syncAPI.GET("/status", handlers.Sync.GetSyncStatus)
		syncAPI.POST("/check", handlers.Sync.CheckUpdates)
		syncAPI.GET("/download", handlers.Sync.DownloadSnapshot)
	}

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 2. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)

		// Authenticated profile routes
		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.GetProfile)
		auth.PUT("/me", middleware.RequireJWT(authService), handlers.Auth.UpdateProfile)
		auth.POST("/me/avatar", middleware.RequireJWT(authService), handlers.Auth.UploadAvatar)
		auth.GET("/permissions", middleware.RequireJWT(authService), handlers.Auth.ListPermissions)
	}

	// ─── 3. Admin Group (JWT + RBAC) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireJWT(authService))
	{
		// Dashboard
		adminAPI.GET("/dashboard",
			middleware.RequirePermission(permissions, model.PermissionViewDashboard),
			handlers.Dashboard.GetOverview,
		)
		adminAPI.GET("/dashboard/stats",
			middleware.RequirePermission(permissions, model.PermissionViewDashboard),
			handlers.Dashboard.GetStats,
		)

		// Religions
		adminAPI.GET("/religions",
			middleware.RequirePermission(permissions, model.PermissionViewReligions),
			handlers.Religion.ListReligions,
		)
		adminAPI.GET("/religions/:id",
			middleware.RequirePermission(permissions, model.PermissionViewReligions),
			handlers.Religion.GetReligion,
		)
		adminAPI.POST("/religions",
			middleware.RequirePermission(permissions, model.PermissionCreateReligion),
			handlers.Religion.CreateReligion,
		)
		adminAPI.PUT("/religions/:id",
			middleware.RequirePermission(permissions, model.PermissionEditReligion),
			handlers.Religion.UpdateReligion,
		)
		adminAPI.DELETE("/religions/:id",
			middleware.RequirePermission(permissions, model.PermissionDeleteReligion),
			handlers.Religion.DeleteReligion,
		)

		// Topics
		adminAPI.GET("/topics",
			middleware.RequirePermission(permissions, model.PermissionViewTopics),
			handlers.Topic.ListTopics,
		)
		adminAPI.GET("/topics/:id",
			middleware.RequirePermission(permissions, model.PermissionViewTopics),
			handlers.Topic.GetTopic,
		)
		adminAPI.POST("/topics",
			middleware.RequirePermission(permissions, model.PermissionCreateTopic),
			handlers.Topic.CreateTopic,
		)
		adminAPI.PUT("/topics/:id",
			middleware.RequirePermission(permissions, model.PermissionEditTopic),
			handlers.Topic.UpdateTopic,
		)
		adminAPI.DELETE("/topics/:id",
			middleware.RequirePermission(permissions, model.PermissionDeleteTopic),
			handlers.Topic.DeleteTopic,
		)

		// Topic content
		adminAPI.GET("/topics/:id/content",
			middleware.RequirePermission(permissions, model.PermissionViewContent),
			handlers.Content.GetContent,
		)
		adminAPI.PUT("/topics/:id/content",
			middleware.RequirePermission(permissions, model.PermissionEditContent),
			handlers.Content.SaveContent,
		)
		adminAPI.DELETE("/topics/:id/content",
			middleware.RequirePermission(permissions, model.PermissionEditContent),
			handlers.Content.DeleteContent,
		)

		// Media upload for the content editor
		adminAPI.POST("/media/upload",
			middleware.RequirePermission(permissions, model.PermissionEditContent),
			handlers.Media.UploadMedia,
		)

		// User management
		adminAPI.GET("/users",
			middleware.RequirePermission(permissions, model.PermissionViewUsers),
			handlers.User.ListUsers,
		)
		adminAPI.GET("/users/:id",
			middleware.RequirePermission(permissions, model.PermissionViewUsers),
			handlers.User.GetUser,
		)
		adminAPI.POST("/users",
			middleware.RequirePermission(permissions, model.PermissionCreateUser),
			handlers.User.CreateUser,
		)
		adminAPI.PUT("/users/:id",
			middleware.RequirePermission(permissions, model.PermissionEditUser),
			handlers.User.UpdateUser,
		)
		adminAPI.DELETE("/users/:id",
			middleware.RequirePermission(permissions, model.PermissionDeleteUsers),
			handlers.User.DeleteUser,
		)
		adminAPI.POST("/users/:id/reset-password",
			middleware.RequirePermission(permissions, model.PermissionEditUser),
			handlers.User.ResetPassword,
		)
		adminAPI.POST("/users/:id/resend-welcome",
			middleware.RequirePermission(permissions, model.PermissionEditUser),
			handlers.User.ResendWelcome,
		)

		// SMTP configuration and email dispatch
		adminAPI.GET("/smtp-configs",
			middleware.RequirePermission(permissions, model.PermissionManageSMTP),
			handlers.SMTP.ListConfigs,
		)
		adminAPI.GET("/smtp-configs/:id",
			middleware.RequirePermission(permissions, model.PermissionManageSMTP),
			handlers.SMTP.GetConfig,
		)
		adminAPI.POST("/smtp-configs",
			middleware.RequirePermission(permissions, model.PermissionManageSMTP),
			handlers.SMTP.CreateConfig,
		)
		adminAPI.PUT("/smtp-configs/:id",
			middleware.RequirePermission(permissions, model.PermissionManageSMTP),
			handlers.SMTP.UpdateConfig,
		)
		adminAPI.DELETE("/smtp-configs/:id",
			middleware.RequirePermission(permissions, model.PermissionManageSMTP),
			handlers.SMTP.DeleteConfig,
		)
		adminAPI.POST("/smtp-configs/:id/activate",
			middleware.RequirePermission(permissions, model.PermissionManageSMTP),
			handlers.SMTP.ActivateConfig,
		)
		adminAPI.POST("/smtp-configs/:id/test",
			middleware.RequirePermission(permissions, model.PermissionManageSMTP),
			handlers.SMTP.TestConfig,
		)
		adminAPI.POST("/email/send",
			middleware.RequirePermission(permissions, model.PermissionManageSMTP),
			handlers.SMTP.SendEmail,
		)

		// Sync coordination
		adminAPI.POST("/sync/trigger",
			middleware.RequirePermission(permissions, model.PermissionManageSync),
			handlers.Sync.TriggerSync,
		)
		// History backs the dashboard's recent-syncs panel too, so viewing it
		// only requires one of the two.
		adminAPI.GET("/sync/history",
			middleware.RequireAnyPermission(permissions, model.PermissionManageSync, model.PermissionViewDashboard),
			handlers.Sync.SyncHistory,
		)

		// Application settings
		adminAPI.GET("/settings",
			middleware.RequirePermission(permissions, model.PermissionManageSystemSettings),
			handlers.Setting.ListSettings,
		)
		adminAPI.GET("/settings/:key",
			middleware.RequirePermission(permissions, model.PermissionManageSystemSettings),
			handlers.Setting.GetSetting,
		)
		adminAPI.PUT("/settings",
			middleware.RequirePermission(permissions, model.PermissionManageSystemSettings),
			handlers.Setting.UpdateSettings,
		)
	}

	return router
}
