package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abenitj/biblefacts-backend/internal/config"
	"github.com/abenitj/biblefacts-backend/internal/database"
	"github.com/abenitj/biblefacts-backend/internal/handler"
	"github.com/abenitj/biblefacts-backend/internal/logger"
	"github.com/abenitj/biblefacts-backend/internal/mailer"
	"github.com/abenitj/biblefacts-backend/internal/repository"
	"github.com/abenitj/biblefacts-backend/internal/router"
	"github.com/abenitj/biblefacts-backend/internal/scheduler"
	"github.com/abenitj/biblefacts-backend/internal/secret"
	"github.com/abenitj/biblefacts-backend/internal/service"
	"github.com/abenitj/biblefacts-backend/internal/validator"
	"github.com/abenitj/biblefacts-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting BibleFacts Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Credential Cipher ─────────────────────────────────────────────
	cipher, err := secret.NewCipher(cfg.SMTPCredentialKey)
	if err != nil {
		log.Fatal().Err(err).Msg("SMTP_CREDENTIAL_KEY must be a hex-encoded 32-byte key")
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	religionRepo := repository.NewReligionRepository(pool)
	topicRepo := repository.NewTopicRepository(pool)
	detailRepo := repository.NewTopicDetailRepository(pool)
	smtpRepo := repository.NewSMTPConfigRepository(pool)
	syncRepo := repository.NewSyncRepository(pool)
	settingRepo := repository.NewSettingRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	permissionCache := service.NewRedisPermissionCache(rdb, cfg.PermissionCacheTTL)
	permissionService := service.NewPermissionService(userRepo, permissionCache, log)
	authService := service.NewAuthService(cfg, userRepo, permissionService)
	religionService := service.NewReligionService(religionRepo, log)
	topicService := service.NewTopicService(topicRepo, detailRepo, religionRepo, log)
	contentService := service.NewContentService(topicRepo, detailRepo, log)
	smtpService := service.NewSMTPService(smtpRepo, mailer.NewSMTPMailer(), cipher, log)
	userService := service.NewUserService(userRepo, authService, smtpService, permissionService, log)
	syncService := service.NewSyncService(religionRepo, topicRepo, detailRepo, syncRepo, settingRepo, rdb, log)
	settingService := service.NewSettingService(settingRepo, log)
	dashboardService := service.NewDashboardService(religionRepo, topicRepo, detailRepo, userRepo, syncService, rdb, log)
	mediaService := service.NewMediaService(cfg)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:      handler.NewAuthHandler(authService, userService, permissionService, mediaService),
		Religion:  handler.NewReligionHandler(religionService),
		Topic:     handler.NewTopicHandler(topicService),
		Content:   handler.NewContentHandler(contentService),
		User:      handler.NewUserHandler(userService),
		SMTP:      handler.NewSMTPHandler(smtpService),
		Sync:      handler.NewSyncHandler(syncService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Setting:   handler.NewSettingHandler(settingService),
		Media:     handler.NewMediaHandler(mediaService),
	}

	// ─── Start Background Worker ──────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})

	snapshotWorker := worker.NewSnapshotWorker(syncService, rdb, log)
	go func() {
		defer close(workerDone)
		snapshotWorker.Start(workerCtx)
	}()

	// ─── Start Scheduler ──────────────────────────────────────────────
	sched := scheduler.New(dashboardService, cfg.StatsCronSpec, log)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	// ─── Prewarm Snapshot Cache ───────────────────────────────────────
	// Build the snapshot BEFORE accepting traffic so the first mobile
	// download never pays the assembly cost.
	if snap, err := syncService.BuildSnapshot(ctx); err != nil {
		log.Warn().Err(err).Msg("Snapshot prewarm failed")
	} else {
		syncService.CacheSnapshot(ctx, snap)
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, permissionService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the scheduler and the worker, waiting for the drain to finish.
	sched.Stop()
	workerCancel()
	select {
	case <-workerDone:
	case <-time.After(10 * time.Second):
		log.Warn().Msg("Worker drain timed out")
	}

	log.Info().Msg("Shutdown complete")
}
