package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/abenitj/biblefacts-backend/internal/service"
)

// Scheduler runs the periodic stats refresh so the dashboard cache stays
// warm without an admin visiting the page.
type Scheduler struct {
	dashboard *service.DashboardService
	spec      string
	cron      *cron.Cron
	log       zerolog.Logger
}

// New creates a Scheduler. spec is a standard 5-field cron expression.
func New(dashboard *service.DashboardService, spec string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		dashboard: dashboard,
		spec:      spec,
		log:       log.With().Str("component", "scheduler").Logger(),
	}
}

// Start registers the jobs and begins ticking. Call once at boot.
func (s *Scheduler) Start() error {
	s.cron = cron.New()

	if _, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := s.dashboard.RefreshStats(ctx); err != nil {
			s.log.Error().Err(err).Msg("stats refresh failed")
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info().Str("spec", s.spec).Msg("Scheduler started")
	return nil
}

// Stop halts the ticker and waits for a running job to finish.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.log.Info().Msg("Scheduler stopped")
}
