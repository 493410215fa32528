package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/abenitj/biblefacts-backend/internal/config"
	"github.com/abenitj/biblefacts-backend/internal/model"
	"github.com/abenitj/biblefacts-backend/internal/repository"
)

// statsCacheTTL keeps dashboard counts warm between cron refreshes.
const statsCacheTTL = 2 * time.Hour

// DashboardOverview is the admin landing-page document.
type DashboardOverview struct {
	Stats       model.ContentStats `json:"stats"`
	SyncStatus  *model.SyncStatus  `json:"sync_status"`
	RecentSyncs []model.SyncEvent  `json:"recent_syncs"`
}

// DashboardService aggregates counts and sync state for the admin overview.
// Counts are served from a Redis cache refreshed hourly by the scheduler and
// recomputed inline on a miss.
type DashboardService struct {
	religions *repository.ReligionRepository
	topics    *repository.TopicRepository
	details   *repository.TopicDetailRepository
	users     *repository.UserRepository
	sync      *SyncService
	rdb       *redis.Client
	log       zerolog.Logger
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(
	religions *repository.ReligionRepository,
	topics *repository.TopicRepository,
	details *repository.TopicDetailRepository,
	users *repository.UserRepository,
	sync *SyncService,
	rdb *redis.Client,
	log zerolog.Logger,
) *DashboardService {
	return &DashboardService{
		religions: religions,
		topics:    topics,
		details:   details,
		users:     users,
		sync:      sync,
		rdb:       rdb,
		log:       log.With().Str("component", "dashboard_service").Logger(),
	}
}

// Overview returns the counts, sync status, and recent publish history.
func (s *DashboardService) Overview(ctx context.Context) (*DashboardOverview, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}

	status, err := s.sync.Status(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.sync.History(ctx, 5)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []model.SyncEvent{}
	}

	return &DashboardOverview{
		Stats:       *stats,
		SyncStatus:  status,
		RecentSyncs: recent,
	}, nil
}

// Stats returns content and user counts, cache-first.
func (s *DashboardService) Stats(ctx context.Context) (*model.ContentStats, error) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.ContentStatsKey()).Bytes()
	if err == nil {
		var stats model.ContentStats
		if err := json.Unmarshal(raw, &stats); err == nil {
			return &stats, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("stats cache read failed")
	}

	return s.RefreshStats(ctx)
}

// RefreshStats recomputes the counts and rewrites the cache. The scheduler
// calls this on its hourly tick.
func (s *DashboardService) RefreshStats(ctx context.Context) (*model.ContentStats, error) {
	religions, err := s.religions.Count(ctx)
	if err != nil {
		return nil, err
	}
	topics, err := s.topics.Count(ctx)
	if err != nil {
		return nil, err
	}
	details, err := s.details.Count(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.ContentStats{
		Religions: religions,
		Topics:    topics,
		Details:   details,
		Users:     users,
	}

	if raw, err := json.Marshal(stats); err == nil {
		if err := s.rdb.Set(ctx, config.CacheKey.ContentStatsKey(), raw, statsCacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("stats cache write failed")
		}
	}
	return stats, nil
}
