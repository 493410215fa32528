package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/abenitj/biblefacts-backend/internal/config"
	"github.com/abenitj/biblefacts-backend/internal/model"
)

// religionSource is the slice of the religion repository the sync
// coordinator needs.
type religionSource interface {
	List(ctx context.Context) ([]model.Religion, error)
	Count(ctx context.Context) (int, error)
	CountUpdatedSince(ctx context.Context, cutoff time.Time) (int, error)
}

// topicSource is the slice of the topic repository the sync coordinator
// needs.
type topicSource interface {
	List(ctx context.Context) ([]model.Topic, error)
	Count(ctx context.Context) (int, error)
	CountUpdatedSince(ctx context.Context, cutoff time.Time) (int, error)
}

// detailSource is the slice of the topic detail repository the sync
// coordinator needs.
type detailSource interface {
	ListAll(ctx context.Context) (map[int]*model.TopicDetail, error)
	MaxUpdatedAt(ctx context.Context) (time.Time, error)
	Count(ctx context.Context) (int, error)
	CountUpdatedSince(ctx context.Context, cutoff time.Time) (int, error)
}

// syncEventStore persists the publish history.
type syncEventStore interface {
	Record(ctx context.Context, e *model.SyncEvent) error
	ListRecent(ctx context.Context, limit int) ([]model.SyncEvent, error)
}

// settingStore holds the version and last-sync markers.
type settingStore interface {
	GetByKey(ctx context.Context, key string) (*model.AppSetting, error)
	Upsert(ctx context.Context, key, value string) error
	IncrementInt(ctx context.Context, key string) (int, error)
}

// recentWindow bounds what Status reports as "recent changes".
const recentWindow = 24 * time.Hour

// snapshotCacheTTL backstops stale snapshots if a rebuild job is ever lost.
const snapshotCacheTTL = 7 * 24 * time.Hour

// SyncService coordinates content publishing to mobile clients. A trigger
// bumps the monotonic content version, records the event, and queues a
// snapshot rebuild; clients poll the version and download the full snapshot
// when theirs is stale.
type SyncService struct {
	religions religionSource
	topics    topicSource
	details   detailSource
	events    syncEventStore
	settings  settingStore
	rdb       *redis.Client
	log       zerolog.Logger
	now       func() time.Time
}

// NewSyncService creates a new SyncService.
func NewSyncService(
	religions religionSource,
	topics topicSource,
	details detailSource,
	events syncEventStore,
	settings settingStore,
	rdb *redis.Client,
	log zerolog.Logger,
) *SyncService {
	return &SyncService{
		religions: religions,
		topics:    topics,
		details:   details,
		events:    events,
		settings:  settings,
		rdb:       rdb,
		log:       log.With().Str("component", "sync_service").Logger(),
		now:       time.Now,
	}
}

// recentCutoff is the oldest updated_at that still counts as recent.
func recentCutoff(now time.Time) time.Time {
	return now.Add(-recentWindow)
}

// IsRecent reports whether updatedAt falls inside the recent-changes window.
// The boundary is inclusive: a change exactly 24 hours old still counts.
func IsRecent(updatedAt, now time.Time) bool {
	return !updatedAt.Before(recentCutoff(now))
}

// HasUpdate reports whether a client at clientVersion is behind
// currentVersion. Version zero means the client has never synced.
func HasUpdate(clientVersion, currentVersion int) bool {
	return currentVersion > clientVersion
}

// IsStale combines the version and timestamp checks: a client is stale when
// its version is behind, or when the server published after the client's
// last sync. Either side missing a timestamp leaves the version comparison
// as the only signal.
func IsStale(clientVersion, currentVersion int, clientLast, serverLast *time.Time) bool {
	if HasUpdate(clientVersion, currentVersion) {
		return true
	}
	if clientLast != nil && serverLast != nil && serverLast.After(*clientLast) {
		return true
	}
	return false
}

// Trigger publishes the current content state: it bumps the content version,
// stamps last_sync_at, records a sync event, and queues a snapshot rebuild.
func (s *SyncService) Trigger(ctx context.Context, userID int, username string) (*model.SyncResult, error) {
	stats, err := s.countContent(ctx)
	if err != nil {
		return nil, err
	}

	version, err := s.settings.IncrementInt(ctx, model.SettingContentVersion)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.settings.Upsert(ctx, model.SettingLastSyncAt, now.Format(time.RFC3339)); err != nil {
		return nil, err
	}

	// The username is snapshotted onto the event so history keeps showing
	// who published even after the account is deleted.
	event := &model.SyncEvent{
		TriggeredBy:     &userID,
		TriggeredByName: username,
		ReligionCount:   stats.Religions,
		TopicCount:      stats.Topics,
		DetailCount:     stats.Details,
	}
	if err := s.events.Record(ctx, event); err != nil {
		return nil, err
	}

	s.queueRebuild(ctx, version)

	s.log.Info().Int("version", version).Str("username", username).Msg("content sync triggered")
	return &model.SyncResult{
		Version:     version,
		Timestamp:   now,
		TriggeredBy: username,
		Stats:       *stats,
	}, nil
}

// Status returns the current version, last publish time, inventory counts,
// and the counts of rows changed inside the recent window.
func (s *SyncService) Status(ctx context.Context) (*model.SyncStatus, error) {
	version, err := s.CurrentVersion(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.countContent(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := recentCutoff(s.now().UTC())
	recent, err := s.countUpdatedSince(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	return &model.SyncStatus{
		Version:       version,
		LastSyncAt:    s.lastSyncAt(ctx),
		Stats:         *stats,
		RecentChanges: *recent,
	}, nil
}

// Check answers a client's staleness query without any payload transfer.
func (s *SyncService) Check(ctx context.Context, req *model.CheckUpdatesRequest) (*model.CheckUpdatesResponse, error) {
	version, err := s.CurrentVersion(ctx)
	if err != nil {
		return nil, err
	}

	serverLast := s.lastSyncAt(ctx)
	return &model.CheckUpdatesResponse{
		HasUpdate:      IsStale(req.Version, version, req.LastSyncAt, serverLast),
		CurrentVersion: version,
		LastSyncAt:     serverLast,
	}, nil
}

// History returns the most recent sync events.
func (s *SyncService) History(ctx context.Context, limit int) ([]model.SyncEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.events.ListRecent(ctx, limit)
}

// Snapshot returns the full content download, served from the Redis cache
// when the background worker has one ready and rebuilt inline otherwise.
func (s *SyncService) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.SnapshotKey()).Bytes()
	if err == nil {
		var snap model.Snapshot
		if err := json.Unmarshal(raw, &snap); err == nil {
			return &snap, nil
		}
		s.log.Warn().Msg("cached snapshot unreadable, rebuilding")
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("snapshot cache read failed, rebuilding")
	}

	snap, err := s.BuildSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	s.CacheSnapshot(ctx, snap)
	return snap, nil
}

// BuildSnapshot assembles the complete content state from the database.
func (s *SyncService) BuildSnapshot(ctx context.Context) (*model.Snapshot, error) {
	religions, err := s.religions.List(ctx)
	if err != nil {
		return nil, err
	}
	topics, err := s.topics.List(ctx)
	if err != nil {
		return nil, err
	}
	details, err := s.details.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	snapshotTopics := make([]model.SnapshotTopic, 0, len(topics))
	for _, t := range topics {
		snapshotTopics = append(snapshotTopics, model.SnapshotTopic{
			Topic:  t,
			Detail: details[t.ID],
		})
	}

	version, err := s.CurrentVersion(ctx)
	if err != nil {
		return nil, err
	}
	lastUpdated, err := s.details.MaxUpdatedAt(ctx)
	if err != nil {
		return nil, err
	}

	if religions == nil {
		religions = []model.Religion{}
	}
	return &model.Snapshot{
		Religions:   religions,
		Topics:      snapshotTopics,
		Version:     version,
		LastUpdated: lastUpdated,
	}, nil
}

// CacheSnapshot stores a built snapshot for subsequent downloads.
func (s *SyncService) CacheSnapshot(ctx context.Context, snap *model.Snapshot) {
	raw, err := json.Marshal(snap)
	if err != nil {
		s.log.Error().Err(err).Msg("snapshot marshal failed")
		return
	}
	if err := s.rdb.Set(ctx, config.CacheKey.SnapshotKey(), raw, snapshotCacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Msg("snapshot cache write failed")
	}
}

// CurrentVersion reads the content version setting. Before the first trigger
// the setting is absent and the version is zero.
func (s *SyncService) CurrentVersion(ctx context.Context) (int, error) {
	setting, err := s.settings.GetByKey(ctx, model.SettingContentVersion)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	version, err := strconv.Atoi(setting.Value)
	if err != nil {
		return 0, err
	}
	return version, nil
}

func (s *SyncService) lastSyncAt(ctx context.Context) *time.Time {
	setting, err := s.settings.GetByKey(ctx, model.SettingLastSyncAt)
	if err != nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339, setting.Value)
	if err != nil {
		return nil
	}
	return &t
}

// queueRebuild hands the snapshot rebuild to the background worker. A queue
// failure is logged only: the download path rebuilds inline on a cache miss.
func (s *SyncService) queueRebuild(ctx context.Context, version int) {
	if err := s.rdb.RPush(ctx, config.CacheKey.SnapshotRebuildQueue(), strconv.Itoa(version)).Err(); err != nil {
		s.log.Warn().Err(err).Int("version", version).Msg("snapshot rebuild enqueue failed")
	}
}

func (s *SyncService) countContent(ctx context.Context) (*model.ContentStats, error) {
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
	return &model.ContentStats{Religions: religions, Topics: topics, Details: details}, nil
}

func (s *SyncService) countUpdatedSince(ctx context.Context, cutoff time.Time) (*model.ContentStats, error) {
	religions, err := s.religions.CountUpdatedSince(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	topics, err := s.topics.CountUpdatedSince(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	details, err := s.details.CountUpdatedSince(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	return &model.ContentStats{Religions: religions, Topics: topics, Details: details}, nil
}
