package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abenitj/biblefacts-backend/internal/config"
	"github.com/abenitj/biblefacts-backend/internal/model"
)

type fakeReligionSource struct{ religions []model.Religion }

func (s *fakeReligionSource) List(_ context.Context) ([]model.Religion, error) {
	return s.religions, nil
}

func (s *fakeReligionSource) Count(_ context.Context) (int, error) {
	return len(s.religions), nil
}

func (s *fakeReligionSource) CountUpdatedSince(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

type fakeTopicSource struct{ topics []model.Topic }

func (s *fakeTopicSource) List(_ context.Context) ([]model.Topic, error) {
	return s.topics, nil
}

func (s *fakeTopicSource) Count(_ context.Context) (int, error) {
	return len(s.topics), nil
}

func (s *fakeTopicSource) CountUpdatedSince(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

type fakeDetailSource struct{ details map[int]*model.TopicDetail }

func (s *fakeDetailSource) ListAll(_ context.Context) (map[int]*model.TopicDetail, error) {
	return s.details, nil
}

func (s *fakeDetailSource) MaxUpdatedAt(_ context.Context) (time.Time, error) {
	return time.Time{}, nil
}

func (s *fakeDetailSource) Count(_ context.Context) (int, error) {
	return len(s.details), nil
}

func (s *fakeDetailSource) CountUpdatedSince(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

type fakeSyncEventStore struct{ events []model.SyncEvent }

func (s *fakeSyncEventStore) Record(_ context.Context, e *model.SyncEvent) error {
	e.ID = len(s.events) + 1
	e.TriggeredAt = time.Now().UTC()
	s.events = append(s.events, *e)
	return nil
}

func (s *fakeSyncEventStore) ListRecent(_ context.Context, limit int) ([]model.SyncEvent, error) {
	if limit > len(s.events) {
		limit = len(s.events)
	}
	out := make([]model.SyncEvent, limit)
	copy(out, s.events[len(s.events)-limit:])
	return out, nil
}

type fakeSettingStore struct{ values map[string]string }

func newFakeSettingStore() *fakeSettingStore {
	return &fakeSettingStore{values: map[string]string{}}
}

func (s *fakeSettingStore) GetByKey(_ context.Context, key string) (*model.AppSetting, error) {
	v, ok := s.values[key]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &model.AppSetting{Key: key, Value: v}, nil
}

func (s *fakeSettingStore) Upsert(_ context.Context, key, value string) error {
	s.values[key] = value
	return nil
}

func (s *fakeSettingStore) IncrementInt(_ context.Context, key string) (int, error) {
	n, _ := strconv.Atoi(s.values[key])
	n++
	s.values[key] = strconv.Itoa(n)
	return n, nil
}

func newSyncFixture(t *testing.T) (*SyncService, *fakeSyncEventStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	events := &fakeSyncEventStore{}
	svc := NewSyncService(
		&fakeReligionSource{religions: []model.Religion{{ID: 1, Name: "Christianity"}}},
		&fakeTopicSource{topics: []model.Topic{{ID: 1, ReligionID: 1, Title: "Creation"}}},
		&fakeDetailSource{details: map[int]*model.TopicDetail{}},
		events,
		newFakeSettingStore(),
		rdb,
		zerolog.Nop(),
	)
	return svc, events, mr
}

func TestIsRecentInsideWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, IsRecent(now, now))
	assert.True(t, IsRecent(now.Add(-time.Hour), now))
	assert.True(t, IsRecent(now.Add(-23*time.Hour), now))
}

func TestIsRecentBoundaryIsInclusive(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// A change exactly 24 hours old still counts as recent.
	assert.True(t, IsRecent(now.Add(-24*time.Hour), now))
	assert.False(t, IsRecent(now.Add(-24*time.Hour-time.Second), now))
	assert.False(t, IsRecent(now.Add(-25*time.Hour), now))
}

func TestHasUpdate(t *testing.T) {
	// A fresh client (version 0) is behind any published state.
	assert.True(t, HasUpdate(0, 1))
	assert.True(t, HasUpdate(3, 7))

	// Equal or ahead means nothing to fetch.
	assert.False(t, HasUpdate(7, 7))
	assert.False(t, HasUpdate(8, 7))

	// Nothing published yet.
	assert.False(t, HasUpdate(0, 0))
}

func TestIsStale(t *testing.T) {
	earlier := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	later := earlier.Add(time.Hour)

	// Version behind is stale regardless of timestamps.
	assert.True(t, IsStale(1, 2, nil, nil))
	assert.True(t, IsStale(1, 2, &later, &earlier))

	// Same version, server published after the client's last sync.
	assert.True(t, IsStale(2, 2, &earlier, &later))

	// Same version, client is current or ahead in time.
	assert.False(t, IsStale(2, 2, &later, &earlier))
	assert.False(t, IsStale(2, 2, &later, &later))

	// Missing timestamps leave the version comparison as the only signal.
	assert.False(t, IsStale(2, 2, nil, &later))
	assert.False(t, IsStale(2, 2, &earlier, nil))
}

func TestTriggerSnapshotsUsernameOntoEvent(t *testing.T) {
	svc, events, mr := newSyncFixture(t)

	result, err := svc.Trigger(context.Background(), 7, "publisher")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Version)
	assert.Equal(t, "publisher", result.TriggeredBy)

	// The event row carries the username itself, so sync history keeps
	// naming the publisher after the account is gone.
	require.Len(t, events.events, 1)
	recorded := events.events[0]
	assert.Equal(t, "publisher", recorded.TriggeredByName)
	require.NotNil(t, recorded.TriggeredBy)
	assert.Equal(t, 7, *recorded.TriggeredBy)

	// A rebuild job was queued for the worker.
	jobs, err := mr.List(config.CacheKey.SnapshotRebuildQueue())
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, jobs)
}

func TestTriggerAdvancesVersionEachPublish(t *testing.T) {
	svc, _, _ := newSyncFixture(t)

	first, err := svc.Trigger(context.Background(), 7, "publisher")
	require.NoError(t, err)
	second, err := svc.Trigger(context.Background(), 7, "publisher")
	require.NoError(t, err)

	assert.Equal(t, 1, first.Version)
	assert.Equal(t, 2, second.Version)

	version, err := svc.CurrentVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, version)
}
