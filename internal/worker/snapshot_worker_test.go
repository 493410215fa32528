package worker

import (
	"context"
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
	"github.com/abenitj/biblefacts-backend/internal/service"
)

type emptyReligionSource struct{}

func (emptyReligionSource) List(_ context.Context) ([]model.Religion, error) { return nil, nil }
func (emptyReligionSource) Count(_ context.Context) (int, error)             { return 0, nil }
func (emptyReligionSource) CountUpdatedSince(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

type emptyTopicSource struct{}

func (emptyTopicSource) List(_ context.Context) ([]model.Topic, error) { return nil, nil }
func (emptyTopicSource) Count(_ context.Context) (int, error)          { return 0, nil }
func (emptyTopicSource) CountUpdatedSince(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

type emptyDetailSource struct{}

func (emptyDetailSource) ListAll(_ context.Context) (map[int]*model.TopicDetail, error) {
	return nil, nil
}
func (emptyDetailSource) MaxUpdatedAt(_ context.Context) (time.Time, error) {
	return time.Time{}, nil
}
func (emptyDetailSource) Count(_ context.Context) (int, error) { return 0, nil }
func (emptyDetailSource) CountUpdatedSince(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

type emptyEventStore struct{}

func (emptyEventStore) Record(_ context.Context, _ *model.SyncEvent) error { return nil }
func (emptyEventStore) ListRecent(_ context.Context, _ int) ([]model.SyncEvent, error) {
	return nil, nil
}

type emptySettingStore struct{}

func (emptySettingStore) GetByKey(_ context.Context, _ string) (*model.AppSetting, error) {
	return nil, pgx.ErrNoRows
}
func (emptySettingStore) Upsert(_ context.Context, _, _ string) error { return nil }
func (emptySettingStore) IncrementInt(_ context.Context, _ string) (int, error) {
	return 1, nil
}

func newWorkerFixture(t *testing.T) (*SnapshotWorker, *redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	syncService := service.NewSyncService(
		emptyReligionSource{}, emptyTopicSource{}, emptyDetailSource{},
		emptyEventStore{}, emptySettingStore{},
		rdb, zerolog.Nop(),
	)
	return NewSnapshotWorker(syncService, rdb, zerolog.Nop()), rdb, mr
}

func TestWorkerStartReturnsAfterCancel(t *testing.T) {
	w, _, _ := newWorkerFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Start(ctx)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestWorkerDrainsPendingJobsOnShutdown(t *testing.T) {
	w, rdb, mr := newWorkerFixture(t)

	require.NoError(t, rdb.RPush(context.Background(),
		config.CacheKey.SnapshotRebuildQueue(), "3").Err())

	// An already-cancelled context sends Start straight into the drain path.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Start(ctx)

	assert.True(t, mr.Exists(config.CacheKey.SnapshotKey()))
	assert.False(t, mr.Exists(config.CacheKey.SnapshotRebuildQueue()))
}
