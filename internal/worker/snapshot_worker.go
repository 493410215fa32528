package worker

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/abenitj/biblefacts-backend/internal/config"
	"github.com/abenitj/biblefacts-backend/internal/service"
)

// SnapshotWorker consumes the rebuild queue and materializes the content
// snapshot into Redis so downloads never pay the assembly cost.
type SnapshotWorker struct {
	sync *service.SyncService
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewSnapshotWorker creates a new SnapshotWorker.
func NewSnapshotWorker(sync *service.SyncService, rdb *redis.Client, log zerolog.Logger) *SnapshotWorker {
	return &SnapshotWorker{
		sync: sync,
		rdb:  rdb,
		log:  log.With().Str("component", "snapshot_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *SnapshotWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Rebuild once more if jobs are still queued.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *SnapshotWorker) processNext(ctx context.Context) {
	// BLPop blocks until a job is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, config.CacheKey.SnapshotRebuildQueue()).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(result) < 2 {
		return
	}

	if err := w.rebuild(ctx); err != nil {
		w.log.Error().Err(err).Msg("Rebuild error, retrying in 5s")
		// Push back to queue for retry.
		w.rdb.RPush(ctx, config.CacheKey.SnapshotRebuildQueue(), result[1])
		time.Sleep(5 * time.Second)
	}
}

// rebuild assembles the snapshot and writes it to the cache. Queued jobs are
// coalesced: any remaining jobs describe the same state that was just built,
// so they are dropped.
func (w *SnapshotWorker) rebuild(ctx context.Context) error {
	snap, err := w.sync.BuildSnapshot(ctx)
	if err != nil {
		return err
	}
	w.sync.CacheSnapshot(ctx, snap)
	w.rdb.Del(ctx, config.CacheKey.SnapshotRebuildQueue())

	w.log.Info().
		Int("version", snap.Version).
		Int("topics", len(snap.Topics)).
		Msg("Snapshot rebuilt")
	return nil
}

// drain performs a final rebuild before shutdown if the queue is non-empty.
func (w *SnapshotWorker) drain(ctx context.Context) {
	pending, err := w.rdb.LLen(ctx, config.CacheKey.SnapshotRebuildQueue()).Result()
	if err != nil || pending == 0 {
		return
	}

	w.log.Info().Int64("pending", pending).Msg("Draining rebuild queue...")
	if err := w.rebuild(ctx); err != nil {
		w.log.Error().Err(err).Msg("Drain rebuild failed")
	}
}
