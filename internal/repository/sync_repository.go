package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abenitj/biblefacts-backend/internal/model"
)

// SyncRepository handles sync event history.
type SyncRepository struct {
	pool *pgxpool.Pool
}

// NewSyncRepository creates a new SyncRepository.
func NewSyncRepository(pool *pgxpool.Pool) *SyncRepository {
	return &SyncRepository{pool: pool}
}

func (r *SyncRepository) Record(ctx context.Context, e *model.SyncEvent) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO sync_events (triggered_by, triggered_by_username, religion_count, topic_count, detail_count)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, triggered_at`,
		e.TriggeredBy, e.TriggeredByName, e.ReligionCount, e.TopicCount, e.DetailCount).
		Scan(&e.ID, &e.TriggeredAt)
}

// ListRecent returns the newest sync events. The username is read from the
// event row itself, so events from deleted accounts still list normally.
func (r *SyncRepository) ListRecent(ctx context.Context, limit int) ([]model.SyncEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, triggered_by, triggered_by_username, religion_count, topic_count, detail_count, triggered_at
		 FROM sync_events
		 ORDER BY triggered_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.SyncEvent
	for rows.Next() {
		var e model.SyncEvent
		if err := rows.Scan(&e.ID, &e.TriggeredBy, &e.TriggeredByName, &e.ReligionCount,
			&e.TopicCount, &e.DetailCount, &e.TriggeredAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
