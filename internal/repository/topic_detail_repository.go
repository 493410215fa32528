package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abenitj/biblefacts-backend/internal/model"
)

// TopicDetailRepository handles topic content data access. Writes are
// compare-and-swap guarded on the version column.
type TopicDetailRepository struct {
	pool *pgxpool.Pool
}

// NewTopicDetailRepository creates a new TopicDetailRepository.
func NewTopicDetailRepository(pool *pgxpool.Pool) *TopicDetailRepository {
	return &TopicDetailRepository{pool: pool}
}

func (r *TopicDetailRepository) GetByTopicID(ctx context.Context, topicID int) (*model.TopicDetail, error) {
	d := &model.TopicDetail{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, topic_id, explanation, bible_verses, key_points, refs, version, created_at, updated_at
		 FROM topic_details WHERE topic_id = $1`, topicID).
		Scan(&d.ID, &d.TopicID, &d.Explanation, &d.BibleVerses, &d.KeyPoints,
			&d.References, &d.Version, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Create inserts initial content at version 1. The unique topic_id constraint
// rejects a second create.
func (r *TopicDetailRepository) Create(ctx context.Context, d *model.TopicDetail) error {
	d.Version = 1
	return r.pool.QueryRow(ctx,
		`INSERT INTO topic_details (topic_id, explanation, bible_verses, key_points, refs, version)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		d.TopicID, d.Explanation, d.BibleVerses, d.KeyPoints, d.References, d.Version).
		Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

// UpdateIfVersion replaces content only when the stored version still equals
// expectedVersion, bumping it by one. Returns false when the row has advanced
// (or vanished) since the client read it.
func (r *TopicDetailRepository) UpdateIfVersion(ctx context.Context, d *model.TopicDetail, expectedVersion int) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE topic_details
		 SET explanation = $1, bible_verses = $2, key_points = $3, refs = $4,
		     version = version + 1, updated_at = NOW()
		 WHERE topic_id = $5 AND version = $6`,
		d.Explanation, d.BibleVerses, d.KeyPoints, d.References, d.TopicID, expectedVersion)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	d.Version = expectedVersion + 1
	return true, nil
}

func (r *TopicDetailRepository) Delete(ctx context.Context, topicID int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM topic_details WHERE topic_id = $1`, topicID)
	return err
}

// ExistsForTopic reports whether a topic carries content.
func (r *TopicDetailRepository) ExistsForTopic(ctx context.Context, topicID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM topic_details WHERE topic_id = $1)`, topicID).Scan(&exists)
	return exists, err
}

func (r *TopicDetailRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM topic_details`).Scan(&n)
	return n, err
}

// CountUpdatedSince counts details touched at or after the cutoff.
func (r *TopicDetailRepository) CountUpdatedSince(ctx context.Context, cutoff time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM topic_details WHERE updated_at >= $1`, cutoff).Scan(&n)
	return n, err
}

// ListAll returns every detail row keyed by topic ID, for snapshot builds.
func (r *TopicDetailRepository) ListAll(ctx context.Context) (map[int]*model.TopicDetail, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, topic_id, explanation, bible_verses, key_points, refs, version, created_at, updated_at
		 FROM topic_details`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make(map[int]*model.TopicDetail)
	for rows.Next() {
		d := &model.TopicDetail{}
		if err := rows.Scan(&d.ID, &d.TopicID, &d.Explanation, &d.BibleVerses, &d.KeyPoints,
			&d.References, &d.Version, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		details[d.TopicID] = d
	}
	return details, rows.Err()
}

// MaxUpdatedAt returns the most recent updated_at across religions, topics,
// and details. Zero time when the store is empty.
func (r *TopicDetailRepository) MaxUpdatedAt(ctx context.Context) (time.Time, error) {
	var max *time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT GREATEST(
			(SELECT MAX(updated_at) FROM religions),
			(SELECT MAX(updated_at) FROM topics),
			(SELECT MAX(updated_at) FROM topic_details)
		)`).Scan(&max)
	if err != nil {
		return time.Time{}, err
	}
	if max == nil {
		return time.Time{}, nil
	}
	return *max, nil
}
