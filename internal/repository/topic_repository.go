package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abenitj/biblefacts-backend/internal/model"
)

// TopicRepository handles topic data access.
type TopicRepository struct {
	pool *pgxpool.Pool
}

// NewTopicRepository creates a new TopicRepository.
func NewTopicRepository(pool *pgxpool.Pool) *TopicRepository {
	return &TopicRepository{pool: pool}
}

const topicSelect = `SELECT t.id, t.religion_id, t.title, t.title_en, t.description,
	EXISTS (SELECT 1 FROM topic_details d WHERE d.topic_id = t.id),
	t.created_at, t.updated_at
	FROM topics t`

func (r *TopicRepository) scanTopics(ctx context.Context, query string, args ...any) ([]model.Topic, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []model.Topic
	for rows.Next() {
		var t model.Topic
		if err := rows.Scan(&t.ID, &t.ReligionID, &t.Title, &t.TitleEn, &t.Description,
			&t.HasContent, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

func (r *TopicRepository) List(ctx context.Context) ([]model.Topic, error) {
	return r.scanTopics(ctx, topicSelect+` ORDER BY t.title ASC`)
}

func (r *TopicRepository) ListByReligion(ctx context.Context, religionID int) ([]model.Topic, error) {
	return r.scanTopics(ctx, topicSelect+` WHERE t.religion_id = $1 ORDER BY t.title ASC`, religionID)
}

func (r *TopicRepository) GetByID(ctx context.Context, id int) (*model.Topic, error) {
	t := &model.Topic{}
	err := r.pool.QueryRow(ctx, topicSelect+` WHERE t.id = $1`, id).
		Scan(&t.ID, &t.ReligionID, &t.Title, &t.TitleEn, &t.Description,
			&t.HasContent, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TopicRepository) Create(ctx context.Context, t *model.Topic) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO topics (religion_id, title, title_en, description)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		t.ReligionID, t.Title, t.TitleEn, t.Description).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TopicRepository) Update(ctx context.Context, t *model.Topic) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE topics SET title = $1, title_en = $2, description = $3, updated_at = NOW()
		 WHERE id = $4`,
		t.Title, t.TitleEn, t.Description, t.ID)
	return err
}

func (r *TopicRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM topics WHERE id = $1`, id)
	return err
}

func (r *TopicRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM topics`).Scan(&n)
	return n, err
}

// CountUpdatedSince counts topics touched at or after the cutoff.
func (r *TopicRepository) CountUpdatedSince(ctx context.Context, cutoff time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM topics WHERE updated_at >= $1`, cutoff).Scan(&n)
	return n, err
}
