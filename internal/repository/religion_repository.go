package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abenitj/biblefacts-backend/internal/model"
)

// ReligionRepository handles religion data access.
type ReligionRepository struct {
	pool *pgxpool.Pool
}

// NewReligionRepository creates a new ReligionRepository.
func NewReligionRepository(pool *pgxpool.Pool) *ReligionRepository {
	return &ReligionRepository{pool: pool}
}

func (r *ReligionRepository) List(ctx context.Context) ([]model.Religion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.name, r.name_en, r.description, r.color,
		        (SELECT COUNT(*) FROM topics t WHERE t.religion_id = r.id),
		        r.created_at, r.updated_at
		 FROM religions r
		 ORDER BY r.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var religions []model.Religion
	for rows.Next() {
		var rel model.Religion
		if err := rows.Scan(&rel.ID, &rel.Name, &rel.NameEn, &rel.Description, &rel.Color,
			&rel.TopicCount, &rel.CreatedAt, &rel.UpdatedAt); err != nil {
			return nil, err
		}
		religions = append(religions, rel)
	}
	return religions, rows.Err()
}

func (r *ReligionRepository) GetByID(ctx context.Context, id int) (*model.Religion, error) {
	rel := &model.Religion{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, name_en, description, color, created_at, updated_at
		 FROM religions WHERE id = $1`, id).
		Scan(&rel.ID, &rel.Name, &rel.NameEn, &rel.Description, &rel.Color,
			&rel.CreatedAt, &rel.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rel, nil
}

func (r *ReligionRepository) Create(ctx context.Context, rel *model.Religion) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO religions (name, name_en, description, color)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		rel.Name, rel.NameEn, rel.Description, rel.Color).
		Scan(&rel.ID, &rel.CreatedAt, &rel.UpdatedAt)
}

func (r *ReligionRepository) Update(ctx context.Context, rel *model.Religion) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE religions SET name = $1, name_en = $2, description = $3, color = $4, updated_at = NOW()
		 WHERE id = $5`,
		rel.Name, rel.NameEn, rel.Description, rel.Color, rel.ID)
	return err
}

func (r *ReligionRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM religions WHERE id = $1`, id)
	return err
}

// TopicCount returns the number of topics referencing the religion.
func (r *ReligionRepository) TopicCount(ctx context.Context, id int) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM topics WHERE religion_id = $1`, id).Scan(&n)
	return n, err
}

func (r *ReligionRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM religions`).Scan(&n)
	return n, err
}

// CountUpdatedSince counts religions touched at or after the cutoff.
func (r *ReligionRepository) CountUpdatedSince(ctx context.Context, cutoff time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM religions WHERE updated_at >= $1`, cutoff).Scan(&n)
	return n, err
}
