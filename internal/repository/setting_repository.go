package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abenitj/biblefacts-backend/internal/model"
)

// SettingRepository handles key/value application settings, including the
// content version and last-sync markers owned by the sync coordinator.
type SettingRepository struct {
	pool *pgxpool.Pool
}

// NewSettingRepository creates a new SettingRepository.
func NewSettingRepository(pool *pgxpool.Pool) *SettingRepository {
	return &SettingRepository{pool: pool}
}

func (r *SettingRepository) GetAll(ctx context.Context) ([]model.AppSetting, error) {
	rows, err := r.pool.Query(ctx, `SELECT key, value, updated_at FROM settings ORDER BY key ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []model.AppSetting
	for rows.Next() {
		var s model.AppSetting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

func (r *SettingRepository) GetByKey(ctx context.Context, key string) (*model.AppSetting, error) {
	s := &model.AppSetting{}
	err := r.pool.QueryRow(ctx, `SELECT key, value, updated_at FROM settings WHERE key = $1`, key).
		Scan(&s.Key, &s.Value, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SettingRepository) Upsert(ctx context.Context, key, value string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value)
	return err
}

// IncrementInt atomically bumps an integer-valued setting and returns the new
// value. Missing keys start from zero.
func (r *SettingRepository) IncrementInt(ctx context.Context, key string) (int, error) {
	var value int
	err := r.pool.QueryRow(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES ($1, '1', NOW())
		 ON CONFLICT (key) DO UPDATE SET value = (settings.value::int + 1)::text, updated_at = NOW()
		 RETURNING value::int`, key).
		Scan(&value)
	return value, err
}
