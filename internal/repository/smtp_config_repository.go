package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abenitj/biblefacts-backend/internal/model"
)

// SMTPConfigRepository handles SMTP configuration data access.
type SMTPConfigRepository struct {
	pool *pgxpool.Pool
}

// NewSMTPConfigRepository creates a new SMTPConfigRepository.
func NewSMTPConfigRepository(pool *pgxpool.Pool) *SMTPConfigRepository {
	return &SMTPConfigRepository{pool: pool}
}

const smtpColumns = `id, name, host, port, secure, username, password_enc,
	from_email, from_name, is_active, created_at, updated_at`

func scanSMTPConfig(row interface{ Scan(...any) error }) (*model.SMTPConfig, error) {
	c := &model.SMTPConfig{}
	err := row.Scan(&c.ID, &c.Name, &c.Host, &c.Port, &c.Secure, &c.Username,
		&c.PasswordEnc, &c.FromEmail, &c.FromName, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *SMTPConfigRepository) List(ctx context.Context) ([]model.SMTPConfig, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+smtpColumns+` FROM smtp_configs ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []model.SMTPConfig
	for rows.Next() {
		c, err := scanSMTPConfig(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, *c)
	}
	return configs, rows.Err()
}

func (r *SMTPConfigRepository) GetByID(ctx context.Context, id int) (*model.SMTPConfig, error) {
	return scanSMTPConfig(r.pool.QueryRow(ctx,
		`SELECT `+smtpColumns+` FROM smtp_configs WHERE id = $1`, id))
}

// GetActive returns the active configuration, or nil when none is active.
func (r *SMTPConfigRepository) GetActive(ctx context.Context) (*model.SMTPConfig, error) {
	c, err := scanSMTPConfig(r.pool.QueryRow(ctx,
		`SELECT `+smtpColumns+` FROM smtp_configs WHERE is_active LIMIT 1`))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a configuration. When IsActive is set, all other rows are
// deactivated in the same transaction so at most one config stays active.
func (r *SMTPConfigRepository) Create(ctx context.Context, c *model.SMTPConfig) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if c.IsActive {
		if _, err := tx.Exec(ctx, `UPDATE smtp_configs SET is_active = FALSE WHERE is_active`); err != nil {
			return err
		}
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO smtp_configs (name, host, port, secure, username, password_enc, from_email, from_name, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		c.Name, c.Host, c.Port, c.Secure, c.Username, c.PasswordEnc, c.FromEmail, c.FromName, c.IsActive).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Update replaces a configuration, preserving the exactly-one-active invariant.
func (r *SMTPConfigRepository) Update(ctx context.Context, c *model.SMTPConfig) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if c.IsActive {
		if _, err := tx.Exec(ctx,
			`UPDATE smtp_configs SET is_active = FALSE WHERE is_active AND id <> $1`, c.ID); err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx,
		`UPDATE smtp_configs
		 SET name = $1, host = $2, port = $3, secure = $4, username = $5,
		     password_enc = $6, from_email = $7, from_name = $8, is_active = $9,
		     updated_at = NOW()
		 WHERE id = $10`,
		c.Name, c.Host, c.Port, c.Secure, c.Username, c.PasswordEnc,
		c.FromEmail, c.FromName, c.IsActive, c.ID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Activate marks one configuration active and clears every other row in a
// single transaction.
func (r *SMTPConfigRepository) Activate(ctx context.Context, id int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE smtp_configs SET is_active = FALSE WHERE is_active`); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE smtp_configs SET is_active = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

func (r *SMTPConfigRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM smtp_configs WHERE id = $1`, id)
	return err
}
