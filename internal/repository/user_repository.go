package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abenitj/biblefacts-backend/internal/model"
)

// UserRepository handles staff account data access.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, username, email, password_hash, role, status, avatar_url, permissions,
	welcome_email_sent, last_login_at, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.Status,
		&u.AvatarURL, &u.Permissions, &u.WelcomeEmailSent, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY username ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash, role, status, permissions)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, welcome_email_sent, created_at, updated_at`,
		u.Username, u.Email, u.PasswordHash, u.Role, u.Status, u.Permissions).
		Scan(&u.ID, &u.WelcomeEmailSent, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) Update(ctx context.Context, u *model.User) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET email = $1, role = $2, status = $3, permissions = $4, updated_at = NOW()
		 WHERE id = $5`,
		u.Email, u.Role, u.Status, u.Permissions, u.ID)
	return err
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int, email *string, passwordHash *string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users
		 SET email = COALESCE($1, email),
		     password_hash = COALESCE($2, password_hash),
		     updated_at = NOW()
		 WHERE id = $3`,
		email, passwordHash, id)
	return err
}

func (r *UserRepository) SetAvatar(ctx context.Context, id int, url string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET avatar_url = $1, updated_at = NOW() WHERE id = $2`,
		url, id)
	return err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, id)
	return err
}

func (r *UserRepository) SetWelcomeEmailSent(ctx context.Context, id int, sent bool) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET welcome_email_sent = $1, updated_at = NOW() WHERE id = $2`,
		sent, id)
	return err
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET last_login_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *UserRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
