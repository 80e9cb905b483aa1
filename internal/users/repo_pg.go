package users

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

func NewPGRepo(database *sql.DB) *PGRepo {
	return &PGRepo{DB: database}
}

const userColumns = `id, email, name, provider, created_at, last_login_at`

func (r *PGRepo) Upsert(ctx context.Context, user User) (User, error) {
	const query = `
INSERT INTO users (id, email, name, provider, created_at, last_login_at)
VALUES ($1, $2, $3, $4, now(), now())
ON CONFLICT (id) DO UPDATE SET
  email = CASE WHEN EXCLUDED.email <> '' THEN EXCLUDED.email ELSE users.email END,
  name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE users.name END,
  provider = EXCLUDED.provider,
  last_login_at = now()
RETURNING ` + userColumns
	return scanUser(r.DB.QueryRowContext(ctx, query, user.ID, user.Email, user.Name, user.Provider))
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func scanUser(row *sql.Row) (User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Provider, &u.CreatedAt, &u.LastLoginAt); err != nil {
		return User{}, err
	}
	return u, nil
}
