package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the production implementation.
//
// Schema:
//
//	CREATE TABLE users (
//	    id         TEXT PRIMARY KEY,
//	    email      TEXT NOT NULL,
//	    name       TEXT NOT NULL DEFAULT '',
//	    avatar_url TEXT NOT NULL DEFAULT '',
//	    created_at TIMESTAMPTZ NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL
//	);
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Upsert(ctx context.Context, u User) (User, error) {
	q := `
INSERT INTO users (id, email, name, avatar_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5)
ON CONFLICT (id)
DO UPDATE SET
  email      = EXCLUDED.email,
  name       = EXCLUDED.name,
  avatar_url = EXCLUDED.avatar_url,
  updated_at = EXCLUDED.updated_at
RETURNING created_at, updated_at`

	out := u
	err := s.db.QueryRow(ctx, q, u.ID, u.Email, u.Name, u.AvatarURL, time.Now().UTC()).
		Scan(&out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return User{}, err
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (User, error) {
	q := `SELECT email, name, avatar_url, created_at, updated_at FROM users WHERE id=$1`
	out := User{ID: id}
	err := s.db.QueryRow(ctx, q, id).
		Scan(&out.Email, &out.Name, &out.AvatarURL, &out.CreatedAt, &out.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return out, nil
}
