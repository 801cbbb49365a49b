package playlists

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
//	CREATE TABLE saved_playlists (
//	    user_id       TEXT NOT NULL,
//	    playlist_id   TEXT NOT NULL,
//	    title         TEXT NOT NULL DEFAULT '',
//	    description   TEXT NOT NULL DEFAULT '',
//	    thumbnail_url TEXT NOT NULL DEFAULT '',
//	    channel_id    TEXT NOT NULL DEFAULT '',
//	    channel_title TEXT NOT NULL DEFAULT '',
//	    created_at    TIMESTAMPTZ NOT NULL,
//	    PRIMARY KEY (user_id, playlist_id)
//	);
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, p SavedPlaylist) (SavedPlaylist, error) {
	q := `
INSERT INTO saved_playlists (user_id, playlist_id, title, description, thumbnail_url, channel_id, channel_title, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (user_id, playlist_id)
DO UPDATE SET
  title         = EXCLUDED.title,
  description   = EXCLUDED.description,
  thumbnail_url = EXCLUDED.thumbnail_url,
  channel_id    = EXCLUDED.channel_id,
  channel_title = EXCLUDED.channel_title
RETURNING created_at`

	out := p
	err := s.db.QueryRow(ctx, q,
		p.UserID, p.PlaylistID, p.Title, p.Description, p.ThumbnailURL,
		p.ChannelID, p.ChannelTitle, time.Now().UTC(),
	).Scan(&out.CreatedAt)
	if err != nil {
		return SavedPlaylist{}, err
	}
	return out, nil
}

func (s *PostgresStore) List(ctx context.Context, userID string) ([]SavedPlaylist, error) {
	q := `SELECT playlist_id, title, description, thumbnail_url, channel_id, channel_title, created_at
	      FROM saved_playlists WHERE user_id=$1 ORDER BY created_at DESC, playlist_id DESC`

	rows, err := s.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SavedPlaylist
	for rows.Next() {
		p := SavedPlaylist{UserID: userID}
		if err := rows.Scan(&p.PlaylistID, &p.Title, &p.Description, &p.ThumbnailURL,
			&p.ChannelID, &p.ChannelTitle, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, userID, playlistID string) (SavedPlaylist, error) {
	q := `SELECT title, description, thumbnail_url, channel_id, channel_title, created_at
	      FROM saved_playlists WHERE user_id=$1 AND playlist_id=$2`
	p := SavedPlaylist{UserID: userID, PlaylistID: playlistID}
	err := s.db.QueryRow(ctx, q, userID, playlistID).
		Scan(&p.Title, &p.Description, &p.ThumbnailURL, &p.ChannelID, &p.ChannelTitle, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return SavedPlaylist{}, ErrNotFound
	}
	if err != nil {
		return SavedPlaylist{}, err
	}
	return p, nil
}
