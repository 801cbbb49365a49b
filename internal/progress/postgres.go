package progress

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the production Postgres-backed implementation.
//
// Schema:
//
//	CREATE TABLE video_progress (
//	    user_id          TEXT NOT NULL,
//	    playlist_id      TEXT NOT NULL,
//	    video_id         TEXT NOT NULL,
//	    watched_seconds  DOUBLE PRECISION NOT NULL DEFAULT 0,
//	    duration_seconds DOUBLE PRECISION NOT NULL DEFAULT 0,
//	    completed        BOOLEAN NOT NULL DEFAULT FALSE,
//	    last_watched_at  TIMESTAMPTZ NOT NULL,
//	    PRIMARY KEY (user_id, playlist_id, video_id)
//	);
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Upsert applies the merge rules in a single statement. The duration only
// moves to a fresh non-zero value and the completed flag latches; both
// arms resolve inside the upsert so concurrent saves serialize on the row.
// (xmax = 0) distinguishes a fresh insert from a conflict update.
func (s *PostgresStore) Upsert(ctx context.Context, u Update) (Record, bool, error) {
	merged := Merge(Record{}, false, u, time.Now())

	q := `
INSERT INTO video_progress (user_id, playlist_id, video_id, watched_seconds, duration_seconds, completed, last_watched_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (user_id, playlist_id, video_id)
DO UPDATE SET
  watched_seconds  = EXCLUDED.watched_seconds,
  duration_seconds = CASE WHEN EXCLUDED.duration_seconds > 0
                          THEN EXCLUDED.duration_seconds
                          ELSE video_progress.duration_seconds END,
  completed = video_progress.completed
              OR EXCLUDED.completed
              OR (
                  CASE WHEN EXCLUDED.duration_seconds > 0
                       THEN EXCLUDED.duration_seconds
                       ELSE video_progress.duration_seconds END > 0
                  AND EXCLUDED.watched_seconds >= 0.9 * (
                      CASE WHEN EXCLUDED.duration_seconds > 0
                           THEN EXCLUDED.duration_seconds
                           ELSE video_progress.duration_seconds END)
              ),
  last_watched_at  = EXCLUDED.last_watched_at
RETURNING watched_seconds, duration_seconds, completed, last_watched_at, (xmax = 0) AS created`

	out := Record{UserID: u.UserID, PlaylistID: u.PlaylistID, VideoID: u.VideoID}
	var created bool
	err := s.db.QueryRow(ctx, q,
		merged.UserID, merged.PlaylistID, merged.VideoID,
		merged.WatchedSeconds, merged.DurationSeconds, merged.Completed, merged.LastWatchedAt,
	).Scan(&out.WatchedSeconds, &out.DurationSeconds, &out.Completed, &out.LastWatchedAt, &created)
	if err != nil {
		return Record{}, false, err
	}
	return out, created, nil
}

func (s *PostgresStore) Get(ctx context.Context, userID, playlistID, videoID string) (Record, error) {
	q := `SELECT watched_seconds, duration_seconds, completed, last_watched_at
	      FROM video_progress WHERE user_id=$1 AND playlist_id=$2 AND video_id=$3`
	out := Record{UserID: userID, PlaylistID: playlistID, VideoID: videoID}
	err := s.db.QueryRow(ctx, q, userID, playlistID, videoID).
		Scan(&out.WatchedSeconds, &out.DurationSeconds, &out.Completed, &out.LastWatchedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return out, nil
}

func (s *PostgresStore) List(ctx context.Context, userID, playlistID string) ([]Record, error) {
	q := `SELECT playlist_id, video_id, watched_seconds, duration_seconds, completed, last_watched_at
	      FROM video_progress WHERE user_id=$1`
	args := []any{userID}
	if playlistID != "" {
		q += " AND playlist_id=$2"
		args = append(args, playlistID)
	}
	q += " ORDER BY last_watched_at DESC, video_id DESC"

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec := Record{UserID: userID}
		if err := rows.Scan(&rec.PlaylistID, &rec.VideoID, &rec.WatchedSeconds, &rec.DurationSeconds, &rec.Completed, &rec.LastWatchedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
