package quota

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
//	CREATE TABLE notes_usage (
//	    user_id  TEXT NOT NULL,
//	    day      TEXT NOT NULL, -- IST calendar date, YYYY-MM-DD
//	    count    INTEGER NOT NULL DEFAULT 0,
//	    PRIMARY KEY (user_id, day)
//	);
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// CheckAndIncrement is a single guarded upsert: the WHERE clause blocks
// the increment once the limit is reached, which surfaces as ErrNoRows.
// Concurrent callers serialize on the row, so the counter can never pass
// the limit no matter how many requests race.
func (s *PostgresStore) CheckAndIncrement(ctx context.Context, userID string, now time.Time) (Usage, error) {
	q := `
INSERT INTO notes_usage (user_id, day, count)
VALUES ($1, $2, 1)
ON CONFLICT (user_id, day)
DO UPDATE SET count = notes_usage.count + 1
WHERE notes_usage.count < $3
RETURNING count`

	var count int
	err := s.db.QueryRow(ctx, q, userID, DayKey(now), DailyLimit).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		// Guard blocked the update; report the untouched usage.
		u, ferr := s.GetUsage(ctx, userID, now)
		if ferr != nil {
			return Usage{}, ferr
		}
		return u, ErrLimitExceeded
	}
	if err != nil {
		return Usage{}, err
	}
	return usageFor(count), nil
}

func (s *PostgresStore) GetUsage(ctx context.Context, userID string, now time.Time) (Usage, error) {
	q := `SELECT count FROM notes_usage WHERE user_id=$1 AND day=$2`
	var count int
	err := s.db.QueryRow(ctx, q, userID, DayKey(now)).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return usageFor(0), nil
	}
	if err != nil {
		return Usage{}, err
	}
	return usageFor(count), nil
}
