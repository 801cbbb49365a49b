package progress

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no record exists for the given keys.
var ErrNotFound = errors.New("progress record not found")

// Store persists progress records keyed by (user, playlist, video).
type Store interface {
	// Upsert applies an Update through the Merge rules and reports whether
	// a new record was created (as opposed to an existing one updated).
	Upsert(ctx context.Context, u Update) (Record, bool, error)

	// Get returns the record for one video.
	Get(ctx context.Context, userID, playlistID, videoID string) (Record, error)

	// List returns all of a user's records, most recently watched first.
	// An empty playlistID returns records across all playlists.
	List(ctx context.Context, userID, playlistID string) ([]Record, error)
}
