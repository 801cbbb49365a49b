// Package progress stores per-user per-video watch state and derives
// completion from it.
package progress

import (
	"math"
	"time"
)

// CompletionThreshold is the watched ratio at which a video counts as done.
const CompletionThreshold = 0.9

// Record is one user's state for one video inside one playlist.
type Record struct {
	UserID          string    `json:"user_id"`
	PlaylistID      string    `json:"playlist_id"`
	VideoID         string    `json:"video_id"`
	WatchedSeconds  float64   `json:"watched_seconds"`
	DurationSeconds float64   `json:"duration_seconds"`
	Completed       bool      `json:"completed"`
	LastWatchedAt   time.Time `json:"last_watched_at"`
}

// Ratio is watched over duration, or 0 when the duration is unknown.
func (r Record) Ratio() float64 {
	if r.DurationSeconds <= 0 {
		return 0
	}
	return r.WatchedSeconds / r.DurationSeconds
}

// Update is one incoming observation from a player or a manual save.
type Update struct {
	UserID          string
	PlaylistID      string
	VideoID         string
	WatchedSeconds  float64
	DurationSeconds float64
	// Completed forces the completed flag on; it never clears it.
	Completed bool
}

// Merge folds an update into an existing record (pass a zero Record with
// existed=false for first contact) and returns the state to persist.
//
// Rules: seconds persist as whole numbers, rounded on the way in; the
// stored duration is replaced only by a fresh non-zero value; completion
// latches once set, whether derived from the watched ratio crossing the
// threshold or forced by the update; rewinding below the threshold never
// clears it.
func Merge(existing Record, existed bool, u Update, now time.Time) Record {
	r := Record{
		UserID:     u.UserID,
		PlaylistID: u.PlaylistID,
		VideoID:    u.VideoID,
	}

	r.WatchedSeconds = math.Round(u.WatchedSeconds)
	if r.WatchedSeconds < 0 {
		r.WatchedSeconds = 0
	}

	r.DurationSeconds = math.Round(u.DurationSeconds)
	if u.DurationSeconds <= 0 && existed {
		r.DurationSeconds = existing.DurationSeconds
	}
	if r.DurationSeconds < 0 {
		r.DurationSeconds = 0
	}

	r.Completed = u.Completed
	if existed && existing.Completed {
		r.Completed = true
	}
	if r.DurationSeconds > 0 && r.WatchedSeconds/r.DurationSeconds >= CompletionThreshold {
		r.Completed = true
	}

	r.LastWatchedAt = now.UTC()
	return r
}
