// Package playlists persists the playlists a user has imported.
package playlists

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when the user has not saved the playlist.
var ErrNotFound = errors.New("saved playlist not found")

// SavedPlaylist is one imported playlist, denormalized from the catalog
// metadata at import time.
type SavedPlaylist struct {
	UserID       string    `json:"user_id"`
	PlaylistID   string    `json:"playlist_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	ChannelID    string    `json:"channel_id,omitempty"`
	ChannelTitle string    `json:"channel_title,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store persists saved playlists.
type Store interface {
	// Save upserts the playlist for the user. Re-importing refreshes the
	// denormalized metadata but keeps the original CreatedAt.
	Save(ctx context.Context, p SavedPlaylist) (SavedPlaylist, error)

	// List returns the user's playlists, newest first.
	List(ctx context.Context, userID string) ([]SavedPlaylist, error)

	// Get returns one saved playlist.
	Get(ctx context.Context, userID, playlistID string) (SavedPlaylist, error)
}
