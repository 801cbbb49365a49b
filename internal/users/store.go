// Package users stores the minimal profile written through the OAuth
// callback: id, email, display name, avatar.
package users

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no profile exists for the id.
var ErrNotFound = errors.New("user not found")

// User is one stored profile.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists user profiles.
type Store interface {
	// Upsert writes the profile, refreshing mutable fields on re-login.
	Upsert(ctx context.Context, u User) (User, error)

	// Get fetches a profile by id.
	Get(ctx context.Context, id string) (User, error)
}
