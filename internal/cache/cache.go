// Package cache provides a small JSON cache-aside layer with an
// in-process TTL implementation and a Redis implementation.
package cache

import (
	"context"
	"time"
)

// Cache stores JSON-serializable values under string keys.
type Cache interface {
	// Get unmarshals the cached value into dest and reports whether the
	// key was present and fresh.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete drops a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
