package playlists

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests and local development.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[[2]string]SavedPlaylist
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[[2]string]SavedPlaylist), now: time.Now}
}

// SetClock overrides the time source. Test helper.
func (s *MemoryStore) SetClock(now func() time.Time) { s.now = now }

func (s *MemoryStore) Save(_ context.Context, p SavedPlaylist) (SavedPlaylist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := [2]string{p.UserID, p.PlaylistID}
	if existing, ok := s.items[k]; ok {
		p.CreatedAt = existing.CreatedAt
	} else {
		p.CreatedAt = s.now().UTC()
	}
	s.items[k] = p
	return p, nil
}

func (s *MemoryStore) List(_ context.Context, userID string) ([]SavedPlaylist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []SavedPlaylist
	for _, p := range s.items {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].PlaylistID > out[j].PlaylistID
	})
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, userID, playlistID string) (SavedPlaylist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.items[[2]string{userID, playlistID}]
	if !ok {
		return SavedPlaylist{}, ErrNotFound
	}
	return p, nil
}
