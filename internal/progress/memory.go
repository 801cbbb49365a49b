package progress

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests and local development.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[[3]string]Record
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[[3]string]Record),
		now:     time.Now,
	}
}

// SetClock overrides the time source. Test helper.
func (s *MemoryStore) SetClock(now func() time.Time) { s.now = now }

func key(userID, playlistID, videoID string) [3]string {
	return [3]string{userID, playlistID, videoID}
}

func (s *MemoryStore) Upsert(_ context.Context, u Update) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(u.UserID, u.PlaylistID, u.VideoID)
	existing, existed := s.records[k]
	merged := Merge(existing, existed, u, s.now())
	s.records[k] = merged
	return merged, !existed, nil
}

func (s *MemoryStore) Get(_ context.Context, userID, playlistID, videoID string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[key(userID, playlistID, videoID)]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (s *MemoryStore) List(_ context.Context, userID, playlistID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for _, rec := range s.records {
		if rec.UserID != userID {
			continue
		}
		if playlistID != "" && rec.PlaylistID != playlistID {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastWatchedAt.Equal(out[j].LastWatchedAt) {
			return out[i].LastWatchedAt.After(out[j].LastWatchedAt)
		}
		return out[i].VideoID > out[j].VideoID
	})
	return out, nil
}
