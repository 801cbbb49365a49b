package quota

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests and local development.
type MemoryStore struct {
	mu     sync.Mutex
	counts map[string]int // userID + "|" + day
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counts: make(map[string]int)}
}

func (s *MemoryStore) CheckAndIncrement(_ context.Context, userID string, now time.Time) (Usage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := userID + "|" + DayKey(now)
	if s.counts[k] >= DailyLimit {
		return usageFor(s.counts[k]), ErrLimitExceeded
	}
	s.counts[k]++
	return usageFor(s.counts[k]), nil
}

func (s *MemoryStore) GetUsage(_ context.Context, userID string, now time.Time) (Usage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return usageFor(s.counts[userID+"|"+DayKey(now)]), nil
}
