package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// InvalidationSubject carries cache keys to drop, fleet-wide.
const InvalidationSubject = "cache.invalidate"

// Memory is an in-process TTL cache. Values are stored as JSON so the
// behaviour matches the Redis implementation exactly.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry), now: time.Now}
}

// SetClock overrides the time source. Test helper.
func (m *Memory) SetClock(now func() time.Time) { m.now = now }

func (m *Memory) Get(_ context.Context, key string, dest any) (bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if m.now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return false, nil
	}
	if err := json.Unmarshal(e.data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.entries[key] = memoryEntry{data: data, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// SubscribeInvalidation wires the cache to the fleet invalidation
// subject so other instances can evict this one's keys. Returns the
// subscription so the caller can drain it on shutdown.
func (m *Memory) SubscribeInvalidation(nc *nats.Conn, log *zap.Logger) (*nats.Subscription, error) {
	return nc.Subscribe(InvalidationSubject, func(msg *nats.Msg) {
		key := string(msg.Data)
		if key == "" {
			return
		}
		_ = m.Delete(context.Background(), key)
		if log != nil {
			log.Debug("cache key invalidated", zap.String("key", key))
		}
	})
}
