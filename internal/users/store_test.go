package users

import (
	"context"
	"errors"
	"testing"
	"time"
)

var (
	_ Store = (*PostgresStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

func TestMemoryStore_UpsertCreatesThenRefreshes(t *testing.T) {
	s := NewMemoryStore()
	cur := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return cur })
	ctx := context.Background()

	first, err := s.Upsert(ctx, User{ID: "u1", Email: "a@example.com", Name: "Alex"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !first.CreatedAt.Equal(cur) || !first.UpdatedAt.Equal(cur) {
		t.Fatalf("unexpected timestamps: %+v", first)
	}

	cur = cur.Add(time.Hour)
	second, err := s.Upsert(ctx, User{ID: "u1", Email: "a@example.com", Name: "Alexandra", AvatarURL: "http://img"})
	if err != nil {
		t.Fatalf("reupsert: %v", err)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatal("re-login must keep CreatedAt")
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Fatal("re-login must advance UpdatedAt")
	}
	if second.Name != "Alexandra" || second.AvatarURL != "http://img" {
		t.Fatalf("mutable fields must refresh: %+v", second)
	}
}

func TestMemoryStore_GetNotFound(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
