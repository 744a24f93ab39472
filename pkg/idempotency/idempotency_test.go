package idempotency

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	key := "test-" + uuid.NewString()

	got, err := s.Reserve(ctx, key, time.Minute)
	if err != nil || got != nil {
		t.Fatalf("first Reserve: got %q, %v", got, err)
	}
	if _, err := s.Reserve(ctx, key, time.Minute); !errors.Is(err, ErrInFlight) {
		t.Fatalf("expected ErrInFlight, got %v", err)
	}
	if err := s.Complete(ctx, key, []byte(`{"ok":true}`), time.Minute); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	got, err = s.Reserve(ctx, key, time.Minute)
	if err != nil || string(got) != `{"ok":true}` {
		t.Fatalf("Reserve after Complete: got %q, %v", got, err)
	}

	other := "test-" + uuid.NewString()
	if _, err := s.Reserve(ctx, other, time.Minute); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if err := s.Release(ctx, other); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if got, err := s.Reserve(ctx, other, time.Minute); err != nil || got != nil {
		t.Fatalf("Reserve after Release: got %q, %v", got, err)
	}
	_ = s.Release(ctx, key)
	_ = s.Release(ctx, other)
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemory_ReservationExpires(t *testing.T) {
	m := NewMemory()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	if _, err := m.Reserve(ctx, "k", time.Minute); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if got, err := m.Reserve(ctx, "k", time.Minute); err != nil || got != nil {
		t.Fatalf("expected a fresh reservation, got %q, %v", got, err)
	}
}

func TestRedis(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set, skipping Redis integration test")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("parse REDIS_URL: %v", err)
	}
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })
	exerciseStore(t, NewRedis(client))
}
