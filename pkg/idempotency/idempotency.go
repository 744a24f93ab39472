// Package idempotency remembers the outcome of client-keyed requests so a
// retried request returns the first result instead of running again.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrInFlight is returned by Reserve while the first request with a key is still running.
var ErrInFlight = errors.New("idempotency: request in flight")

const pending = "pending"

// Store reserves keys and records their results.
type Store interface {
	// Reserve claims key for ttl. It returns the stored result when the key
	// already completed, ErrInFlight while it is reserved, and (nil, nil)
	// when the caller now owns the key.
	Reserve(ctx context.Context, key string, ttl time.Duration) ([]byte, error)

	// Complete stores result under key for ttl.
	Complete(ctx context.Context, key string, result []byte, ttl time.Duration) error

	// Release drops a reservation so the request can be retried.
	Release(ctx context.Context, key string) error
}

// Redis is a Store backed by plain Redis string keys.
// Key format: "idem:{key}", value: "pending" or the JSON result.
type Redis struct {
	client *redis.Client
}

// NewRedis returns a Redis store.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (s *Redis) Reserve(ctx context.Context, key string, ttl time.Duration) ([]byte, error) {
	ok, err := s.client.SetNX(ctx, s.key(key), pending, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("reserve %s: %w", key, err)
	}
	if ok {
		return nil, nil
	}
	val, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET; try once more
		return s.Reserve(ctx, key, ttl)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if string(val) == pending {
		return nil, ErrInFlight
	}
	return val, nil
}

func (s *Redis) Complete(ctx context.Context, key string, result []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(key), result, ttl).Err(); err != nil {
		return fmt.Errorf("complete %s: %w", key, err)
	}
	return nil
}

func (s *Redis) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("release %s: %w", key, err)
	}
	return nil
}

func (s *Redis) key(key string) string {
	return "idem:" + key
}

type entry struct {
	val     []byte
	expires time.Time
}

// Memory is an in-process Store for tests and single-node runs.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entry), now: time.Now}
}

func (m *Memory) Reserve(_ context.Context, key string, ttl time.Duration) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[key]; ok && m.now().Before(e.expires) {
		if e.val == nil {
			return nil, ErrInFlight
		}
		return append([]byte(nil), e.val...), nil
	}
	m.entries[key] = entry{expires: m.now().Add(ttl)}
	return nil, nil
}

func (m *Memory) Complete(_ context.Context, key string, result []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{val: append([]byte(nil), result...), expires: m.now().Add(ttl)}
	return nil
}

func (m *Memory) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}
