// Package lock provides short-lived named locks that reject a second caller
// instead of queueing it. Services use them to refuse a repeated action while
// the first one is still running.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/morsel-app/morsel-restaurant/pkg/logger"
)

// ErrHeld is returned by TryLock when another holder owns the key.
var ErrHeld = errors.New("lock: already held")

// Locker hands out locks that expire after ttl even if never released.
type Locker interface {
	// TryLock acquires key or returns ErrHeld. The returned func releases it.
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// releaseScript deletes the key only while it still holds our token, so an
// expired lock re-acquired by someone else is left alone.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Redis is a Locker over SET NX PX. A release that fails is logged; the key
// then stays held until its ttl.
type Redis struct {
	client *redis.Client
	log    logger.Logger
}

// NewRedis returns a Redis-backed Locker.
func NewRedis(client *redis.Client, log logger.Logger) *Redis {
	return &Redis{client: client, log: log}
}

func (l *Redis) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, "lock:"+key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrHeld
	}
	return func() {
		// Release on a fresh context: the request context may already be done.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{"lock:" + key}, token).Err(); err != nil {
			l.log.WarnContext(ctx, "release lock", "key", key, "ttl", ttl, "error", err)
		}
	}, nil
}

// Memory is an in-process Locker.
type Memory struct {
	mu   sync.Mutex
	held map[string]time.Time
	now  func() time.Time
}

// NewMemory returns an empty Memory locker.
func NewMemory() *Memory {
	return &Memory{held: make(map[string]time.Time), now: time.Now}
}

func (m *Memory) TryLock(_ context.Context, key string, ttl time.Duration) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if until, ok := m.held[key]; ok && now.Before(until) {
		return nil, ErrHeld
	}
	until := now.Add(ttl)
	m.held[key] = until

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if m.held[key] == until {
				delete(m.held, key)
			}
		})
	}, nil
}
