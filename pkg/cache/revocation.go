package cache

import (
	"context"
	"fmt"
	"time"
)

const revokedKeyPrefix = "revoked"

// TokenRevocations stores signed-out access token ids until the token would
// have expired anyway. It implements backend.Revocations.
type TokenRevocations struct {
	client *RedisClient
	now    func() time.Time
}

// NewTokenRevocations creates a TokenRevocations backed by r.
func NewTokenRevocations(r *RedisClient) *TokenRevocations {
	return &TokenRevocations{client: r, now: time.Now}
}

// Revoke marks tokenID as revoked until the given time. Already-expired tokens are ignored.
func (t *TokenRevocations) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(t.now())
	if ttl <= 0 {
		return nil
	}
	if err := t.client.Client().Set(ctx, t.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID was revoked.
func (t *TokenRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := t.client.Client().Exists(ctx, t.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}

func (t *TokenRevocations) key(tokenID string) string {
	return fmt.Sprintf("%s:%s", revokedKeyPrefix, tokenID)
}
