package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// ListingCacheTTL bounds how long a location's active listings stay cached.
	ListingCacheTTL = 10 * time.Minute

	listingCacheKeyPrefix = "listing"
)

// CachedListing is the denormalized read model of one active listing.
// It joins the listing with its item and tag names so the dashboard can
// render without touching Postgres.
type CachedListing struct {
	ID                 uuid.UUID  `json:"id"`
	ItemID             uuid.UUID  `json:"item_id"`
	LocationID         uuid.UUID  `json:"location_id"`
	Title              string     `json:"title"`
	Description        string     `json:"description,omitempty"`
	PriceCents         int64      `json:"price_cents"`
	QuantityAvailable  int        `json:"quantity_available"`
	AvailableNow       bool       `json:"available_now"`
	StartAt            *time.Time `json:"start_at,omitempty"`
	EndAt              *time.Time `json:"end_at,omitempty"`
	LeadTimeMinutes    int        `json:"lead_time_minutes"`
	SellUntilEnd       bool       `json:"sell_until_end"`
	PickupInstructions string     `json:"pickup_instructions,omitempty"`
	Tags               []string   `json:"tags"`
	CreatedAt          time.Time  `json:"created_at"`
}

// ListingCache keeps the active listings of each location in one Redis hash.
// Key format: "listing:{locationID}", field: listing id, value: JSON.
type ListingCache struct {
	client *RedisClient
}

// NewListingCache creates a new ListingCache backed by the given RedisClient.
func NewListingCache(r *RedisClient) *ListingCache {
	return &ListingCache{client: r}
}

// Active returns the cached listings of a location.
// Returns redis.Nil when nothing is cached for the location.
func (c *ListingCache) Active(ctx context.Context, locationID uuid.UUID) ([]CachedListing, error) {
	vals, err := c.client.Client().HGetAll(ctx, c.key(locationID)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil
	}

	out := make([]CachedListing, 0, len(vals))
	for field, raw := range vals {
		var l CachedListing
		if err := json.Unmarshal([]byte(raw), &l); err != nil {
			return nil, fmt.Errorf("cache decode listing %s: %w", field, err)
		}
		out = append(out, l)
	}
	return out, nil
}

// Store replaces the cached listings of a location.
func (c *ListingCache) Store(ctx context.Context, locationID uuid.UUID, listings []CachedListing) error {
	key := c.key(locationID)
	pipe := c.client.Client().TxPipeline()
	pipe.Del(ctx, key)
	if len(listings) > 0 {
		fields := make([]any, 0, len(listings)*2)
		for _, l := range listings {
			raw, err := json.Marshal(l)
			if err != nil {
				return fmt.Errorf("cache encode listing %s: %w", l.ID, err)
			}
			fields = append(fields, l.ID.String(), string(raw))
		}
		pipe.HSet(ctx, key, fields...)
		pipe.Expire(ctx, key, ListingCacheTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached listings of a location.
func (c *ListingCache) Invalidate(ctx context.Context, locationID uuid.UUID) error {
	if err := c.client.Client().Del(ctx, c.key(locationID)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

func (c *ListingCache) key(locationID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", listingCacheKeyPrefix, locationID)
}
