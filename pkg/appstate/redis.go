package appstate

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "appstate"

// Redis stores State as a hash per profile.
// Key format: "appstate:{profileID}", fields restaurant_id, location_id, pending_address.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a Redis-backed Store.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Get returns the cached state. Unparseable ids read as unset.
func (r *Redis) Get(ctx context.Context, profileID uuid.UUID) (State, error) {
	vals, err := r.client.HGetAll(ctx, r.key(profileID)).Result()
	if err != nil {
		return State{}, fmt.Errorf("appstate get: %w", err)
	}
	var s State
	if id, err := uuid.Parse(vals["restaurant_id"]); err == nil {
		s.RestaurantID = id
	}
	if id, err := uuid.Parse(vals["location_id"]); err == nil {
		s.LocationID = id
	}
	s.PendingAddress = vals["pending_address"]
	return s, nil
}

func (r *Redis) SetRestaurant(ctx context.Context, profileID, restaurantID uuid.UUID, pendingAddress string) error {
	key := r.key(profileID)
	pipe := r.client.TxPipeline()
	pipe.HDel(ctx, key, "location_id")
	pipe.HSet(ctx, key,
		"restaurant_id", restaurantID.String(),
		"pending_address", pendingAddress,
	)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("appstate set restaurant: %w", err)
	}
	return nil
}

func (r *Redis) SetLocation(ctx context.Context, profileID, locationID uuid.UUID) error {
	if err := r.client.HSet(ctx, r.key(profileID), "location_id", locationID.String()).Err(); err != nil {
		return fmt.Errorf("appstate set location: %w", err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context, profileID uuid.UUID) error {
	if err := r.client.Del(ctx, r.key(profileID)).Err(); err != nil {
		return fmt.Errorf("appstate clear: %w", err)
	}
	return nil
}

func (r *Redis) key(profileID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", keyPrefix, profileID)
}
