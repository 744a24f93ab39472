package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	// TopicItemCreated is published when a publish creates its item.
	TopicItemCreated = "item.created"

	// TopicListingPublished is published once item, tags and listing are all stored.
	TopicListingPublished = "listing.published"

	// TopicListingsExpired is published by the expiry sweep for each location it touched.
	TopicListingsExpired = "listings.expired"
)

// ItemCreatedEvent is published after a new Item is persisted.
type ItemCreatedEvent struct {
	EventID      uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version      int       `json:"version"`  // Schema version; increment on breaking changes
	ItemID       uuid.UUID `json:"item_id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	Title        string    `json:"title"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// ListingPublishedEvent is published after the whole publish workflow succeeded.
type ListingPublishedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	ListingID  uuid.UUID `json:"listing_id"`
	ItemID     uuid.UUID `json:"item_id"`
	LocationID uuid.UUID `json:"location_id"`
	ProfileID  uuid.UUID `json:"profile_id"`
	Tags       []string  `json:"tags"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ListingsExpiredEvent reports listings deactivated at one location.
type ListingsExpiredEvent struct {
	EventID    uuid.UUID   `json:"event_id"`
	Version    int         `json:"version"`
	LocationID uuid.UUID   `json:"location_id"`
	ListingIDs []uuid.UUID `json:"listing_ids"`
	OccurredAt time.Time   `json:"occurred_at"`
}
