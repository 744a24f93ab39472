package main

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/morsel-app/morsel-restaurant/pkg/app"
	"github.com/morsel-app/morsel-restaurant/pkg/cache"
	"github.com/morsel-app/morsel-restaurant/pkg/events"
	"github.com/morsel-app/morsel-restaurant/pkg/logger"
	listingEvents "github.com/morsel-app/morsel-restaurant/services/listing/domain/events"
)

// listingRefresher rebuilds the cached active listings of a location.
type listingRefresher interface {
	Refresh(ctx context.Context, locationID uuid.UUID) ([]cache.CachedListing, error)
}

// registerSubscribers adds a router handler per topic. Handlers only start
// consuming once EventBus.Run is called.
func registerSubscribers(a *app.Application, q listingRefresher) error {
	handlers := map[string]events.Handler{
		listingEvents.TopicListingPublished: handleListingPublished(a.Logger, q),
		listingEvents.TopicListingsExpired:  handleListingsExpired(a.Logger, q),
		listingEvents.TopicItemCreated:      handleItemCreated(a.Logger),
	}

	topics := make([]string, 0, len(handlers))
	for topic, h := range handlers {
		if err := a.EventBus.Handle(topic, h); err != nil {
			return fmt.Errorf("handle %s: %w", topic, err)
		}
		topics = append(topics, topic)
	}

	a.Logger.Info("event handlers registered", "topics", topics)
	return nil
}

// handleListingPublished warms the read model of the listing's location.
// Handlers must be idempotent; the router retries a failed message before
// moving it to the poison topic.
func handleListingPublished(log logger.Logger, q listingRefresher) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := events.Decode[listingEvents.ListingPublishedEvent](msg)
		if err != nil {
			return err
		}
		refresh(ctx, log, q, evt.LocationID)
		log.InfoContext(ctx, "listing published", "listing_id", evt.ListingID, "location_id", evt.LocationID)
		return nil
	}
}

// handleListingsExpired rebuilds the read model after the expiry sweep.
func handleListingsExpired(log logger.Logger, q listingRefresher) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := events.Decode[listingEvents.ListingsExpiredEvent](msg)
		if err != nil {
			return err
		}
		refresh(ctx, log, q, evt.LocationID)
		return nil
	}
}

func handleItemCreated(log logger.Logger) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := events.Decode[listingEvents.ItemCreatedEvent](msg)
		if err != nil {
			return err
		}
		log.InfoContext(ctx, "item created", "item_id", evt.ItemID, "restaurant_id", evt.RestaurantID)
		return nil
	}
}

// refresh is best-effort: a failed warm-up only means the next read goes to Postgres.
func refresh(ctx context.Context, log logger.Logger, q listingRefresher, locationID uuid.UUID) {
	if _, err := q.Refresh(ctx, locationID); err != nil {
		log.WarnContext(ctx, "listing cache refresh failed", "location_id", locationID, "error", err)
	}
}
