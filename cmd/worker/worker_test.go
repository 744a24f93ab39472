package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/morsel-app/morsel-restaurant/pkg/cache"
	"github.com/morsel-app/morsel-restaurant/pkg/config"
	"github.com/morsel-app/morsel-restaurant/pkg/events"
	"github.com/morsel-app/morsel-restaurant/pkg/lock"
	"github.com/morsel-app/morsel-restaurant/pkg/logger"
	listingEvents "github.com/morsel-app/morsel-restaurant/services/listing/domain/events"
)

type fakeRefresher struct {
	mu        sync.Mutex
	locations []uuid.UUID
	err       error
}

func (f *fakeRefresher) Refresh(_ context.Context, locationID uuid.UUID) ([]cache.CachedListing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locations = append(f.locations, locationID)
	return nil, f.err
}

type fakeExpirer struct{ calls int }

func (f *fakeExpirer) ExpireListings(context.Context) (int, error) {
	f.calls++
	return 2, nil
}

func newTestLogger() logger.Logger {
	return logger.New(&config.Config{LogLevel: "error"})
}

func newMessage(t *testing.T, payload any) *message.Message {
	t.Helper()
	msg, err := events.NewMessage(uuid.New(), 1, payload)
	if err != nil {
		t.Fatalf("new message: %v", err)
	}
	return msg
}

func TestHandleListingPublished_RefreshesLocation(t *testing.T) {
	r := &fakeRefresher{}
	locID := uuid.New()
	h := handleListingPublished(newTestLogger(), r)

	err := h(context.Background(), newMessage(t, listingEvents.ListingPublishedEvent{ListingID: uuid.New(), LocationID: locID}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(r.locations) != 1 || r.locations[0] != locID {
		t.Fatalf("expected refresh of %s, got %v", locID, r.locations)
	}
}

func TestHandleListingsExpired_RefreshFailureIsNotRetried(t *testing.T) {
	r := &fakeRefresher{err: errors.New("redis down")}
	h := handleListingsExpired(newTestLogger(), r)

	if err := h(context.Background(), newMessage(t, listingEvents.ListingsExpiredEvent{LocationID: uuid.New()})); err != nil {
		t.Fatalf("expected a best-effort refresh, got %v", err)
	}
}

func TestHandlers_RejectMalformedPayload(t *testing.T) {
	msg := message.NewMessage(watermill.NewUUID(), []byte("{not json"))
	r := &fakeRefresher{}
	if err := handleListingPublished(newTestLogger(), r)(context.Background(), msg); !errors.Is(err, events.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if err := handleItemCreated(newTestLogger())(context.Background(), msg); !errors.Is(err, events.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if len(r.locations) != 0 {
		t.Fatalf("malformed message must not refresh, got %v", r.locations)
	}
}

func TestExpireOnce_SkipsWhenLockHeld(t *testing.T) {
	ctx := context.Background()
	locker := lock.NewMemory()
	q := &fakeExpirer{}

	release, err := locker.TryLock(ctx, expiryLockKey, time.Minute)
	if err != nil {
		t.Fatalf("TryLock: %v", err)
	}
	expireOnce(ctx, newTestLogger(), locker, q, time.Minute)
	if q.calls != 0 {
		t.Fatalf("expected no sweep while locked, got %d", q.calls)
	}

	release()
	expireOnce(ctx, newTestLogger(), locker, q, time.Minute)
	if q.calls != 1 {
		t.Fatalf("expected one sweep, got %d", q.calls)
	}
}
