package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/text/language"

	pkgcache "github.com/morsel-app/morsel-restaurant/pkg/cache"
	listingdomain "github.com/morsel-app/morsel-restaurant/services/listing/domain"
	"github.com/morsel-app/morsel-restaurant/services/listing/infrastructure/persistence/rowstore"
)

// memoryCache is a ListingReadCache over a map.
type memoryCache struct {
	data        map[uuid.UUID][]pkgcache.CachedListing
	reads       int
	invalidated []uuid.UUID
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[uuid.UUID][]pkgcache.CachedListing)}
}

func (c *memoryCache) Active(_ context.Context, id uuid.UUID) ([]pkgcache.CachedListing, error) {
	c.reads++
	v, ok := c.data[id]
	if !ok {
		return nil, redis.Nil
	}
	return v, nil
}

func (c *memoryCache) Store(_ context.Context, id uuid.UUID, ls []pkgcache.CachedListing) error {
	c.data[id] = ls
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, id uuid.UUID) error {
	delete(c.data, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}

func TestQueryService_ActiveReadsThroughCache(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	in := f.input()
	desc := "ham and cheese"
	in.Description = &desc
	if _, err := f.svc.Publish(ctx, in); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	cache := newMemoryCache()
	q := NewQueryService(rowstore.NewStore(f.ds).Repos(), f.state, cache, nil, newTestLogger(), time.UTC, "USD")

	got, err := q.Active(ctx, f.profileID)
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(got))
	}
	l := got[0]
	if l.Title != "Surplus Sandwiches" || l.Description != desc || l.PriceCents != 550 || l.QuantityAvailable != 3 {
		t.Fatalf("unexpected read model %+v", l)
	}
	if len(l.Tags) != 2 || l.Tags[0] != "Gluten Free" || l.Tags[1] != "Vegan" {
		t.Fatalf("unexpected tags %v", l.Tags)
	}
	if _, ok := cache.data[f.locID]; !ok {
		t.Fatal("expected the read model to be cached")
	}

	before := len(f.ds.Calls())
	if _, err := q.Active(ctx, f.profileID); err != nil {
		t.Fatalf("Active (cached): %v", err)
	}
	if after := len(f.ds.Calls()); after != before {
		t.Fatalf("expected a cache hit without store calls, got %d new calls", after-before)
	}
}

func TestQueryService_ActiveNeedsLocation(t *testing.T) {
	f := newFixture(t, false)
	q := NewQueryService(rowstore.NewStore(f.ds).Repos(), f.state, nil, nil, newTestLogger(), time.UTC, "USD")
	if _, err := q.Active(context.Background(), f.profileID); !errors.Is(err, listingdomain.ErrSetupIncomplete) {
		t.Fatalf("expected ErrSetupIncomplete, got %v", err)
	}
}

func TestQueryService_ExpireListings(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	start := time.Date(2025, 6, 1, 17, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	in := f.input()
	in.AvailableNow = false
	in.StartAt, in.EndAt = &start, &end
	in.SellUntilEnd = true
	if _, err := f.svc.Publish(ctx, in); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	cache := newMemoryCache()
	bus := &recordingBus{}
	q := NewQueryService(rowstore.NewStore(f.ds).Repos(), f.state, cache, bus, newTestLogger(), time.UTC, "USD")
	q.now = func() time.Time { return end.Add(time.Minute) }

	n, err := q.ExpireListings(ctx)
	if err != nil {
		t.Fatalf("ExpireListings: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 expired listing, got %d", n)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != f.locID {
		t.Fatalf("expected cache invalidation for the location, got %v", cache.invalidated)
	}
	if len(bus.topics) != 1 || bus.topics[0] != "listings.expired" {
		t.Fatalf("unexpected topics %v", bus.topics)
	}

	active, err := q.Active(ctx, f.profileID)
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected no active listings, got %d", len(active))
	}
}

func TestQueryService_Estimate(t *testing.T) {
	q := NewQueryService(rowstore.NewStore(nil).Repos(), nil, nil, nil, newTestLogger(), time.UTC, "USD")

	got, err := q.Estimate("5.50", 3, language.Und)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if got.Total != 1650 {
		t.Fatalf("expected 1650, got %d", got.Total)
	}
	if _, err := q.Estimate("5.50", 0, language.Und); !errors.Is(err, listingdomain.ErrInvalidListing) {
		t.Fatalf("expected ErrInvalidListing, got %v", err)
	}
	if _, err := q.Estimate("-2", 1, language.Und); !errors.Is(err, listingdomain.ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}
}

func TestQueryService_Windows(t *testing.T) {
	q := NewQueryService(rowstore.NewStore(nil).Repos(), nil, nil, nil, newTestLogger(), time.UTC, "USD")
	q.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	got, err := q.Windows()
	if err != nil {
		t.Fatalf("Windows: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 presets, got %d", len(got))
	}
	for _, w := range got {
		if !w.End.After(w.Start) {
			t.Errorf("%s: end %v not after start %v", w.Name, w.End, w.Start)
		}
	}
	if len(q.Vocabulary()) != 31 {
		t.Fatalf("expected 31 vocabulary entries")
	}
}
