package rowstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/morsel-app/morsel-restaurant/pkg/backend"
	listingdomain "github.com/morsel-app/morsel-restaurant/services/listing/domain"
	"github.com/morsel-app/morsel-restaurant/services/listing/domain/models"
)

func TestItemRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	ds := backend.NewMemoryStore()
	repo := NewItemRepository(ds)

	desc := "day-old sourdough"
	item := models.NewItem(uuid.New(), "Bread", &desc, 550)
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if item.ID == uuid.Nil {
		t.Fatal("expected id to be assigned")
	}

	got, err := repo.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Bread" || got.BasePrice != 550 || got.Description == nil || *got.Description != desc {
		t.Fatalf("unexpected item %+v", got)
	}

	if err := repo.Delete(ctx, item.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, item.ID); !errors.Is(err, listingdomain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

type noIDStore struct {
	*backend.MemoryStore
}

func (s noIDStore) Insert(ctx context.Context, table backend.Table, row backend.Row) (backend.Row, error) {
	stored, err := s.MemoryStore.Insert(ctx, table, row)
	if err != nil {
		return nil, err
	}
	delete(stored, "id")
	return stored, nil
}

func TestItemRepository_CreateWithoutID(t *testing.T) {
	repo := NewItemRepository(noIDStore{backend.NewMemoryStore()})
	err := repo.Create(context.Background(), models.NewItem(uuid.New(), "Bread", nil, 0))
	if !errors.Is(err, listingdomain.ErrItemIDMissing) {
		t.Fatalf("expected ErrItemIDMissing, got %v", err)
	}
}

func TestTagRepository_AttachIsIdempotent(t *testing.T) {
	ctx := context.Background()
	ds := backend.NewMemoryStore()
	vegan, halal := uuid.New(), uuid.New()
	ds.Seed(backend.TableTags,
		backend.Row{"id": vegan, "name": "Vegan", "category": "dietary"},
		backend.Row{"id": halal, "name": "Halal", "category": "certification"},
	)
	repo := NewTagRepository(ds)
	itemID := uuid.New()

	for i := 0; i < 2; i++ {
		if err := repo.Attach(ctx, itemID, []uuid.UUID{vegan, halal}); err != nil {
			t.Fatalf("Attach #%d: %v", i+1, err)
		}
	}
	ids, err := repo.TagIDsForItem(ctx, itemID)
	if err != nil {
		t.Fatalf("TagIDsForItem: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 links, got %d", len(ids))
	}

	tags, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(tags))
	}

	if err := repo.Detach(ctx, itemID); err != nil {
		t.Fatalf("Detach: %v", err)
	}
	if rows := ds.Rows(backend.TableItemTags); len(rows) != 0 {
		t.Fatalf("expected no links after detach, got %d", len(rows))
	}
}

func TestTagRepository_AttachNothing(t *testing.T) {
	ds := backend.NewMemoryStore()
	if err := NewTagRepository(ds).Attach(context.Background(), uuid.New(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls := ds.Calls(); len(calls) != 0 {
		t.Fatalf("expected no store calls, got %v", calls)
	}
}

func TestListingRepository_TimestampsFollowAvailability(t *testing.T) {
	ctx := context.Background()
	ds := backend.NewMemoryStore()
	repo := NewListingRepository(ds)
	locationID := uuid.New()
	start := time.Date(2025, 6, 1, 17, 0, 0, 0, time.UTC)

	now := models.NewListing(uuid.New(), locationID, models.ListingTerms{Quantity: 5, AvailableNow: true})
	scheduled := models.NewListing(uuid.New(), locationID, models.ListingTerms{
		Quantity: 3,
		Window:   &models.PickupWindow{Start: start, End: start.Add(3 * time.Hour)},
	})
	for _, l := range []*models.Listing{now, scheduled} {
		if err := repo.Create(ctx, l); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	for _, row := range ds.Rows(backend.TableListings) {
		_, hasStart := row["start_at"]
		_, hasEnd := row["end_at"]
		if row.Bool("available_now") && (hasStart || hasEnd) {
			t.Fatalf("available-now listing stored timestamps: %v", row)
		}
		if !row.Bool("available_now") && (!hasStart || !hasEnd) {
			t.Fatalf("scheduled listing missing timestamps: %v", row)
		}
	}

	active, err := repo.ActiveAtLocation(ctx, locationID)
	if err != nil {
		t.Fatalf("ActiveAtLocation: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active listings, got %d", len(active))
	}
	for _, l := range active {
		if l.ID == scheduled.ID {
			if l.Window == nil || !l.Window.Start.Equal(start) || l.Quantity != 3 {
				t.Fatalf("scheduled listing decoded wrong: %+v", l)
			}
		}
	}
}

func TestListingRepository_DeactivateExpired(t *testing.T) {
	ctx := context.Background()
	ds := backend.NewMemoryStore()
	repo := NewListingRepository(ds)
	locationID := uuid.New()
	start := time.Date(2025, 6, 1, 17, 0, 0, 0, time.UTC)
	window := &models.PickupWindow{Start: start, End: start.Add(time.Hour)}

	expiring := models.NewListing(uuid.New(), locationID, models.ListingTerms{Quantity: 1, Window: window, SellUntilEnd: true})
	kept := models.NewListing(uuid.New(), locationID, models.ListingTerms{Quantity: 1, Window: window})
	for _, l := range []*models.Listing{expiring, kept} {
		if err := repo.Create(ctx, l); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.DeactivateExpired(ctx, start.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("DeactivateExpired: %v", err)
	}
	if len(got) != 1 || got[0].ID != expiring.ID {
		t.Fatalf("expected only the sell-until-end listing, got %v", got)
	}

	active, err := repo.ActiveAtLocation(ctx, locationID)
	if err != nil {
		t.Fatalf("ActiveAtLocation: %v", err)
	}
	if len(active) != 1 || active[0].ID != kept.ID {
		t.Fatalf("unexpected active listings %v", active)
	}
}

func TestStore_Atomic(t *testing.T) {
	if NewStore(backend.NewMemoryStore()).Atomic() {
		t.Fatal("memory store must not report atomic")
	}
}
