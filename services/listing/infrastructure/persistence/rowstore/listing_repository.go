package rowstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/morsel-app/morsel-restaurant/pkg/backend"
	"github.com/morsel-app/morsel-restaurant/services/listing/domain/models"
)

// ListingRepository implements repositories.ListingRepository.
type ListingRepository struct {
	ds  backend.DataStore
	now func() time.Time
}

// NewListingRepository returns a ListingRepository over ds.
func NewListingRepository(ds backend.DataStore) *ListingRepository {
	return &ListingRepository{ds: ds, now: time.Now}
}

// Create inserts l. start_at and end_at are written only for scheduled listings.
func (r *ListingRepository) Create(ctx context.Context, l *models.Listing) error {
	row := backend.Row{
		"item_id":            l.ItemID,
		"location_id":        l.LocationID,
		"price":              l.Price.Float(),
		"quantity_available": l.Quantity,
		"available_now":      l.AvailableNow,
		"lead_time_minutes":  l.LeadTimeMinutes,
		"sell_until_end":     l.SellUntilEnd,
		"active":             l.Active,
		"created_at":         r.now().UTC(),
	}
	if l.TitleOverride != nil {
		row["title_override"] = *l.TitleOverride
	}
	if l.PickupInstructions != nil {
		row["pickup_instructions"] = *l.PickupInstructions
	}
	if !l.AvailableNow && l.Window != nil {
		row["start_at"] = l.Window.Start.UTC()
		row["end_at"] = l.Window.End.UTC()
	}

	stored, err := r.ds.Insert(ctx, backend.TableListings, row)
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	id, err := stored.UUID("id")
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	l.ID = id
	if t := stored.OptTime("created_at"); t != nil {
		l.CreatedAt = *t
	}
	return nil
}

// Delete removes the listing with id.
func (r *ListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.ds.Delete(ctx, backend.TableListings, backend.Filter{"id": id}); err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	return nil
}

// ActiveAtLocation returns the active listings of a location, newest first.
func (r *ListingRepository) ActiveAtLocation(ctx context.Context, locationID uuid.UUID) ([]*models.Listing, error) {
	rows, err := r.ds.Select(ctx, backend.TableListings, backend.Filter{
		"location_id": locationID,
		"active":      true,
	})
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	out, err := rowsToListings(rows)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// DeactivateExpired deactivates sell-until-end listings whose end_at is before now.
func (r *ListingRepository) DeactivateExpired(ctx context.Context, now time.Time) ([]*models.Listing, error) {
	rows, err := r.ds.Select(ctx, backend.TableListings, backend.Filter{
		"active":         true,
		"sell_until_end": true,
	})
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	candidates, err := rowsToListings(rows)
	if err != nil {
		return nil, err
	}

	var expired []*models.Listing
	for _, l := range candidates {
		if l.Window == nil || l.Window.End.After(now) {
			continue
		}
		if _, err := r.ds.Update(ctx, backend.TableListings,
			backend.Row{"active": false},
			backend.Filter{"id": l.ID},
		); err != nil {
			return expired, fmt.Errorf("deactivate listing %s: %w", l.ID, err)
		}
		l.Active = false
		expired = append(expired, l)
	}
	return expired, nil
}

func rowsToListings(rows []backend.Row) ([]*models.Listing, error) {
	out := make([]*models.Listing, 0, len(rows))
	for _, row := range rows {
		l, err := rowToListing(row)
		if err != nil {
			return nil, fmt.Errorf("decode listing: %w", err)
		}
		out = append(out, l)
	}
	return out, nil
}

func rowToListing(row backend.Row) (*models.Listing, error) {
	id, err := row.UUID("id")
	if err != nil {
		return nil, err
	}
	itemID, err := row.UUID("item_id")
	if err != nil {
		return nil, err
	}
	locationID, err := row.UUID("location_id")
	if err != nil {
		return nil, err
	}
	price, err := row.Float("price")
	if err != nil {
		return nil, err
	}
	qty, err := row.Int("quantity_available")
	if err != nil {
		return nil, err
	}
	lead, err := row.Int("lead_time_minutes")
	if err != nil {
		return nil, err
	}

	l := &models.Listing{
		ID:         id,
		ItemID:     itemID,
		LocationID: locationID,
		ListingTerms: models.ListingTerms{
			TitleOverride:      row.OptString("title_override"),
			Price:              models.MoneyFromFloat(price),
			Quantity:           qty,
			AvailableNow:       row.Bool("available_now"),
			LeadTimeMinutes:    lead,
			SellUntilEnd:       row.Bool("sell_until_end"),
			PickupInstructions: row.OptString("pickup_instructions"),
		},
		Active: row.Bool("active"),
	}
	start, end := row.OptTime("start_at"), row.OptTime("end_at")
	if start != nil && end != nil {
		l.Window = &models.PickupWindow{Start: *start, End: *end}
	}
	if t := row.OptTime("created_at"); t != nil {
		l.CreatedAt = *t
	}
	return l, nil
}
