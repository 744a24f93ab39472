package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MinQuantity = 1
	MaxQuantity = 500

	MinLeadTimeMinutes     = 0
	MaxLeadTimeMinutes     = 120
	DefaultLeadTimeMinutes = 10

	DefaultPickupInstructions = "Ring bell on arrival; pickup at side door."
)

// PickupWindow is a fixed pickup interval with End strictly after Start.
type PickupWindow struct {
	Start time.Time
	End   time.Time
}

// NewPickupWindow validates and normalises the window to UTC.
func NewPickupWindow(start, end time.Time) (PickupWindow, error) {
	if start.IsZero() || end.IsZero() {
		return PickupWindow{}, fmt.Errorf("pickup window needs both start and end")
	}
	if !end.After(start) {
		return PickupWindow{}, fmt.Errorf("pickup window end %s must be after start %s",
			end.UTC().Format(time.RFC3339), start.UTC().Format(time.RFC3339))
	}
	return PickupWindow{Start: start.UTC(), End: end.UTC()}, nil
}

// Duration returns the length of the window.
func (w PickupWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// ListingTerms are the validated sale terms of a listing, independent of
// which item and location it will reference.
type ListingTerms struct {
	TitleOverride      *string
	Price              Money
	Quantity           int
	AvailableNow       bool
	Window             *PickupWindow // nil iff AvailableNow
	LeadTimeMinutes    int
	SellUntilEnd       bool
	PickupInstructions *string
}

// NewListingTerms enforces the listing invariants: quantity in [1, 500], lead
// time in [0, 120], and a window present exactly when the listing is not
// available now. Blank optional strings become nil.
func NewListingTerms(t ListingTerms) (ListingTerms, error) {
	if t.Quantity < MinQuantity || t.Quantity > MaxQuantity {
		return ListingTerms{}, fmt.Errorf("quantity must be between %d and %d, got %d", MinQuantity, MaxQuantity, t.Quantity)
	}
	if t.LeadTimeMinutes < MinLeadTimeMinutes || t.LeadTimeMinutes > MaxLeadTimeMinutes {
		return ListingTerms{}, fmt.Errorf("lead time must be between %d and %d minutes, got %d",
			MinLeadTimeMinutes, MaxLeadTimeMinutes, t.LeadTimeMinutes)
	}
	if t.Price < 0 {
		return ListingTerms{}, fmt.Errorf("price must not be negative")
	}
	if t.AvailableNow && t.Window != nil {
		return ListingTerms{}, fmt.Errorf("an available-now listing has no pickup window")
	}
	if !t.AvailableNow {
		if t.Window == nil {
			return ListingTerms{}, fmt.Errorf("a scheduled listing needs a pickup window")
		}
		if _, err := NewPickupWindow(t.Window.Start, t.Window.End); err != nil {
			return ListingTerms{}, err
		}
	}
	t.TitleOverride = trimmedOrNil(t.TitleOverride)
	t.PickupInstructions = trimmedOrNil(t.PickupInstructions)
	return t, nil
}

// Listing is a time and quantity bounded sale of an Item at a Location.
// ID is assigned by the store on insert.
type Listing struct {
	ID         uuid.UUID
	ItemID     uuid.UUID
	LocationID uuid.UUID
	ListingTerms
	Active    bool
	CreatedAt time.Time
}

// NewListing attaches validated terms to an item and location.
func NewListing(itemID, locationID uuid.UUID, terms ListingTerms) *Listing {
	return &Listing{
		ItemID:       itemID,
		LocationID:   locationID,
		ListingTerms: terms,
		Active:       true,
	}
}

// StartAt returns the window start, or nil for an available-now listing.
func (l *Listing) StartAt() *time.Time {
	if l.Window == nil {
		return nil
	}
	t := l.Window.Start
	return &t
}

// EndAt returns the window end, or nil for an available-now listing.
func (l *Listing) EndAt() *time.Time {
	if l.Window == nil {
		return nil
	}
	t := l.Window.End
	return &t
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
