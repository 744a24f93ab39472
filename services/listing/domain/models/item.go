package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultItemTitle is used when the title is left blank.
const DefaultItemTitle = "Untitled listing"

const maxItemTitleLength = 255

// ItemTitle is a value object for a non-blank item title of at most 255 bytes.
type ItemTitle string

// NewItemTitle trims s and falls back to DefaultItemTitle when it is blank.
func NewItemTitle(s string) (ItemTitle, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultItemTitle, nil
	}
	if len(s) > maxItemTitleLength {
		return "", fmt.Errorf("item title must not exceed %d characters", maxItemTitleLength)
	}
	return ItemTitle(s), nil
}

// String returns the underlying string value.
func (t ItemTitle) String() string {
	return string(t)
}

// Item is a reusable product template owned by a restaurant.
// ID is assigned by the store on insert.
type Item struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Title        ItemTitle
	Description  *string
	BasePrice    Money
	Active       bool
	CreatedAt    time.Time
}

// NewItem builds an active item that has not been persisted yet.
func NewItem(restaurantID uuid.UUID, title ItemTitle, description *string, basePrice Money) *Item {
	return &Item{
		RestaurantID: restaurantID,
		Title:        title,
		Description:  description,
		BasePrice:    basePrice,
		Active:       true,
	}
}
