package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/morsel-app/morsel-restaurant/services/listing/domain/models"
)

// ValidateItemForCreation checks an item is ready to be inserted.
func ValidateItemForCreation(item *models.Item) error {
	if item == nil {
		return fmt.Errorf("item cannot be nil")
	}
	if item.RestaurantID == uuid.Nil {
		return fmt.Errorf("restaurant_id must be set")
	}
	if item.Title == "" {
		return fmt.Errorf("title must be set")
	}
	if item.BasePrice < 0 {
		return fmt.Errorf("base price must not be negative")
	}
	return nil
}

// ValidateListingForCreation re-checks the listing invariants against the
// referenced ids. The item must already exist, so ItemID must be set.
func ValidateListingForCreation(l *models.Listing) error {
	if l == nil {
		return fmt.Errorf("listing cannot be nil")
	}
	if l.ItemID == uuid.Nil {
		return fmt.Errorf("item_id must be set")
	}
	if l.LocationID == uuid.Nil {
		return fmt.Errorf("location_id must be set")
	}
	if _, err := models.NewListingTerms(l.ListingTerms); err != nil {
		return err
	}
	return nil
}
