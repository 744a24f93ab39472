package rowstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/morsel-app/morsel-restaurant/pkg/backend"
	listingdomain "github.com/morsel-app/morsel-restaurant/services/listing/domain"
	"github.com/morsel-app/morsel-restaurant/services/listing/domain/models"
)

// ItemRepository implements repositories.ItemRepository against the items table.
type ItemRepository struct {
	ds  backend.DataStore
	now func() time.Time
}

// NewItemRepository returns an ItemRepository over ds.
func NewItemRepository(ds backend.DataStore) *ItemRepository {
	return &ItemRepository{ds: ds, now: time.Now}
}

// Create inserts item. A stored row without an id yields ErrItemIDMissing.
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	row := backend.Row{
		"restaurant_id": item.RestaurantID,
		"title":         item.Title.String(),
		"base_price":    item.BasePrice.Float(),
		"active":        item.Active,
		"created_at":    r.now().UTC(),
	}
	if item.Description != nil {
		row["description"] = *item.Description
	}

	stored, err := r.ds.Insert(ctx, backend.TableItems, row)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	id, err := stored.UUID("id")
	if err != nil || id == uuid.Nil {
		return listingdomain.ErrItemIDMissing
	}
	item.ID = id
	if t := stored.OptTime("created_at"); t != nil {
		item.CreatedAt = *t
	}
	return nil
}

// GetByID returns the item with id or ErrItemNotFound.
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	rows, err := r.ds.Select(ctx, backend.TableItems, backend.Filter{"id": id})
	if err != nil {
		return nil, fmt.Errorf("query item: %w", err)
	}
	if len(rows) == 0 {
		return nil, listingdomain.ErrItemNotFound
	}
	return rowToItem(rows[0])
}

// Delete removes the item with id.
func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.ds.Delete(ctx, backend.TableItems, backend.Filter{"id": id}); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func rowToItem(row backend.Row) (*models.Item, error) {
	id, err := row.UUID("id")
	if err != nil {
		return nil, err
	}
	restaurantID, err := row.UUID("restaurant_id")
	if err != nil {
		return nil, err
	}
	price, err := row.Float("base_price")
	if err != nil {
		return nil, err
	}
	item := &models.Item{
		ID:           id,
		RestaurantID: restaurantID,
		Title:        models.ItemTitle(row.String("title")),
		Description:  row.OptString("description"),
		BasePrice:    models.MoneyFromFloat(price),
		Active:       row.Bool("active"),
	}
	if t := row.OptTime("created_at"); t != nil {
		item.CreatedAt = *t
	}
	return item, nil
}
