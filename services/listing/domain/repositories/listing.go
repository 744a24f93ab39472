package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/morsel-app/morsel-restaurant/services/listing/domain/models"
)

// ItemRepository is the persistence interface for the Item aggregate.
// The domain layer owns this interface; infrastructure implements it.
type ItemRepository interface {
	// Create inserts item and sets its ID and CreatedAt from the stored row.
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TagRepository reads the tag vocabulary and manages item_tags links.
type TagRepository interface {
	All(ctx context.Context) ([]models.Tag, error)

	// Attach links itemID to every tag in tagIDs. Links that already exist are skipped.
	Attach(ctx context.Context, itemID uuid.UUID, tagIDs []uuid.UUID) error

	// Detach removes every tag link of itemID.
	Detach(ctx context.Context, itemID uuid.UUID) error

	// TagIDsForItem returns the ids of the tags linked to itemID.
	TagIDsForItem(ctx context.Context, itemID uuid.UUID) ([]uuid.UUID, error)
}

// ListingRepository is the persistence interface for the Listing aggregate.
type ListingRepository interface {
	// Create inserts l and sets its ID and CreatedAt from the stored row.
	Create(ctx context.Context, l *models.Listing) error
	Delete(ctx context.Context, id uuid.UUID) error

	ActiveAtLocation(ctx context.Context, locationID uuid.UUID) ([]*models.Listing, error)

	// DeactivateExpired marks sell-until-end listings whose window ended
	// before now as inactive and returns them.
	DeactivateExpired(ctx context.Context, now time.Time) ([]*models.Listing, error)
}

// Repos groups the repositories one unit of work operates on.
type Repos struct {
	Items    ItemRepository
	Tags     TagRepository
	Listings ListingRepository
}

// Store hands out repositories, optionally bound to a single transaction.
type Store interface {
	Repos() Repos

	// Atomic reports whether WithinTx runs fn inside one transaction.
	Atomic() bool

	// WithinTx runs fn with repositories bound to one transaction when the
	// store is Atomic, and with the plain repositories otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
}
