package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/morsel-app/morsel-restaurant/services/account/domain/models"
)

// ProfileRepository persists profiles keyed on their auth user.
type ProfileRepository interface {
	// Upsert creates the profile of p.AuthUserID or updates it, and sets p.ID.
	Upsert(ctx context.Context, p *models.Profile) error
	GetByAuthUserID(ctx context.Context, authUserID uuid.UUID) (*models.Profile, error)
}

// RestaurantRepository persists restaurants and their member links.
type RestaurantRepository interface {
	// Create inserts r and sets its ID.
	Create(ctx context.Context, r *models.Restaurant) error

	// LinkMember links profileID to restaurantID with role. Linking twice is a no-op.
	LinkMember(ctx context.Context, restaurantID, profileID uuid.UUID, role string) error
}

// LocationRepository persists restaurant locations.
type LocationRepository interface {
	// Create inserts l and sets its ID.
	Create(ctx context.Context, l *models.Location) error
}

// Repos groups the account repositories.
type Repos struct {
	Profiles    ProfileRepository
	Restaurants RestaurantRepository
	Locations   LocationRepository
}

// Store hands out the account repositories. Inside WithinTx they are bound
// to one transaction when the backend supports it.
type Store interface {
	Repos() Repos
	WithinTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
}
