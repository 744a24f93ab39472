// Package rowstore implements the account repositories over backend.DataStore.
package rowstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/morsel-app/morsel-restaurant/pkg/backend"
	accountdomain "github.com/morsel-app/morsel-restaurant/services/account/domain"
	"github.com/morsel-app/morsel-restaurant/services/account/domain/models"
	"github.com/morsel-app/morsel-restaurant/services/account/domain/repositories"
)

// NewRepos returns all account repositories over ds.
func NewRepos(ds backend.DataStore) repositories.Repos {
	return repositories.Repos{
		Profiles:    &ProfileRepository{ds: ds},
		Restaurants: &RestaurantRepository{ds: ds, now: time.Now},
		Locations:   &LocationRepository{ds: ds},
	}
}

// Store implements repositories.Store over ds.
type Store struct {
	ds backend.DataStore
}

// NewStore returns a Store over ds.
func NewStore(ds backend.DataStore) *Store {
	return &Store{ds: ds}
}

func (s *Store) Repos() repositories.Repos {
	return NewRepos(s.ds)
}

// WithinTx runs fn in one transaction when ds is a backend.Transactor, and
// over the plain repositories otherwise.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, r repositories.Repos) error) error {
	tx, ok := s.ds.(backend.Transactor)
	if !ok {
		return fn(ctx, s.Repos())
	}
	return tx.WithinTx(ctx, func(ctx context.Context, ds backend.DataStore) error {
		return fn(ctx, NewRepos(ds))
	})
}

// ProfileRepository implements repositories.ProfileRepository.
type ProfileRepository struct {
	ds backend.DataStore
}

// Upsert writes the profile keyed on auth_user_id. Unset optional columns
// keep their stored values.
func (r *ProfileRepository) Upsert(ctx context.Context, p *models.Profile) error {
	row := backend.Row{
		"auth_user_id": p.AuthUserID,
		"email":        p.Email,
	}
	if p.DisplayName != nil {
		row["display_name"] = *p.DisplayName
	}
	if p.Role != nil {
		row["role"] = *p.Role
	}
	stored, err := r.ds.Upsert(ctx, backend.TableProfiles, row, "auth_user_id")
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	out, err := rowToProfile(stored)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	*p = *out
	return nil
}

// GetByAuthUserID returns the profile of authUserID or ErrProfileNotFound.
func (r *ProfileRepository) GetByAuthUserID(ctx context.Context, authUserID uuid.UUID) (*models.Profile, error) {
	rows, err := r.ds.Select(ctx, backend.TableProfiles, backend.Filter{"auth_user_id": authUserID})
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, accountdomain.ErrProfileNotFound
	}
	return rowToProfile(rows[0])
}

func rowToProfile(row backend.Row) (*models.Profile, error) {
	id, err := row.UUID("id")
	if err != nil {
		return nil, err
	}
	authUserID, err := row.UUID("auth_user_id")
	if err != nil {
		return nil, err
	}
	return &models.Profile{
		ID:          id,
		AuthUserID:  authUserID,
		Email:       row.String("email"),
		DisplayName: row.OptString("display_name"),
		Role:        row.OptString("role"),
	}, nil
}

// RestaurantRepository implements repositories.RestaurantRepository.
type RestaurantRepository struct {
	ds  backend.DataStore
	now func() time.Time
}

// Create inserts the restaurant.
func (r *RestaurantRepository) Create(ctx context.Context, rest *models.Restaurant) error {
	row := backend.Row{
		"owner_profile_id": rest.OwnerProfileID,
		"name":             rest.Name,
		"active":           rest.Active,
		"created_at":       r.now().UTC(),
	}
	setOptional(row, "description", rest.Description)
	setOptional(row, "phone", rest.Phone)
	setOptional(row, "email", rest.Email)
	setOptional(row, "website", rest.Website)

	stored, err := r.ds.Insert(ctx, backend.TableRestaurants, row)
	if err != nil {
		return fmt.Errorf("insert restaurant: %w", err)
	}
	id, err := stored.UUID("id")
	if err != nil {
		return fmt.Errorf("insert restaurant: %w", err)
	}
	rest.ID = id
	if t := stored.OptTime("created_at"); t != nil {
		rest.CreatedAt = *t
	}
	return nil
}

// LinkMember inserts the restaurant_members row, skipping an existing link.
func (r *RestaurantRepository) LinkMember(ctx context.Context, restaurantID, profileID uuid.UUID, role string) error {
	err := r.ds.InsertBatch(ctx, backend.TableRestaurantMembers, []backend.Row{{
		"restaurant_id": restaurantID,
		"profile_id":    profileID,
		"role":          role,
	}}, "restaurant_id", "profile_id")
	if err != nil {
		return fmt.Errorf("link restaurant member: %w", err)
	}
	return nil
}

// LocationRepository implements repositories.LocationRepository.
type LocationRepository struct {
	ds backend.DataStore
}

// Create inserts the location.
func (r *LocationRepository) Create(ctx context.Context, l *models.Location) error {
	row := backend.Row{
		"restaurant_id": l.RestaurantID,
		"label":         l.Label,
		"is_primary":    l.IsPrimary,
	}
	setOptional(row, "address_line1", l.Line1)
	setOptional(row, "address_line2", l.Line2)
	setOptional(row, "city", l.City)
	setOptional(row, "region", l.Region)
	setOptional(row, "postal_code", l.PostalCode)
	setOptional(row, "country", l.Country)
	setOptional(row, "instructions", l.Instructions)

	stored, err := r.ds.Insert(ctx, backend.TableLocations, row)
	if err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	id, err := stored.UUID("id")
	if err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	l.ID = id
	return nil
}

func setOptional(row backend.Row, col string, v *string) {
	if v != nil {
		row[col] = *v
	}
}
