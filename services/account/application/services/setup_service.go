package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/morsel-app/morsel-restaurant/pkg/appstate"
	"github.com/morsel-app/morsel-restaurant/pkg/lock"
	"github.com/morsel-app/morsel-restaurant/pkg/logger"
	accountdomain "github.com/morsel-app/morsel-restaurant/services/account/domain"
	"github.com/morsel-app/morsel-restaurant/services/account/domain/models"
	"github.com/morsel-app/morsel-restaurant/services/account/domain/repositories"
)

const setupLockTTL = 30 * time.Second

// SetupStatus is the setup stage of a profile and the identifiers behind it.
type SetupStatus struct {
	Stage          models.SetupStage
	RestaurantID   uuid.UUID
	LocationID     uuid.UUID
	PendingAddress string
}

// CreateRestaurantInput is the restaurant form. Address is remembered to
// pre-fill the location form.
type CreateRestaurantInput struct {
	Name    string
	Address string
	models.RestaurantDetails
}

// SaveLocationInput is the location form. IsPrimary defaults to true.
type SaveLocationInput struct {
	Label        string
	Address      models.Address
	Instructions *string
	IsPrimary    *bool
}

// SetupService walks a profile from signed in to ready to publish.
type SetupService struct {
	store  repositories.Store
	state  appstate.Store
	locker lock.Locker
	log    logger.Logger
}

// NewSetupService returns a SetupService.
func NewSetupService(store repositories.Store, state appstate.Store, locker lock.Locker, log logger.Logger) *SetupService {
	return &SetupService{store: store, state: state, locker: locker, log: log}
}

// Status derives the setup stage of profileID from its cached identifiers.
func (s *SetupService) Status(ctx context.Context, profileID uuid.UUID) (*SetupStatus, error) {
	st, err := s.state.Get(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("load setup state: %w", err)
	}
	return &SetupStatus{
		Stage:          models.StageFor(true, st.HasRestaurant(), st.HasLocation()),
		RestaurantID:   st.RestaurantID,
		LocationID:     st.LocationID,
		PendingAddress: st.PendingAddress,
	}, nil
}

// CreateRestaurant creates a restaurant owned by profileID, links the
// profile as owner in the same transaction and caches the new id.
func (s *SetupService) CreateRestaurant(ctx context.Context, profileID uuid.UUID, in CreateRestaurantInput) (*models.Restaurant, error) {
	rest, err := models.NewRestaurant(profileID, in.Name, in.RestaurantDetails)
	if err != nil {
		return nil, err
	}

	release, err := s.acquire(ctx, profileID)
	if err != nil {
		return nil, err
	}
	defer release()

	err = s.store.WithinTx(ctx, func(ctx context.Context, r repositories.Repos) error {
		if err := r.Restaurants.Create(ctx, rest); err != nil {
			return err
		}
		return r.Restaurants.LinkMember(ctx, rest.ID, profileID, models.MemberRoleOwner)
	})
	if err != nil {
		return nil, err
	}
	if err := s.state.SetRestaurant(ctx, profileID, rest.ID, strings.TrimSpace(in.Address)); err != nil {
		return nil, fmt.Errorf("cache restaurant: %w", err)
	}

	s.log.InfoContext(ctx, "restaurant created", "restaurant_id", rest.ID, "profile_id", profileID)
	return rest, nil
}

// SaveLocation adds a location to the cached restaurant of profileID and
// caches its id. The cached restaurant is read under the setup lock so a
// concurrent CreateRestaurant cannot swap it in between.
func (s *SetupService) SaveLocation(ctx context.Context, profileID uuid.UUID, in SaveLocationInput) (*models.Location, error) {
	release, err := s.acquire(ctx, profileID)
	if err != nil {
		return nil, err
	}
	defer release()

	st, err := s.state.Get(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("load setup state: %w", err)
	}
	if !st.HasRestaurant() {
		return nil, accountdomain.ErrRestaurantRequired
	}

	primary := true
	if in.IsPrimary != nil {
		primary = *in.IsPrimary
	}
	loc, err := models.NewLocation(st.RestaurantID, in.Label, in.Address, in.Instructions, primary, st.PendingAddress)
	if err != nil {
		return nil, err
	}

	if err := s.store.Repos().Locations.Create(ctx, loc); err != nil {
		return nil, err
	}
	if err := s.state.SetLocation(ctx, profileID, loc.ID); err != nil {
		return nil, fmt.Errorf("cache location: %w", err)
	}

	s.log.InfoContext(ctx, "location saved", "location_id", loc.ID, "restaurant_id", st.RestaurantID)
	return loc, nil
}

func (s *SetupService) acquire(ctx context.Context, profileID uuid.UUID) (func(), error) {
	release, err := s.locker.TryLock(ctx, "setup:"+profileID.String(), setupLockTTL)
	if errors.Is(err, lock.ErrHeld) {
		return nil, accountdomain.ErrSetupInFlight
	}
	if err != nil {
		return nil, fmt.Errorf("acquire setup lock: %w", err)
	}
	return release, nil
}
