// Package appstate owns the per-profile identifiers cached during setup:
// the restaurant and location the profile publishes listings under, and the
// address entered with the restaurant that pre-fills the location form.
package appstate

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// State is the cached setup state of one profile. Zero ids mean "not set".
type State struct {
	RestaurantID   uuid.UUID `json:"restaurant_id,omitempty"`
	LocationID     uuid.UUID `json:"location_id,omitempty"`
	PendingAddress string    `json:"pending_address,omitempty"`
}

// HasRestaurant reports whether a restaurant id is cached.
func (s State) HasRestaurant() bool { return s.RestaurantID != uuid.Nil }

// HasLocation reports whether a location id is cached.
func (s State) HasLocation() bool { return s.LocationID != uuid.Nil }

// Store persists State per profile.
type Store interface {
	Get(ctx context.Context, profileID uuid.UUID) (State, error)
	// SetRestaurant caches restaurantID and the pending address. Any cached
	// location belongs to the previous restaurant and is cleared.
	SetRestaurant(ctx context.Context, profileID, restaurantID uuid.UUID, pendingAddress string) error
	SetLocation(ctx context.Context, profileID, locationID uuid.UUID) error
	Clear(ctx context.Context, profileID uuid.UUID) error
}

// Memory is an in-process Store for tests and local runs.
type Memory struct {
	mu     sync.Mutex
	states map[uuid.UUID]State
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{states: make(map[uuid.UUID]State)}
}

func (m *Memory) Get(_ context.Context, profileID uuid.UUID) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[profileID], nil
}

func (m *Memory) SetRestaurant(_ context.Context, profileID, restaurantID uuid.UUID, pendingAddress string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[profileID] = State{RestaurantID: restaurantID, PendingAddress: pendingAddress}
	return nil
}

func (m *Memory) SetLocation(_ context.Context, profileID, locationID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.states[profileID]
	s.LocationID = locationID
	m.states[profileID] = s
	return nil
}

func (m *Memory) Clear(_ context.Context, profileID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, profileID)
	return nil
}
