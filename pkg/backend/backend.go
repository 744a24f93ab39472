// Package backend is the single configured handle to the data and auth backend.
//
// Data access is row-level: callers insert, select, upsert, update and delete
// loosely typed Rows against named tables and map them to domain records
// themselves. The facade never retries; retry policy belongs to callers.
package backend

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Table names known to the backend.
type Table string

const (
	TableAuthUsers         Table = "auth_users"
	TableProfiles          Table = "profiles"
	TableRestaurants       Table = "restaurants"
	TableRestaurantMembers Table = "restaurant_members"
	TableLocations         Table = "locations"
	TableItems             Table = "items"
	TableListings          Table = "listings"
	TableTags              Table = "tags"
	TableItemTags          Table = "item_tags"
)

// Filter is a set of column = value conditions joined with AND.
// A nil or empty Filter matches every row.
type Filter map[string]any

// Sentinel errors returned by DataStore implementations. Use errors.Is() to check these.
var (
	// ErrConflict indicates a unique or primary key violation.
	ErrConflict = errors.New("backend: conflict")

	// ErrConstraint indicates a check, foreign key or not-null violation.
	ErrConstraint = errors.New("backend: constraint violation")

	// ErrNoRows indicates an operation that must return a row returned none.
	ErrNoRows = errors.New("backend: no rows")
)

// DataStore is the row-level data contract of the backend.
type DataStore interface {
	// Insert creates one row and returns it with server-assigned columns.
	Insert(ctx context.Context, table Table, row Row) (Row, error)

	// InsertBatch creates rows in a single statement. When ignoreConflictOn
	// names columns, rows conflicting on them are skipped instead of failing.
	InsertBatch(ctx context.Context, table Table, rows []Row, ignoreConflictOn ...string) error

	// Select returns the rows matching filter.
	Select(ctx context.Context, table Table, filter Filter) ([]Row, error)

	// Upsert inserts row or updates the existing row keyed by conflictKey.
	Upsert(ctx context.Context, table Table, row Row, conflictKey string) (Row, error)

	// Update sets the given columns on every row matching filter and returns them.
	Update(ctx context.Context, table Table, set Row, filter Filter) ([]Row, error)

	// Delete removes the rows matching filter and reports how many were removed.
	Delete(ctx context.Context, table Table, filter Filter) (int64, error)
}

// Transactor is implemented by stores that can run several operations atomically.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DataStore) error) error
}

// User is the identity behind an authenticated session.
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// Session is an authenticated session issued by an AuthProvider.
type Session struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        User      `json:"user"`
}

// AuthProvider is the auth contract of the backend.
type AuthProvider interface {
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error

	// CurrentSession resolves accessToken. A missing, expired, malformed or
	// revoked token yields (nil, nil); an error means the check itself failed.
	CurrentSession(ctx context.Context, accessToken string) (*Session, error)
}
