// Package rowstore implements the listing repositories over the row-level
// backend.DataStore.
package rowstore

import (
	"context"

	"github.com/morsel-app/morsel-restaurant/pkg/backend"
	"github.com/morsel-app/morsel-restaurant/services/listing/domain/repositories"
)

// Store implements repositories.Store.
type Store struct {
	ds backend.DataStore
}

// NewStore returns a Store over ds. When ds is a backend.Transactor the store is atomic.
func NewStore(ds backend.DataStore) *Store {
	return &Store{ds: ds}
}

// Repos returns repositories bound to the underlying store.
func (s *Store) Repos() repositories.Repos {
	return reposFor(s.ds)
}

// Atomic reports whether the underlying store supports transactions.
func (s *Store) Atomic() bool {
	_, ok := s.ds.(backend.Transactor)
	return ok
}

// WithinTx runs fn in one transaction when possible.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, r repositories.Repos) error) error {
	tx, ok := s.ds.(backend.Transactor)
	if !ok {
		return fn(ctx, s.Repos())
	}
	return tx.WithinTx(ctx, func(ctx context.Context, ds backend.DataStore) error {
		return fn(ctx, reposFor(ds))
	})
}

func reposFor(ds backend.DataStore) repositories.Repos {
	return repositories.Repos{
		Items:    NewItemRepository(ds),
		Tags:     NewTagRepository(ds),
		Listings: NewListingRepository(ds),
	}
}
