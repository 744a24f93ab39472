package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/morsel-app/morsel-restaurant/pkg/backend"
)

// ProfileResolver maps an auth user to its profile id.
type ProfileResolver interface {
	ProfileID(ctx context.Context, authUserID uuid.UUID) (uuid.UUID, error)
}

// StoreProfiles resolves profiles with a select on the profiles table.
type StoreProfiles struct {
	store backend.DataStore
}

// NewStoreProfiles returns a ProfileResolver backed by store.
func NewStoreProfiles(store backend.DataStore) *StoreProfiles {
	return &StoreProfiles{store: store}
}

func (p *StoreProfiles) ProfileID(ctx context.Context, authUserID uuid.UUID) (uuid.UUID, error) {
	rows, err := p.store.Select(ctx, backend.TableProfiles, backend.Filter{"auth_user_id": authUserID})
	if err != nil {
		return uuid.Nil, fmt.Errorf("select profile: %w", err)
	}
	if len(rows) == 0 {
		return uuid.Nil, ErrProfileNotFound
	}
	return rows[0].UUID("id")
}
