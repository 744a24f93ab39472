package auth

import (
	"context"

	"github.com/morsel-app/morsel-restaurant/pkg/backend"
)

// Status is the outcome of a current-session check.
type Status string

const (
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
	// StatusCheckFailed means the provider could not answer; the caller is
	// neither known to be signed in nor known to be signed out.
	StatusCheckFailed Status = "check_failed"
)

// Check resolves accessToken against provider and classifies the result.
// err is non-nil only for StatusCheckFailed.
func Check(ctx context.Context, provider backend.AuthProvider, accessToken string) (Status, *backend.Session, error) {
	if accessToken == "" {
		return StatusUnauthenticated, nil, nil
	}
	session, err := provider.CurrentSession(ctx, accessToken)
	if err != nil {
		return StatusCheckFailed, nil, err
	}
	if session == nil {
		return StatusUnauthenticated, nil, nil
	}
	return StatusAuthenticated, session, nil
}
