package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/morsel-app/morsel-restaurant/pkg/backend"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const (
	userKey      contextKey = "auth_user"
	profileIDKey contextKey = "profile_id"
	tokenKey     contextKey = "access_token"
)

var (
	// ErrNotAuthenticated is returned when no authenticated user exists in the request context.
	// Handlers should return 401 when this error occurs.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrProfileNotFound is returned when the authenticated user has no profile yet.
	ErrProfileNotFound = errors.New("profile not found")
)

// WithUser attaches the authenticated user and the token it was resolved from.
func WithUser(ctx context.Context, user backend.User, accessToken string) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, tokenKey, accessToken)
}

// UserFromCtx returns the authenticated user, or ErrNotAuthenticated.
func UserFromCtx(ctx context.Context) (backend.User, error) {
	user, ok := ctx.Value(userKey).(backend.User)
	if !ok || user.ID == uuid.Nil {
		return backend.User{}, ErrNotAuthenticated
	}
	return user, nil
}

// AccessTokenFromCtx returns the token the current user authenticated with.
func AccessTokenFromCtx(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// WithProfileID attaches the profile of the authenticated user.
func WithProfileID(ctx context.Context, profileID uuid.UUID) context.Context {
	return context.WithValue(ctx, profileIDKey, profileID)
}

// ProfileIDFromCtx returns the profile attached by RequireProfile.
func ProfileIDFromCtx(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(profileIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, ErrProfileNotFound
	}
	return id, nil
}
