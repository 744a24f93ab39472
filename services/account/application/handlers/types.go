package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/morsel-app/morsel-restaurant/pkg/backend"
	"github.com/morsel-app/morsel-restaurant/services/account/domain/models"
)

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error     string `json:"error"                example:"create a restaurant first"`
	RequestID string `json:"request_id,omitempty" example:"host/abc123-000001"`
} // @name ErrorResponse

// UserResponse is the authenticated identity.
type UserResponse struct {
	ID    uuid.UUID `json:"id"    example:"123e4567-e89b-12d3-a456-426614174000"`
	Email string    `json:"email" example:"joe@deli.com"`
} // @name UserResponse

// ProfileResponse is the operator profile of a user.
type ProfileResponse struct {
	ID          uuid.UUID `json:"id"                     example:"550e8400-e29b-41d4-a716-446655440000"`
	Email       string    `json:"email"                  example:"joe@deli.com"`
	DisplayName *string   `json:"display_name,omitempty" example:"Joe"`
} // @name ProfileResponse

// AuthResponse is returned by sign up and sign in. The token is also stored
// in the session cookie.
type AuthResponse struct {
	AccessToken string          `json:"access_token"`
	ExpiresAt   time.Time       `json:"expires_at" example:"2025-06-01T18:00:00Z"`
	User        UserResponse    `json:"user"`
	Profile     ProfileResponse `json:"profile"`
} // @name AuthResponse

func newUserResponse(u backend.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email}
}

func newProfileResponse(p *models.Profile) ProfileResponse {
	return ProfileResponse{ID: p.ID, Email: p.Email, DisplayName: p.DisplayName}
}

func optionalID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
