package models

import (
	"strings"

	"github.com/google/uuid"
)

// Profile is an authenticated user acting as a restaurant operator.
// There is exactly one per auth user.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	AuthUserID  uuid.UUID `json:"auth_user_id"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"display_name,omitempty"`
	Role        *string   `json:"role,omitempty"`
}

// NewProfile returns the profile to upsert for an auth user.
func NewProfile(authUserID uuid.UUID, email string, displayName *string) *Profile {
	p := &Profile{AuthUserID: authUserID, Email: strings.ToLower(strings.TrimSpace(email))}
	if displayName != nil {
		if d := strings.TrimSpace(*displayName); d != "" {
			p.DisplayName = &d
		}
	}
	return p
}
