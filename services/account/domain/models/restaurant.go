package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	accountdomain "github.com/morsel-app/morsel-restaurant/services/account/domain"
)

const maxNameLength = 255

// MemberRoleOwner is the role of the profile that created a restaurant.
const MemberRoleOwner = "owner"

// Restaurant is a business owning items and locations.
type Restaurant struct {
	ID             uuid.UUID `json:"id"`
	OwnerProfileID uuid.UUID `json:"owner_profile_id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	Email          *string   `json:"email,omitempty"`
	Website        *string   `json:"website,omitempty"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}

// RestaurantDetails are the optional contact fields of a restaurant.
type RestaurantDetails struct {
	Description *string
	Phone       *string
	Email       *string
	Website     *string
}

// NewRestaurant validates the name and returns an active restaurant owned by ownerProfileID.
func NewRestaurant(ownerProfileID uuid.UUID, name string, d RestaurantDetails) (*Restaurant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, accountdomain.ErrRestaurantNameRequired
	}
	if len(name) > maxNameLength {
		return nil, fmt.Errorf("%w: name must not exceed %d characters", accountdomain.ErrInvalidRestaurant, maxNameLength)
	}
	if ownerProfileID == uuid.Nil {
		return nil, fmt.Errorf("%w: owner profile must be set", accountdomain.ErrInvalidRestaurant)
	}
	return &Restaurant{
		OwnerProfileID: ownerProfileID,
		Name:           name,
		Description:    optional(d.Description),
		Phone:          optional(d.Phone),
		Email:          optional(d.Email),
		Website:        optional(d.Website),
		Active:         true,
	}, nil
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
