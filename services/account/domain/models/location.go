package models

import (
	"strings"

	"github.com/google/uuid"

	accountdomain "github.com/morsel-app/morsel-restaurant/services/account/domain"
)

// Address holds the optional postal fields of a location.
type Address struct {
	Line1      *string `json:"address_line1,omitempty"`
	Line2      *string `json:"address_line2,omitempty"`
	City       *string `json:"city,omitempty"`
	Region     *string `json:"region,omitempty"`
	PostalCode *string `json:"postal_code,omitempty"`
	Country    *string `json:"country,omitempty"`
}

func (a Address) normalized() Address {
	return Address{
		Line1:      optional(a.Line1),
		Line2:      optional(a.Line2),
		City:       optional(a.City),
		Region:     optional(a.Region),
		PostalCode: optional(a.PostalCode),
		Country:    optional(a.Country),
	}
}

// Location is a pickup site of a restaurant.
type Location struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	Label        string    `json:"label"`
	Address
	Instructions *string `json:"instructions,omitempty"`
	IsPrimary    bool    `json:"is_primary"`
}

// NewLocation builds a location of restaurantID. A blank label falls back to
// pendingAddress, then to the first address line.
func NewLocation(restaurantID uuid.UUID, label string, addr Address, instructions *string, isPrimary bool, pendingAddress string) (*Location, error) {
	if restaurantID == uuid.Nil {
		return nil, accountdomain.ErrRestaurantRequired
	}
	addr = addr.normalized()
	label = strings.TrimSpace(label)
	if label == "" {
		label = strings.TrimSpace(pendingAddress)
	}
	if label == "" && addr.Line1 != nil {
		label = *addr.Line1
	}
	if label == "" {
		return nil, accountdomain.ErrLocationLabelRequired
	}
	if addr.Line1 == nil && strings.TrimSpace(pendingAddress) != "" {
		p := strings.TrimSpace(pendingAddress)
		addr.Line1 = &p
	}
	return &Location{
		RestaurantID: restaurantID,
		Label:        label,
		Address:      addr,
		Instructions: optional(instructions),
		IsPrimary:    isPrimary,
	}, nil
}
