package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/morsel-app/morsel-restaurant/pkg/auth"
	"github.com/morsel-app/morsel-restaurant/pkg/errhttp"
	"github.com/morsel-app/morsel-restaurant/pkg/httpx"
	pkgvalidator "github.com/morsel-app/morsel-restaurant/pkg/validator"
	appsvcs "github.com/morsel-app/morsel-restaurant/services/account/application/services"
	"github.com/morsel-app/morsel-restaurant/services/account/domain/models"
)

// SaveLocationRequest is the request body for POST /locations. A blank
// label falls back to the address entered with the restaurant.
type SaveLocationRequest struct {
	Label        string  `json:"label,omitempty"         validate:"max=255" example:"Main St"`
	AddressLine1 *string `json:"address_line1,omitempty" validate:"omitempty,max=255" example:"123 Main St"`
	AddressLine2 *string `json:"address_line2,omitempty" validate:"omitempty,max=255"`
	City         *string `json:"city,omitempty"          validate:"omitempty,max=120" example:"Springfield"`
	Region       *string `json:"region,omitempty"        validate:"omitempty,max=120"`
	PostalCode   *string `json:"postal_code,omitempty"   validate:"omitempty,max=20"`
	Country      *string `json:"country,omitempty"       validate:"omitempty,max=120"`
	Instructions *string `json:"instructions,omitempty"  validate:"omitempty,max=1000" example:"Ring the bell at the side door"`
	IsPrimary    *bool   `json:"is_primary,omitempty"    example:"true"`
} // @name SaveLocationRequest

// LocationResponse is a saved location.
type LocationResponse struct {
	ID           uuid.UUID `json:"id"            example:"123e4567-e89b-12d3-a456-426614174000"`
	RestaurantID uuid.UUID `json:"restaurant_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Label        string    `json:"label"         example:"123 Main St"`
	models.Address
	Instructions *string `json:"instructions,omitempty"`
	IsPrimary    bool    `json:"is_primary" example:"true"`
} // @name LocationResponse

// PostLocationHandler handles POST /locations requests.
type PostLocationHandler struct {
	svc *appsvcs.Services
}

// NewPostLocationHandler returns a PostLocationHandler.
func NewPostLocationHandler(svc *appsvcs.Services) *PostLocationHandler {
	return &PostLocationHandler{svc: svc}
}

// Execute saves a pickup location for the caller's restaurant.
//
//	@Summary		Save location
//	@Tags			setup
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		SaveLocationRequest	true	"Location"
//	@Success		201		{object}	LocationResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/locations [post]
func (h *PostLocationHandler) Execute(w http.ResponseWriter, r *http.Request) {
	profileID, err := auth.ProfileIDFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	req, ok := pkgvalidator.ValidateRequest[SaveLocationRequest](w, r)
	if !ok {
		return
	}

	loc, err := h.svc.Setup.SaveLocation(r.Context(), profileID, appsvcs.SaveLocationInput{
		Label: req.Label,
		Address: models.Address{
			Line1:      req.AddressLine1,
			Line2:      req.AddressLine2,
			City:       req.City,
			Region:     req.Region,
			PostalCode: req.PostalCode,
			Country:    req.Country,
		},
		Instructions: req.Instructions,
		IsPrimary:    req.IsPrimary,
	})
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, LocationResponse{
		ID:           loc.ID,
		RestaurantID: loc.RestaurantID,
		Label:        loc.Label,
		Address:      loc.Address,
		Instructions: loc.Instructions,
		IsPrimary:    loc.IsPrimary,
	})
}
