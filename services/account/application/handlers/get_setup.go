package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/morsel-app/morsel-restaurant/pkg/auth"
	"github.com/morsel-app/morsel-restaurant/pkg/errhttp"
	"github.com/morsel-app/morsel-restaurant/pkg/httpx"
	appsvcs "github.com/morsel-app/morsel-restaurant/services/account/application/services"
)

// SetupStatusResponse is the setup stage of the caller.
type SetupStatusResponse struct {
	Stage          string     `json:"stage"                     example:"needs_location" enums:"needs_restaurant,needs_location,ready"`
	RestaurantID   *uuid.UUID `json:"restaurant_id,omitempty"`
	LocationID     *uuid.UUID `json:"location_id,omitempty"`
	PendingAddress string     `json:"pending_address,omitempty" example:"123 Main St"`
} // @name SetupStatusResponse

// GetSetupHandler handles GET /setup requests.
type GetSetupHandler struct {
	svc *appsvcs.Services
}

// NewGetSetupHandler returns a GetSetupHandler.
func NewGetSetupHandler(svc *appsvcs.Services) *GetSetupHandler {
	return &GetSetupHandler{svc: svc}
}

// Execute returns the setup stage of the caller.
//
//	@Summary		Setup status
//	@Tags			setup
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	SetupStatusResponse
//	@Failure		401	{object}	ErrorResponse
//	@Router			/setup [get]
func (h *GetSetupHandler) Execute(w http.ResponseWriter, r *http.Request) {
	profileID, err := auth.ProfileIDFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	st, err := h.svc.Setup.Status(r.Context(), profileID)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, SetupStatusResponse{
		Stage:          string(st.Stage),
		RestaurantID:   optionalID(st.RestaurantID),
		LocationID:     optionalID(st.LocationID),
		PendingAddress: st.PendingAddress,
	})
}
