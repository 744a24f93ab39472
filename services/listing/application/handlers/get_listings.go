package handlers

import (
	"net/http"

	"github.com/morsel-app/morsel-restaurant/pkg/auth"
	"github.com/morsel-app/morsel-restaurant/pkg/cache"
	"github.com/morsel-app/morsel-restaurant/pkg/errhttp"
	"github.com/morsel-app/morsel-restaurant/pkg/httpx"
	appsvcs "github.com/morsel-app/morsel-restaurant/services/listing/application/services"
)

// ActiveListingsResponse lists the active listings at the caller's location.
type ActiveListingsResponse struct {
	Listings []cache.CachedListing `json:"listings"`
} // @name ActiveListingsResponse

// GetListingsHandler handles GET /listings requests.
type GetListingsHandler struct {
	svc *appsvcs.Services
}

// NewGetListingsHandler returns a GetListingsHandler.
func NewGetListingsHandler(svc *appsvcs.Services) *GetListingsHandler {
	return &GetListingsHandler{svc: svc}
}

// Execute returns the active listings, newest first.
//
//	@Summary		Active listings
//	@Tags			listings
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	ActiveListingsResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Router			/listings [get]
func (h *GetListingsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	profileID, err := auth.ProfileIDFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	listings, err := h.svc.Query.Active(r.Context(), profileID)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	if listings == nil {
		listings = []cache.CachedListing{}
	}
	httpx.JSON(w, http.StatusOK, ActiveListingsResponse{Listings: listings})
}
