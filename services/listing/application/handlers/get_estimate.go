package handlers

import (
	"net/http"
	"strconv"

	"github.com/morsel-app/morsel-restaurant/pkg/errhttp"
	"github.com/morsel-app/morsel-restaurant/pkg/httpx"
	appsvcs "github.com/morsel-app/morsel-restaurant/services/listing/application/services"
)

// GetEstimateHandler handles GET /listings/estimate requests.
type GetEstimateHandler struct {
	svc *appsvcs.Services
}

// NewGetEstimateHandler returns a GetEstimateHandler.
func NewGetEstimateHandler(svc *appsvcs.Services) *GetEstimateHandler {
	return &GetEstimateHandler{svc: svc}
}

// Execute estimates the earnings of selling quantity units at price.
//
//	@Summary		Estimate earnings
//	@Tags			listings
//	@Produce		json
//	@Security		BearerAuth
//	@Param			price		query		string	false	"Unit price, blank means free"	example(3.00)
//	@Param			quantity	query		int		true	"Units for sale"				example(12)
//	@Success		200			{object}	EarningsResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Router			/listings/estimate [get]
func (h *GetEstimateHandler) Execute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	quantity, err := strconv.Atoi(q.Get("quantity"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "quantity must be a whole number")
		return
	}
	e, err := h.svc.Query.Estimate(q.Get("price"), quantity, requestLanguage(r))
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newEarningsResponse(e))
}
