package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/morsel-app/morsel-restaurant/pkg/auth"
	"github.com/morsel-app/morsel-restaurant/pkg/errhttp"
	"github.com/morsel-app/morsel-restaurant/pkg/httpx"
	pkgvalidator "github.com/morsel-app/morsel-restaurant/pkg/validator"
	appsvcs "github.com/morsel-app/morsel-restaurant/services/listing/application/services"
)

// IdempotencyKeyHeader lets clients retry a publish without creating a second listing.
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 255

// PublishListingRequest is the request body for POST /listings.
type PublishListingRequest struct {
	Title              string     `json:"title"                         validate:"max=255"                              example:"Surplus Bagels"`
	Description        *string    `json:"description,omitempty"         validate:"omitempty,max=2000"`
	TitleOverride      *string    `json:"title_override,omitempty"      validate:"omitempty,max=255"`
	Price              string     `json:"price"                         validate:"max=32"                               example:"3.00"`
	Quantity           int        `json:"quantity"                      validate:"min=1,max=500"                        example:"12"`
	AvailableNow       bool       `json:"available_now"                                                                 example:"true"`
	StartAt            *time.Time `json:"start_at,omitempty"`
	EndAt              *time.Time `json:"end_at,omitempty"`
	Window             string     `json:"window,omitempty"              validate:"omitempty,oneof=today tonight tomorrow" example:"tonight"`
	LeadTimeMinutes    *int       `json:"lead_time_minutes,omitempty"   validate:"omitempty,min=0,max=120"              example:"10"`
	SellUntilEnd       bool       `json:"sell_until_end"`
	PickupInstructions *string    `json:"pickup_instructions,omitempty" validate:"omitempty,max=1000"`
	Tags               []string   `json:"tags,omitempty"                validate:"max=40,dive,max=64"                   example:"Vegan,Nut Free"`
} // @name PublishListingRequest

// PublishListingResponse is returned when a listing goes live.
type PublishListingResponse struct {
	ItemID             uuid.UUID        `json:"item_id"`
	ListingID          uuid.UUID        `json:"listing_id"`
	LocationID         uuid.UUID        `json:"location_id"`
	Title              string           `json:"title"               example:"Surplus Bagels"`
	PriceCents         int64            `json:"price_cents"         example:"300"`
	Quantity           int              `json:"quantity"            example:"12"`
	AvailableNow       bool             `json:"available_now"`
	StartAt            *time.Time       `json:"start_at,omitempty"`
	EndAt              *time.Time       `json:"end_at,omitempty"`
	LeadTimeMinutes    int              `json:"lead_time_minutes"   example:"10"`
	SellUntilEnd       bool             `json:"sell_until_end"`
	PickupInstructions *string          `json:"pickup_instructions,omitempty"`
	Tags               []string         `json:"tags"`
	EstimatedEarnings  EarningsResponse `json:"estimated_earnings"`
	Message            string           `json:"message"             example:"\"Surplus Bagels\" is live"`
	Feedback           string           `json:"feedback"            example:"success"`
} // @name PublishListingResponse

// PostListingHandler handles POST /listings requests.
type PostListingHandler struct {
	svc *appsvcs.Services
}

// NewPostListingHandler returns a PostListingHandler backed by the given services.
func NewPostListingHandler(svc *appsvcs.Services) *PostListingHandler {
	return &PostListingHandler{svc: svc}
}

// Execute publishes a listing: it creates the item, links its tags and
// creates the listing at the caller's location.
//
//	@Summary		Publish listing
//	@Description	Creates an item, its tags and a listing in one step. Send Idempotency-Key to make retries safe; a replay answers 200.
//	@Tags			listings
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			Idempotency-Key	header		string					false	"Client-generated key for safe retries"
//	@Param			Accept-Language	header		string					false	"Language for the earnings estimate"
//	@Param			request			body		PublishListingRequest	true	"Listing form"
//	@Success		201				{object}	PublishListingResponse
//	@Success		200				{object}	PublishListingResponse
//	@Failure		400				{object}	ErrorResponse
//	@Failure		401				{object}	ErrorResponse
//	@Failure		409				{object}	ErrorResponse
//	@Failure		422				{object}	ErrorResponse
//	@Failure		500				{object}	ErrorResponse
//	@Router			/listings [post]
func (h *PostListingHandler) Execute(w http.ResponseWriter, r *http.Request) {
	profileID, err := auth.ProfileIDFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLength {
		httpx.JSONError(w, http.StatusBadRequest, "Idempotency-Key is too long")
		return
	}

	req, ok := pkgvalidator.ValidateRequest[PublishListingRequest](w, r)
	if !ok {
		return
	}

	res, err := h.svc.Publish.Publish(r.Context(), appsvcs.PublishInput{
		ProfileID:          profileID,
		Title:              req.Title,
		Description:        req.Description,
		TitleOverride:      req.TitleOverride,
		Price:              req.Price,
		Quantity:           req.Quantity,
		AvailableNow:       req.AvailableNow,
		StartAt:            req.StartAt,
		EndAt:              req.EndAt,
		Window:             req.Window,
		LeadTimeMinutes:    req.LeadTimeMinutes,
		SellUntilEnd:       req.SellUntilEnd,
		PickupInstructions: req.PickupInstructions,
		Tags:               req.Tags,
		IdempotencyKey:     key,
		Lang:               requestLanguage(r),
	})
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	tags := make([]string, 0, len(res.Tags))
	for _, t := range res.Tags {
		tags = append(tags, t.Name)
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	l := res.Listing
	httpx.JSON(w, status, PublishListingResponse{
		ItemID:             res.Item.ID,
		ListingID:          l.ID,
		LocationID:         l.LocationID,
		Title:              res.Item.Title.String(),
		PriceCents:         int64(l.Price),
		Quantity:           l.Quantity,
		AvailableNow:       l.AvailableNow,
		StartAt:            l.StartAt(),
		EndAt:              l.EndAt(),
		LeadTimeMinutes:    l.LeadTimeMinutes,
		SellUntilEnd:       l.SellUntilEnd,
		PickupInstructions: l.PickupInstructions,
		Tags:               tags,
		EstimatedEarnings:  newEarningsResponse(res.EstimatedEarnings),
		Message:            res.Message,
		Feedback:           res.Feedback,
	})
}
