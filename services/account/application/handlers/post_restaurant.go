package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/morsel-app/morsel-restaurant/pkg/auth"
	"github.com/morsel-app/morsel-restaurant/pkg/errhttp"
	"github.com/morsel-app/morsel-restaurant/pkg/httpx"
	pkgvalidator "github.com/morsel-app/morsel-restaurant/pkg/validator"
	appsvcs "github.com/morsel-app/morsel-restaurant/services/account/application/services"
	"github.com/morsel-app/morsel-restaurant/services/account/domain/models"
)

// CreateRestaurantRequest is the request body for POST /restaurants.
type CreateRestaurantRequest struct {
	Name        string  `json:"name"                  validate:"required,notblank,max=255" example:"Joe's Deli"`
	Address     string  `json:"address,omitempty"     validate:"max=500"              example:"123 Main St"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Phone       *string `json:"phone,omitempty"       validate:"omitempty,max=50"     example:"+1 555 0100"`
	Email       *string `json:"email,omitempty"       validate:"omitempty,email"      example:"hello@deli.com"`
	Website     *string `json:"website,omitempty"     validate:"omitempty,url"        example:"https://deli.com"`
} // @name CreateRestaurantRequest

// RestaurantResponse is a created restaurant.
type RestaurantResponse struct {
	ID          uuid.UUID `json:"id"          example:"123e4567-e89b-12d3-a456-426614174000"`
	Name        string    `json:"name"        example:"Joe's Deli"`
	Description *string   `json:"description,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Email       *string   `json:"email,omitempty"`
	Website     *string   `json:"website,omitempty"`
	Active      bool      `json:"active"      example:"true"`
	CreatedAt   time.Time `json:"created_at"  example:"2024-01-15T10:30:00Z"`
} // @name RestaurantResponse

// PostRestaurantHandler handles POST /restaurants requests.
type PostRestaurantHandler struct {
	svc *appsvcs.Services
}

// NewPostRestaurantHandler returns a PostRestaurantHandler.
func NewPostRestaurantHandler(svc *appsvcs.Services) *PostRestaurantHandler {
	return &PostRestaurantHandler{svc: svc}
}

// Execute creates the caller's restaurant.
//
//	@Summary		Create restaurant
//	@Description	Creates a restaurant owned by the caller and remembers the address for the location form
//	@Tags			setup
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		CreateRestaurantRequest	true	"Restaurant"
//	@Success		201		{object}	RestaurantResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/restaurants [post]
func (h *PostRestaurantHandler) Execute(w http.ResponseWriter, r *http.Request) {
	profileID, err := auth.ProfileIDFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	req, ok := pkgvalidator.ValidateRequest[CreateRestaurantRequest](w, r)
	if !ok {
		return
	}

	rest, err := h.svc.Setup.CreateRestaurant(r.Context(), profileID, appsvcs.CreateRestaurantInput{
		Name:    req.Name,
		Address: req.Address,
		RestaurantDetails: models.RestaurantDetails{
			Description: req.Description,
			Phone:       req.Phone,
			Email:       req.Email,
			Website:     req.Website,
		},
	})
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, RestaurantResponse{
		ID:          rest.ID,
		Name:        rest.Name,
		Description: rest.Description,
		Phone:       rest.Phone,
		Email:       rest.Email,
		Website:     rest.Website,
		Active:      rest.Active,
		CreatedAt:   rest.CreatedAt,
	})
}
