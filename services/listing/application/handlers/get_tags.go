package handlers

import (
	"net/http"

	"github.com/morsel-app/morsel-restaurant/pkg/httpx"
	appsvcs "github.com/morsel-app/morsel-restaurant/services/listing/application/services"
	"github.com/morsel-app/morsel-restaurant/services/listing/domain/models"
)

// TagsResponse is the fixed tag vocabulary.
type TagsResponse struct {
	Tags []models.VocabularyEntry `json:"tags"`
} // @name TagsResponse

// GetTagsHandler handles GET /tags requests.
type GetTagsHandler struct {
	svc *appsvcs.Services
}

// NewGetTagsHandler returns a GetTagsHandler.
func NewGetTagsHandler(svc *appsvcs.Services) *GetTagsHandler {
	return &GetTagsHandler{svc: svc}
}

// Execute returns the tag vocabulary in display order.
//
//	@Summary		Tag vocabulary
//	@Tags			listings
//	@Produce		json
//	@Success		200	{object}	TagsResponse
//	@Router			/tags [get]
func (h *GetTagsHandler) Execute(w http.ResponseWriter, _ *http.Request) {
	httpx.JSON(w, http.StatusOK, TagsResponse{Tags: h.svc.Query.Vocabulary()})
}
