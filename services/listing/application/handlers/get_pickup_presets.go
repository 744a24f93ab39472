package handlers

import (
	"net/http"

	"github.com/morsel-app/morsel-restaurant/pkg/errhttp"
	"github.com/morsel-app/morsel-restaurant/pkg/httpx"
	appsvcs "github.com/morsel-app/morsel-restaurant/services/listing/application/services"
)

// WindowsResponse lists the quick-pick pickup windows resolved for now.
type WindowsResponse struct {
	Windows []appsvcs.QuickPickOption `json:"windows"`
} // @name WindowsResponse

// GetWindowsHandler handles GET /listings/windows requests.
type GetWindowsHandler struct {
	svc *appsvcs.Services
}

// NewGetWindowsHandler returns a GetWindowsHandler.
func NewGetWindowsHandler(svc *appsvcs.Services) *GetWindowsHandler {
	return &GetWindowsHandler{svc: svc}
}

// Execute returns the today, tonight and tomorrow windows.
//
//	@Summary		Quick-pick windows
//	@Tags			listings
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	WindowsResponse
//	@Router			/listings/windows [get]
func (h *GetWindowsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	windows, err := h.svc.Query.Windows()
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, WindowsResponse{Windows: windows})
}
