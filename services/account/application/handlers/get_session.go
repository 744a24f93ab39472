package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/morsel-app/morsel-restaurant/pkg/auth"
	"github.com/morsel-app/morsel-restaurant/pkg/errhttp"
	"github.com/morsel-app/morsel-restaurant/pkg/httpx"
	appsvcs "github.com/morsel-app/morsel-restaurant/services/account/application/services"
)

// SessionResponse reports whether the caller is signed in.
type SessionResponse struct {
	SignedIn bool          `json:"signed_in" example:"true"`
	User     *UserResponse `json:"user,omitempty"`
} // @name SessionResponse

// GetSessionHandler handles GET /auth/session requests.
type GetSessionHandler struct {
	svc      *appsvcs.Services
	sessions sessions.Store
}

// NewGetSessionHandler returns a GetSessionHandler.
func NewGetSessionHandler(svc *appsvcs.Services, store sessions.Store) *GetSessionHandler {
	return &GetSessionHandler{svc: svc, sessions: store}
}

// Execute checks the caller's session.
//
//	@Summary		Current session
//	@Description	Reports whether the caller is signed in. Answers 503 when the check itself failed.
//	@Tags			auth
//	@Produce		json
//	@Success		200	{object}	SessionResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/auth/session [get]
func (h *GetSessionHandler) Execute(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.Auth.Session(r.Context(), auth.TokenFromRequest(r, h.sessions))
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	resp := SessionResponse{SignedIn: info.SignedIn}
	if info.User != nil {
		u := newUserResponse(*info.User)
		resp.User = &u
	}
	httpx.JSON(w, http.StatusOK, resp)
}
