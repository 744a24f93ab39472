package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/morsel-app/morsel-restaurant/pkg/auth"
	"github.com/morsel-app/morsel-restaurant/pkg/errhttp"
	"github.com/morsel-app/morsel-restaurant/pkg/httpx"
	"github.com/morsel-app/morsel-restaurant/pkg/logger"
	appsvcs "github.com/morsel-app/morsel-restaurant/services/account/application/services"
)

// PostSignOutHandler handles POST /auth/sign-out requests.
type PostSignOutHandler struct {
	svc      *appsvcs.Services
	sessions sessions.Store
	log      logger.Logger
}

// NewPostSignOutHandler returns a PostSignOutHandler.
func NewPostSignOutHandler(svc *appsvcs.Services, store sessions.Store, log logger.Logger) *PostSignOutHandler {
	return &PostSignOutHandler{svc: svc, sessions: store, log: log}
}

// Execute revokes the caller's token and clears the session cookie. When
// revocation fails the cookie is kept so the caller stays signed in.
//
//	@Summary		Sign out
//	@Tags			auth
//	@Produce		json
//	@Success		204
//	@Failure		500	{object}	ErrorResponse
//	@Router			/auth/sign-out [post]
func (h *PostSignOutHandler) Execute(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromRequest(r, h.sessions)
	if err := h.svc.Auth.SignOut(r.Context(), token); err != nil {
		h.log.ErrorContext(r.Context(), "sign out failed", "error", err)
		errhttp.WriteError(w, r, err)
		return
	}
	if h.sessions != nil {
		if err := auth.ClearToken(w, r, h.sessions); err != nil {
			h.log.WarnContext(r.Context(), "failed to clear session cookie", "error", err)
		}
	}
	httpx.NoContent(w)
}
