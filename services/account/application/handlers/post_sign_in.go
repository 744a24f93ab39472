package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/morsel-app/morsel-restaurant/pkg/errhttp"
	"github.com/morsel-app/morsel-restaurant/pkg/logger"
	pkgvalidator "github.com/morsel-app/morsel-restaurant/pkg/validator"
	appsvcs "github.com/morsel-app/morsel-restaurant/services/account/application/services"
)

// SignInRequest is the request body for POST /auth/sign-in.
type SignInRequest struct {
	Email    string `json:"email"    validate:"required,email" example:"joe@deli.com"`
	Password string `json:"password" validate:"required"       example:"correct-horse"`
} // @name SignInRequest

// PostSignInHandler handles POST /auth/sign-in requests.
type PostSignInHandler struct {
	svc      *appsvcs.Services
	sessions sessions.Store
	log      logger.Logger
}

// NewPostSignInHandler returns a PostSignInHandler.
func NewPostSignInHandler(svc *appsvcs.Services, store sessions.Store, log logger.Logger) *PostSignInHandler {
	return &PostSignInHandler{svc: svc, sessions: store, log: log}
}

// Execute signs an operator in.
//
//	@Summary		Sign in
//	@Description	Verifies email and password and starts a session
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SignInRequest	true	"Sign in request"
//	@Success		200		{object}	AuthResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/auth/sign-in [post]
func (h *PostSignInHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[SignInRequest](w, r)
	if !ok {
		return
	}

	res, err := h.svc.Auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	writeSession(w, r, h.sessions, h.log, http.StatusOK, res)
}
