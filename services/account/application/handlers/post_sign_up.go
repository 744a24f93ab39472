package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/morsel-app/morsel-restaurant/pkg/auth"
	"github.com/morsel-app/morsel-restaurant/pkg/errhttp"
	"github.com/morsel-app/morsel-restaurant/pkg/httpx"
	"github.com/morsel-app/morsel-restaurant/pkg/logger"
	pkgvalidator "github.com/morsel-app/morsel-restaurant/pkg/validator"
	appsvcs "github.com/morsel-app/morsel-restaurant/services/account/application/services"
)

// SignUpRequest is the request body for POST /auth/sign-up.
type SignUpRequest struct {
	Email       string  `json:"email"                  validate:"required,email"       example:"joe@deli.com"`
	Password    string  `json:"password"               validate:"required,min=8,max=72" example:"correct-horse"`
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,max=255"    example:"Joe"`
} // @name SignUpRequest

// PostSignUpHandler handles POST /auth/sign-up requests.
type PostSignUpHandler struct {
	svc      *appsvcs.Services
	sessions sessions.Store
	log      logger.Logger
}

// NewPostSignUpHandler returns a PostSignUpHandler.
func NewPostSignUpHandler(svc *appsvcs.Services, store sessions.Store, log logger.Logger) *PostSignUpHandler {
	return &PostSignUpHandler{svc: svc, sessions: store, log: log}
}

// Execute registers a new operator and signs them in.
//
//	@Summary		Sign up
//	@Description	Creates an account and its profile, and starts a session
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SignUpRequest	true	"Sign up request"
//	@Success		201		{object}	AuthResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/auth/sign-up [post]
func (h *PostSignUpHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[SignUpRequest](w, r)
	if !ok {
		return
	}

	res, err := h.svc.Auth.SignUp(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	writeSession(w, r, h.sessions, h.log, http.StatusCreated, res)
}

// writeSession stores the token in the cookie session and writes the AuthResponse.
// A cookie failure is logged only; bearer clients still get the token.
func writeSession(w http.ResponseWriter, r *http.Request, store sessions.Store, log logger.Logger, status int, res *appsvcs.AuthResult) {
	if store != nil {
		if err := auth.SaveToken(w, r, store, res.Session.AccessToken); err != nil {
			log.ErrorContext(r.Context(), "failed to save session cookie", "error", err)
		}
	}
	httpx.JSON(w, status, AuthResponse{
		AccessToken: res.Session.AccessToken,
		ExpiresAt:   res.Session.ExpiresAt,
		User:        newUserResponse(res.Session.User),
		Profile:     newProfileResponse(res.Profile),
	})
}
