package auth

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/morsel-app/morsel-restaurant/pkg/backend"
	"github.com/morsel-app/morsel-restaurant/pkg/httpx"
	"github.com/morsel-app/morsel-restaurant/pkg/logger"
	"github.com/morsel-app/morsel-restaurant/pkg/telemetry"
)

// RequireAuth is a chi middleware that resolves the caller's access token
// (Bearer header or session cookie) through provider and injects the user
// into the request context. A failed check is logged and answered with 401
// like a missing session.
//
// After this middleware, handlers can safely call auth.UserFromCtx(r.Context()).
func RequireAuth(provider backend.AuthProvider, store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r, store)
			status, session, err := Check(r.Context(), provider, token)
			switch status {
			case StatusAuthenticated:
				r = logger.RequestAttrs(r, "user_id", session.User.ID)
				next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), session.User, token)))
			case StatusCheckFailed:
				log.ErrorContext(r.Context(), "session check failed", "error", err)
				httpx.RequestError(w, r, http.StatusUnauthorized, "authentication required")
			default:
				httpx.RequestError(w, r, http.StatusUnauthorized, "authentication required")
			}
		})
	}
}

// RequireProfile resolves the profile of the authenticated user and injects
// its id. Must run after RequireAuth.
func RequireProfile(profiles ProfileResolver, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := UserFromCtx(r.Context())
			if err != nil {
				httpx.RequestError(w, r, http.StatusUnauthorized, "authentication required")
				return
			}
			profileID, err := profiles.ProfileID(r.Context(), user.ID)
			if err != nil {
				log.WarnContext(r.Context(), "profile lookup failed", "error", err)
				httpx.RequestError(w, r, http.StatusUnauthorized, "profile not found; sign in again")
				return
			}
			r = logger.RequestAttrs(r, "profile_id", profileID)
			telemetry.SetUser(r.Context(), user.ID.String(), profileID.String())
			next.ServeHTTP(w, r.WithContext(WithProfileID(r.Context(), profileID)))
		})
	}
}
