package auth

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
)

// SessionName is the cookie name used for the browser session.
const SessionName = "morsel_session"

const sessionTokenKey = "access_token"

// TokenFromRequest returns the access token from the Authorization header,
// falling back to the session cookie. Returns "" when neither is present.
func TokenFromRequest(r *http.Request, store sessions.Store) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if store == nil {
		return ""
	}
	session, err := store.Get(r, SessionName)
	if err != nil {
		return ""
	}
	token, _ := session.Values[sessionTokenKey].(string)
	return token
}

// SaveToken stores accessToken in the session cookie.
func SaveToken(w http.ResponseWriter, r *http.Request, store sessions.Store, accessToken string) error {
	session, err := store.Get(r, SessionName)
	if err != nil {
		// A stale or undecodable cookie still yields a usable fresh session.
		session, err = store.New(r, SessionName)
		if err != nil {
			return err
		}
	}
	session.Values[sessionTokenKey] = accessToken
	return session.Save(r, w)
}

// ClearToken expires the session cookie and deletes the server-side session.
func ClearToken(w http.ResponseWriter, r *http.Request, store sessions.Store) error {
	session, err := store.Get(r, SessionName)
	if err != nil {
		return nil
	}
	session.Values = map[any]any{}
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
