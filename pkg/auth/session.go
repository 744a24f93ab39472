// Package auth resolves the caller of a request into a user and profile.
//
// Callers authenticate with an access token issued by the backend auth
// provider, sent either as a Bearer header (mobile client) or inside the
// server-side session referenced by the morsel_session cookie.
package auth

import (
	"bytes"
	"context"
	"encoding/base32"
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "morsel:session:"

// SessionConfig configures NewSessionStore. AuthKey should be 32 or 64
// bytes and EncryptionKey 16, 24 or 32 bytes (openssl rand -base64 32).
type SessionConfig struct {
	AuthKey       []byte
	EncryptionKey []byte
	// Secure marks the cookie HTTPS-only; set in production.
	Secure bool
	// MaxAge should match the access token TTL.
	MaxAge time.Duration
}

// SessionStore is a sessions.Store that keeps values in Redis. The cookie
// carries only the signed and encrypted session id.
type SessionStore struct {
	rdb     redis.UniversalClient
	codecs  []securecookie.Codec
	options sessions.Options
}

var _ sessions.Store = (*SessionStore)(nil)

func NewSessionStore(rdb redis.UniversalClient, cfg SessionConfig) *SessionStore {
	maxAge := int(cfg.MaxAge.Seconds())
	codecs := securecookie.CodecsFromPairs(cfg.AuthKey, cfg.EncryptionKey)
	for _, c := range codecs {
		if sc, ok := c.(*securecookie.SecureCookie); ok {
			sc.MaxAge(maxAge)
		}
	}
	return &SessionStore{
		rdb:    rdb,
		codecs: codecs,
		options: sessions.Options{
			Path:     "/",
			MaxAge:   maxAge,
			HttpOnly: true,
			Secure:   cfg.Secure,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

// Get returns the request's session, loading it at most once per request.
func (s *SessionStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session named by the cookie. Any cookie that cannot be
// decoded or whose id is gone from Redis gives a new, empty session; only a
// Redis failure is returned as an error.
func (s *SessionStore) New(r *http.Request, name string) (*sessions.Session, error) {
	sess := sessions.NewSession(s, name)
	opts := s.options
	sess.Options = &opts
	sess.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return sess, nil
	}
	var id string
	if securecookie.DecodeMulti(name, c.Value, &id, s.codecs...) != nil {
		return sess, nil
	}

	found, err := s.load(r.Context(), id, sess)
	if err != nil {
		return sess, err
	}
	if found {
		sess.ID = id
		sess.IsNew = false
	}
	return sess, nil
}

// Save writes the session to Redis and sets the cookie. A negative MaxAge
// deletes the session and expires the cookie.
func (s *SessionStore) Save(r *http.Request, w http.ResponseWriter, sess *sessions.Session) error {
	if sess.Options.MaxAge < 0 {
		if sess.ID != "" {
			if err := s.rdb.Del(r.Context(), sessionKeyPrefix+sess.ID).Err(); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
		}
		http.SetCookie(w, sessions.NewCookie(sess.Name(), "", sess.Options))
		return nil
	}

	if sess.ID == "" {
		sess.ID = newSessionID()
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(sess.Values); err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	ttl := time.Duration(sess.Options.MaxAge) * time.Second
	if err := s.rdb.Set(r.Context(), sessionKeyPrefix+sess.ID, buf.Bytes(), ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}

	cookie, err := securecookie.EncodeMulti(sess.Name(), sess.ID, s.codecs...)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(sess.Name(), cookie, sess.Options))
	return nil
}

func (s *SessionStore) load(ctx context.Context, id string, sess *sessions.Session) (bool, error) {
	raw, err := s.rdb.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load session: %w", err)
	}
	if gob.NewDecoder(bytes.NewReader(raw)).Decode(&sess.Values) != nil {
		return false, nil
	}
	return true, nil
}

func newSessionID() string {
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(securecookie.GenerateRandomKey(32))
}
