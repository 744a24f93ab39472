package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned by SignIn when the email or password does not match.
	ErrInvalidCredentials = errors.New("backend: invalid credentials")

	// ErrEmailTaken is returned by SignUp when an account already uses the email.
	ErrEmailTaken = errors.New("backend: email already registered")
)

// Revocations tracks access tokens that were signed out before they expired.
type Revocations interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// PasswordAuth is an AuthProvider that keeps bcrypt password hashes in the
// auth_users table and issues HS256 access tokens.
type PasswordAuth struct {
	store       DataStore
	revocations Revocations
	secret      []byte
	ttl         time.Duration
	issuer      string
	now         func() time.Time
}

// NewPasswordAuth builds a PasswordAuth. issuer is stamped into every token.
func NewPasswordAuth(store DataStore, revocations Revocations, secret string, ttl time.Duration, issuer string) *PasswordAuth {
	return &PasswordAuth{
		store:       store,
		revocations: revocations,
		secret:      []byte(secret),
		ttl:         ttl,
		issuer:      issuer,
		now:         time.Now,
	}
}

// SignUp creates an account and returns a session for it.
func (a *PasswordAuth) SignUp(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	row, err := a.store.Insert(ctx, TableAuthUsers, Row{
		"email":         email,
		"password_hash": string(hash),
		"created_at":    a.now().UTC(),
	})
	if errors.Is(err, ErrConflict) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}

	id, err := row.UUID("id")
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}
	return a.issue(User{ID: id, Email: email})
}

// SignIn verifies the password and returns a fresh session.
func (a *PasswordAuth) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	rows, err := a.store.Select(ctx, TableAuthUsers, Filter{"email": email})
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrInvalidCredentials
	}

	row := rows[0]
	if err := bcrypt.CompareHashAndPassword([]byte(row.String("password_hash")), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	id, err := row.UUID("id")
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	return a.issue(User{ID: id, Email: email})
}

// SignOut revokes accessToken until it would have expired on its own.
// Tokens that are already invalid are treated as signed out.
func (a *PasswordAuth) SignOut(ctx context.Context, accessToken string) error {
	claims, ok := a.parse(accessToken)
	if !ok {
		return nil
	}
	if err := a.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// CurrentSession resolves accessToken into a session.
func (a *PasswordAuth) CurrentSession(ctx context.Context, accessToken string) (*Session, error) {
	claims, ok := a.parse(accessToken)
	if !ok {
		return nil, nil
	}

	revoked, err := a.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, nil
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, nil
	}
	return &Session{
		AccessToken: accessToken,
		ExpiresAt:   claims.ExpiresAt.Time.UTC(),
		User:        User{ID: id, Email: claims.Email},
	}, nil
}

func (a *PasswordAuth) issue(user User) (*Session, error) {
	now := a.now().UTC()
	expires := now.Add(a.ttl)
	claims := accessClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{AccessToken: signed, ExpiresAt: expires.Truncate(time.Second), User: user}, nil
}

func (a *PasswordAuth) parse(accessToken string) (*accessClaims, bool) {
	if accessToken == "" {
		return nil, false
	}
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !token.Valid || claims.ID == "" {
		return nil, false
	}
	return claims, true
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MemoryRevocations is an in-process Revocations used by tests and single-node setups.
type MemoryRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocations returns an empty MemoryRevocations.
func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{revoked: make(map[string]time.Time), now: time.Now}
}

func (m *MemoryRevocations) Revoke(_ context.Context, tokenID string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = until
	return nil
}

func (m *MemoryRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	until, ok := m.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if m.now().After(until) {
		delete(m.revoked, tokenID)
		return false, nil
	}
	return true, nil
}
