package services

import (
	"context"
	"fmt"

	"github.com/morsel-app/morsel-restaurant/pkg/auth"
	"github.com/morsel-app/morsel-restaurant/pkg/backend"
	"github.com/morsel-app/morsel-restaurant/pkg/logger"
	accountdomain "github.com/morsel-app/morsel-restaurant/services/account/domain"
	"github.com/morsel-app/morsel-restaurant/services/account/domain/models"
	"github.com/morsel-app/morsel-restaurant/services/account/domain/repositories"
)

// AuthResult is a new session together with the profile it belongs to.
type AuthResult struct {
	Session *backend.Session
	Profile *models.Profile
}

// SessionInfo is the outcome of a session check.
type SessionInfo struct {
	SignedIn bool
	User     *backend.User
}

// AuthService signs operators in and out and keeps one profile per auth user.
type AuthService struct {
	provider backend.AuthProvider
	profiles repositories.ProfileRepository
	log      logger.Logger
}

// NewAuthService returns an AuthService.
func NewAuthService(provider backend.AuthProvider, profiles repositories.ProfileRepository, log logger.Logger) *AuthService {
	return &AuthService{provider: provider, profiles: profiles, log: log}
}

// SignUp registers a new auth user and creates its profile.
func (s *AuthService) SignUp(ctx context.Context, email, password string, displayName *string) (*AuthResult, error) {
	session, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.withProfile(ctx, session, displayName)
}

// SignIn authenticates an existing user. The profile is upserted so users
// created before their profile row still get one.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	session, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.withProfile(ctx, session, nil)
}

func (s *AuthService) withProfile(ctx context.Context, session *backend.Session, displayName *string) (*AuthResult, error) {
	profile := models.NewProfile(session.User.ID, session.User.Email, displayName)
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("ensure profile: %w", err)
	}
	s.log.InfoContext(ctx, "signed in", "user_id", session.User.ID, "profile_id", profile.ID)
	return &AuthResult{Session: session, Profile: profile}, nil
}

// SignOut revokes accessToken. An empty token is a no-op.
func (s *AuthService) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	if err := s.provider.SignOut(ctx, accessToken); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// Session classifies accessToken. A provider failure is reported as
// ErrSessionCheckFailed rather than as signed out.
func (s *AuthService) Session(ctx context.Context, accessToken string) (*SessionInfo, error) {
	status, session, err := auth.Check(ctx, s.provider, accessToken)
	switch status {
	case auth.StatusAuthenticated:
		return &SessionInfo{SignedIn: true, User: &session.User}, nil
	case auth.StatusCheckFailed:
		s.log.ErrorContext(ctx, "session check failed", "error", err)
		return nil, fmt.Errorf("%w: %v", accountdomain.ErrSessionCheckFailed, err)
	default:
		return &SessionInfo{}, nil
	}
}
