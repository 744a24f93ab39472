package backend

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestAuth() (*PasswordAuth, *MemoryStore) {
	store := NewMemoryStore()
	return NewPasswordAuth(store, NewMemoryRevocations(), "test-secret-with-enough-length!!", time.Hour, "morsel-test"), store
}

type failingRevocations struct{ err error }

func (f failingRevocations) Revoke(context.Context, string, time.Time) error   { return f.err }
func (f failingRevocations) IsRevoked(context.Context, string) (bool, error) { return false, f.err }

func TestPasswordAuth_SignUpThenCurrentSession(t *testing.T) {
	auth, store := newTestAuth()
	ctx := context.Background()

	sess, err := auth.SignUp(ctx, "  Owner@Deli.com ", "correct horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.User.Email != "owner@deli.com" {
		t.Errorf("expected normalised email, got %q", sess.User.Email)
	}
	if rows := store.Rows(TableAuthUsers); len(rows) != 1 || rows[0].String("password_hash") == "correct horse" {
		t.Fatalf("expected one user with hashed password, got %+v", rows)
	}

	current, err := auth.CurrentSession(ctx, sess.AccessToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current == nil || current.User.ID != sess.User.ID {
		t.Fatalf("expected session for %s, got %+v", sess.User.ID, current)
	}
}

func TestPasswordAuth_SignUpDuplicateEmail(t *testing.T) {
	auth, _ := newTestAuth()
	ctx := context.Background()

	if _, err := auth.SignUp(ctx, "a@b.com", "password1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := auth.SignUp(ctx, "A@B.com", "password2")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestPasswordAuth_SignIn(t *testing.T) {
	auth, _ := newTestAuth()
	ctx := context.Background()
	created, err := auth.SignUp(ctx, "a@b.com", "password1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid", "a@b.com", "password1", nil},
		{"wrong password", "a@b.com", "nope", ErrInvalidCredentials},
		{"unknown email", "x@b.com", "password1", ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := auth.SignIn(ctx, tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr == nil && sess.User.ID != created.User.ID {
				t.Fatalf("expected user %s, got %s", created.User.ID, sess.User.ID)
			}
		})
	}
}

func TestPasswordAuth_SignOutRevokesToken(t *testing.T) {
	auth, _ := newTestAuth()
	ctx := context.Background()
	sess, _ := auth.SignUp(ctx, "a@b.com", "password1")

	if err := auth.SignOut(ctx, sess.AccessToken); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	current, err := auth.CurrentSession(ctx, sess.AccessToken)
	if err != nil || current != nil {
		t.Fatalf("expected no session after sign out, got %+v (%v)", current, err)
	}

	if err := auth.SignOut(ctx, "garbage"); err != nil {
		t.Fatalf("signing out an invalid token should succeed, got %v", err)
	}
}

func TestPasswordAuth_CurrentSessionRejectsBadTokens(t *testing.T) {
	auth, _ := newTestAuth()
	ctx := context.Background()
	sess, _ := auth.SignUp(ctx, "a@b.com", "password1")

	other := NewPasswordAuth(NewMemoryStore(), NewMemoryRevocations(), "another-secret-entirely-different", time.Hour, "morsel-test")
	expired := NewPasswordAuth(NewMemoryStore(), NewMemoryRevocations(), "test-secret-with-enough-length!!", time.Hour, "morsel-test")
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	tests := []struct {
		name  string
		auth  *PasswordAuth
		token string
	}{
		{"empty", auth, ""},
		{"malformed", auth, "not.a.jwt"},
		{"wrong secret", other, sess.AccessToken},
		{"expired", expired, sess.AccessToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, err := tt.auth.CurrentSession(ctx, tt.token)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if current != nil {
				t.Fatalf("expected no session, got %+v", current)
			}
		})
	}
}

func TestPasswordAuth_CurrentSessionCheckFailure(t *testing.T) {
	store := NewMemoryStore()
	boom := errors.New("redis down")
	auth := NewPasswordAuth(store, failingRevocations{err: boom}, "test-secret-with-enough-length!!", time.Hour, "morsel-test")
	ctx := context.Background()

	sess, err := auth.SignUp(ctx, "a@b.com", "password1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = auth.CurrentSession(ctx, sess.AccessToken)
	if !errors.Is(err, boom) {
		t.Fatalf("expected revocation error, got %v", err)
	}
}

func TestMemoryRevocations_Expire(t *testing.T) {
	r := NewMemoryRevocations()
	now := time.Now()
	r.now = func() time.Time { return now }
	ctx := context.Background()

	_ = r.Revoke(ctx, "jti", now.Add(time.Minute))
	if revoked, _ := r.IsRevoked(ctx, "jti"); !revoked {
		t.Fatal("expected token to be revoked")
	}

	r.now = func() time.Time { return now.Add(2 * time.Minute) }
	if revoked, _ := r.IsRevoked(ctx, "jti"); revoked {
		t.Fatal("expected revocation to lapse")
	}
}
