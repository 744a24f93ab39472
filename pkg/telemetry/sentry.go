package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/morsel-app/morsel-restaurant/pkg/config"
)

// SetupSentry initializes the Sentry SDK. No-ops if DSN is empty.
func SetupSentry(cfg *config.Config, role string) error {
	if cfg.SentryDSN == "" {
		return nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          cfg.ServiceName + "@" + cfg.ServiceVersion,
		ServerName:       cfg.ServiceName + "-" + role,
		TracesSampleRate: cfg.TraceSampling,
		SendDefaultPII:   false,
	}); err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	sentry.ConfigureScope(func(s *sentry.Scope) {
		s.SetTag("role", role)
	})
	return nil
}

// SentryFlush flushes buffered events before process exit.
func SentryFlush() {
	sentry.Flush(2 * time.Second)
}

// SentryMiddleware captures panics and re-panics so the outer Recovery
// middleware still answers 500.
func SentryMiddleware() func(http.Handler) http.Handler {
	h := sentryhttp.New(sentryhttp.Options{Repanic: true, Timeout: 2 * time.Second})
	return h.Handle
}

// hub returns the request-scoped hub installed by SentryMiddleware, falling
// back to the process hub for background work.
func hub(ctx context.Context) *sentry.Hub {
	if h := sentry.GetHubFromContext(ctx); h != nil {
		return h
	}
	return sentry.CurrentHub()
}

// SetUser tags subsequent reports of this request with the signed-in user
// and the profile acting on the restaurant.
func SetUser(ctx context.Context, userID, profileID string) {
	hub(ctx).ConfigureScope(func(s *sentry.Scope) {
		s.SetUser(sentry.User{ID: userID})
		s.SetTag("profile_id", profileID)
	})
}

// ReportError sends err to Sentry with the given tags. Safe to call when
// Sentry is not configured.
func ReportError(ctx context.Context, err error, tags map[string]string) {
	if err == nil {
		return
	}
	hub(ctx).WithScope(func(s *sentry.Scope) {
		s.SetTags(tags)
		hub(ctx).CaptureException(err)
	})
}
