package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/sessions"

	"github.com/morsel-app/morsel-restaurant/pkg/app"
	"github.com/morsel-app/morsel-restaurant/pkg/appstate"
	"github.com/morsel-app/morsel-restaurant/pkg/auth"
	"github.com/morsel-app/morsel-restaurant/pkg/backend"
	"github.com/morsel-app/morsel-restaurant/pkg/config"
	"github.com/morsel-app/morsel-restaurant/pkg/httpx"
	"github.com/morsel-app/morsel-restaurant/pkg/idempotency"
	"github.com/morsel-app/morsel-restaurant/pkg/lock"
	"github.com/morsel-app/morsel-restaurant/pkg/logger"
)

func newTestHandler(t *testing.T, env string, probes []httpx.Probe) http.Handler {
	t.Helper()
	cfg := &config.Config{LogLevel: "error", Environment: env, CORSAllowedOrigins: "*", ServiceName: "morsel-test"}
	ds := backend.NewMemoryStore()
	a := &app.Application{
		Config:       cfg,
		Logger:       logger.New(cfg),
		SessionStore: sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef")),
		Store:        ds,
		Auth:         backend.NewPasswordAuth(ds, backend.NewMemoryRevocations(), "test-secret", time.Hour, "morsel-test"),
		AppState:     appstate.NewMemory(),
		Locker:       lock.NewMemory(),
		Idempotency:  idempotency.NewMemory(),
		Profiles:     auth.NewStoreProfiles(ds),
		Location:     time.UTC,
	}
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("go_goroutines 1\n"))
	})
	return newHandler(cfg, a.Logger, a, metrics, probes)
}

func ok(context.Context) error { return nil }

func TestNewHandler_Routes(t *testing.T) {
	probes := []httpx.Probe{{Name: "database", Checker: httpx.CheckerFunc(ok)}}

	tests := []struct {
		name string
		env  string
		path string
		want int
	}{
		{"health", config.EnvDevelopment, "/health", http.StatusOK},
		{"livez", config.EnvDevelopment, "/livez", http.StatusOK},
		{"metrics", config.EnvDevelopment, "/metrics", http.StatusOK},
		{"session without cookie", config.EnvDevelopment, "/api/auth/session", http.StatusOK},
		{"listings need auth", config.EnvDevelopment, "/api/listings", http.StatusUnauthorized},
		{"tags are public", config.EnvDevelopment, "/api/tags", http.StatusOK},
		{"swagger hidden in production", config.EnvProduction, "/swagger/index.html", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, tt.env, probes)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, http.NoBody))
			if rr.Code != tt.want {
				t.Fatalf("GET %s: got %d, want %d (%s)", tt.path, rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestHealthProbes_TemporalDisabled(t *testing.T) {
	db := httpx.CheckerFunc(ok)
	down := httpx.CheckerFunc(func(context.Context) error { return errors.New("connection refused") })

	h := newTestHandler(t, config.EnvDevelopment, healthProbes(db, down, db, nil))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 with redis down, got %d", rr.Code)
	}
	var body httpx.HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Checks["redis"] != httpx.CheckUnreachable {
		t.Errorf("redis: got %q", body.Checks["redis"])
	}
	if body.Checks["temporal"] != httpx.CheckDisabled {
		t.Errorf("temporal: got %q", body.Checks["temporal"])
	}
}
