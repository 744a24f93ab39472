package app

import (
	"time"

	"github.com/gorilla/sessions"

	"github.com/morsel-app/morsel-restaurant/pkg/appstate"
	"github.com/morsel-app/morsel-restaurant/pkg/auth"
	"github.com/morsel-app/morsel-restaurant/pkg/backend"
	"github.com/morsel-app/morsel-restaurant/pkg/cache"
	"github.com/morsel-app/morsel-restaurant/pkg/config"
	"github.com/morsel-app/morsel-restaurant/pkg/database"
	"github.com/morsel-app/morsel-restaurant/pkg/events"
	"github.com/morsel-app/morsel-restaurant/pkg/idempotency"
	"github.com/morsel-app/morsel-restaurant/pkg/lock"
	"github.com/morsel-app/morsel-restaurant/pkg/logger"
	"github.com/morsel-app/morsel-restaurant/pkg/telemetry"
	"github.com/morsel-app/morsel-restaurant/pkg/workflows"
)

// Application holds shared infrastructure dependencies for all services.
// Pass to all service XRoutes calls during server initialization.
//
// Logging: app.Logger is backed by a trace-aware handler; use slog's context methods
// and trace_id, span_id, and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "publishing listing", "profile_id", id)
//	app.Logger.ErrorContext(ctx, "failed to save", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Config         *config.Config
	Db             *database.Database
	Logger         logger.Logger
	EventBus       *events.EventBus
	Redis          *cache.RedisClient
	TemporalClient *workflows.TemporalClient // nil unless TEMPORAL_ENABLED
	SessionStore   sessions.Store            // Redis-backed session store; nil in worker process

	// Backend facade: row-level data access and the auth provider.
	Store backend.DataStore
	Auth  backend.AuthProvider

	AppState     appstate.Store
	Locker       lock.Locker
	Idempotency  idempotency.Store
	Profiles     auth.ProfileResolver
	ListingCache *cache.ListingCache
	Metrics      *telemetry.PublishMetrics
	Location     *time.Location
}
