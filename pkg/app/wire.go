package app

import (
	"fmt"

	"github.com/morsel-app/morsel-restaurant/pkg/appstate"
	"github.com/morsel-app/morsel-restaurant/pkg/auth"
	"github.com/morsel-app/morsel-restaurant/pkg/backend"
	"github.com/morsel-app/morsel-restaurant/pkg/cache"
	"github.com/morsel-app/morsel-restaurant/pkg/config"
	"github.com/morsel-app/morsel-restaurant/pkg/database"
	"github.com/morsel-app/morsel-restaurant/pkg/idempotency"
	"github.com/morsel-app/morsel-restaurant/pkg/lock"
	"github.com/morsel-app/morsel-restaurant/pkg/logger"
	"github.com/morsel-app/morsel-restaurant/pkg/telemetry"
)

// New builds the Application shared by the API and the worker: the Postgres
// backend, the password auth provider and the Redis-backed state stores.
// EventBus, TemporalClient and SessionStore are process specific and left
// for the caller. Call after telemetry.Setup so metrics reach its provider.
func New(cfg *config.Config, db *database.Database, redisClient *cache.RedisClient, log logger.Logger) (*Application, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	metrics, err := telemetry.NewPublishMetrics(nil)
	if err != nil {
		return nil, fmt.Errorf("publish metrics: %w", err)
	}

	store := backend.NewPostgresStore(db)
	rdb := redisClient.Client()

	return &Application{
		Config:       cfg,
		Db:           db,
		Logger:       log,
		Redis:        redisClient,
		Store:        store,
		Auth:         backend.NewPasswordAuth(store, cache.NewTokenRevocations(redisClient), cfg.TokenSecret, cfg.TokenTTL, cfg.ServiceName),
		AppState:     appstate.NewRedis(rdb),
		Locker:       lock.NewRedis(rdb, log),
		Idempotency:  idempotency.NewRedis(rdb),
		Profiles:     auth.NewStoreProfiles(store),
		ListingCache: cache.NewListingCache(redisClient),
		Metrics:      metrics,
		Location:     loc,
	}, nil
}
