package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/morsel-app/morsel-restaurant/pkg/app"
	"github.com/morsel-app/morsel-restaurant/pkg/cache"
	"github.com/morsel-app/morsel-restaurant/pkg/config"
	"github.com/morsel-app/morsel-restaurant/pkg/database"
	"github.com/morsel-app/morsel-restaurant/pkg/events"
	"github.com/morsel-app/morsel-restaurant/pkg/logger"
	"github.com/morsel-app/morsel-restaurant/pkg/telemetry"
	"github.com/morsel-app/morsel-restaurant/pkg/workflows"
	appsvcs "github.com/morsel-app/morsel-restaurant/services/listing/application/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelProviders, err := telemetry.Setup(ctx, cfg, telemetry.RoleWorker)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelProviders.Shutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg, telemetry.RoleWorker); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()
	log.Info("database pool connected")

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	appConfig, err := app.New(cfg, pool, redisClient, log)
	if err != nil {
		log.Error("failed to build application", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	appConfig.EventBus = eventBus

	if cfg.TemporalEnabled {
		temporalClient, err := workflows.NewTemporalClient(ctx, cfg, log)
		if err != nil {
			log.Error("failed to initialize temporal client", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer temporalClient.Close()
		appConfig.TemporalClient = temporalClient
	}

	svcs := appsvcs.New(appConfig)

	if err := registerSubscribers(appConfig, svcs.Query); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return appConfig.EventBus.Run(gctx)
	})
	g.Go(func() error {
		return runExpiryScheduler(gctx, appConfig, svcs.Query)
	})
	if appConfig.TemporalClient != nil {
		g.Go(func() error {
			return runTemporalWorker(gctx, appConfig)
		})
	}

	log.Info("worker started")
	if err := g.Wait(); err != nil {
		log.Error("worker error", "error", err)
	}

	// EventBus.Close (deferred) gives in-flight handlers the router close timeout.
	log.Info("worker stopped")
}
