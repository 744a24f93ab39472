package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	_ "github.com/morsel-app/morsel-restaurant/docs/swagger"
	"github.com/morsel-app/morsel-restaurant/pkg/app"
	"github.com/morsel-app/morsel-restaurant/pkg/auth"
	"github.com/morsel-app/morsel-restaurant/pkg/cache"
	"github.com/morsel-app/morsel-restaurant/pkg/config"
	"github.com/morsel-app/morsel-restaurant/pkg/database"
	"github.com/morsel-app/morsel-restaurant/pkg/events"
	"github.com/morsel-app/morsel-restaurant/pkg/httpx"
	"github.com/morsel-app/morsel-restaurant/pkg/logger"
	"github.com/morsel-app/morsel-restaurant/pkg/telemetry"
	"github.com/morsel-app/morsel-restaurant/pkg/workflows"
	accountApi "github.com/morsel-app/morsel-restaurant/services/account/application/api"
	listingApi "github.com/morsel-app/morsel-restaurant/services/listing/application/api"
)

// @title						Morsel Restaurant API
// @version					1.0
// @description				Restaurant operator API: sign in, set up a restaurant and location, publish surplus food listings.
// @contact.name				Morsel Support
// @contact.email				support@morsel.app
// @license.name				MIT
// @license.url				https://opensource.org/licenses/MIT
// @host						localhost:8080
// @BasePath					/api
// @schemes					http https
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
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

	if err := run(ctx, cfg, log); err != nil {
		log.Error("api stopped with error", "error", err)
		stop()
		os.Exit(1) //nolint:gocritic
	}
	log.Info("api stopped")
}

// run wires the process and serves until ctx is cancelled. Deferred
// closers run in reverse start order once the server has drained.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	otelProviders, err := telemetry.Setup(ctx, cfg, telemetry.RoleAPI)
	if err != nil {
		return fmt.Errorf("setup otel: %w", err)
	}
	defer otelProviders.Shutdown(context.WithoutCancel(ctx)) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg, telemetry.RoleAPI); err != nil {
		log.Warn("sentry disabled", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close() //nolint:errcheck

	// The API only publishes; the forwarder moves outbox rows to their topics.
	eventBus, err := events.NewEventBusWithForwarder(cfg, log)
	if err != nil {
		return fmt.Errorf("setup event bus: %w", err)
	}
	defer eventBus.Close() //nolint:errcheck
	if err := eventBus.StartForwarder(ctx); err != nil {
		return fmt.Errorf("start event forwarder: %w", err)
	}

	a, err := app.New(cfg, pool, redisClient, log)
	if err != nil {
		return fmt.Errorf("build application: %w", err)
	}
	a.EventBus = eventBus
	a.SessionStore = auth.NewSessionStore(redisClient.Client(), auth.SessionConfig{
		AuthKey:       []byte(cfg.SessionAuthKey),
		EncryptionKey: []byte(cfg.SessionEncryptionKey),
		Secure:        cfg.Environment == config.EnvProduction,
		MaxAge:        cfg.TokenTTL,
	})

	if cfg.TemporalEnabled {
		tc, err := workflows.NewTemporalClient(ctx, cfg, log)
		if err != nil {
			return fmt.Errorf("connect temporal: %w", err)
		}
		defer tc.Close()
		a.TemporalClient = tc
	}

	handler := newHandler(cfg, log, a, otelProviders.MetricsHandler,
		healthProbes(pool, redisClient, eventBus, a.TemporalClient))
	srv := httpx.NewServer(cfg.HTTPAddr, handler, cfg.HandlerTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", "timeout", shutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

const shutdownTimeout = 30 * time.Second

// newHandler builds the root router: probes, metrics and docs at the top
// level, service routes under /api.
func newHandler(cfg *config.Config, log logger.Logger, a *app.Application, metrics http.Handler, probes []httpx.Probe) http.Handler {
	r := httpx.NewRouter(
		httpx.ServerConfig{
			ServiceName:        cfg.ServiceName,
			IsDevelopment:      cfg.Environment == config.EnvDevelopment,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
			RequestsPerMinute:  cfg.RequestsPerMinute,
			MaxBodyBytes:       cfg.MaxBodyBytes,
			HandlerTimeout:     cfg.HandlerTimeout,
		},
		logger.Middleware(log),
		logger.Recovery(log),
		telemetry.SentryMiddleware(),
		otelhttp.NewMiddleware(cfg.ServiceName),
	)

	r.Get("/health", httpx.HealthHandler(probes...))
	r.Get("/livez", httpx.LiveHandler)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}
	if cfg.Environment != config.EnvProduction {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}
	r.Route("/api", func(r chi.Router) {
		accountApi.AccountRoutes(r, a)
		listingApi.ListingRoutes(r, a)
	})
	return r
}

// healthProbes lists the dependencies reported by /health. Temporal only
// backs the optional publish path, so losing it degrades rather than fails.
func healthProbes(db, redis, bus httpx.HealthChecker, temporal *workflows.TemporalClient) []httpx.Probe {
	probes := []httpx.Probe{
		{Name: "database", Checker: db},
		{Name: "redis", Checker: redis},
		{Name: "event_bus", Checker: bus},
		{Name: "temporal", Optional: true},
	}
	if temporal != nil {
		probes[3].Checker = temporal
	}
	return probes
}
