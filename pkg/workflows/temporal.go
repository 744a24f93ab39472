// Package workflows connects the processes to Temporal. Workflow and
// activity definitions live with the service that owns them.
package workflows

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	"go.temporal.io/sdk/interceptor"
	temporallog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	"github.com/morsel-app/morsel-restaurant/pkg/config"
	"github.com/morsel-app/morsel-restaurant/pkg/logger"
)

const workerStopTimeout = 15 * time.Second

// TemporalClient is the process-wide Temporal connection plus the task
// queue every listing workflow runs on.
type TemporalClient struct {
	Client        client.Client
	Namespace     string
	TaskQueue     string
	maxActivities int
	log           logger.Logger
}

// NewTemporalClient dials cfg.TemporalHostPort with tracing on every
// workflow and activity call. Call Close on shutdown.
func NewTemporalClient(ctx context.Context, cfg *config.Config, log logger.Logger) (*TemporalClient, error) {
	tracing, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: otel.Tracer("github.com/morsel-app/morsel-restaurant/pkg/workflows"),
	})
	if err != nil {
		return nil, fmt.Errorf("temporal tracing interceptor: %w", err)
	}

	log = log.With("component", "temporal")
	c, err := client.DialContext(ctx, client.Options{
		HostPort:     cfg.TemporalHostPort,
		Namespace:    cfg.TemporalNamespace,
		Identity:     identity(cfg.ServiceName),
		Logger:       temporalLogger{log: log},
		Interceptors: []interceptor.ClientInterceptor{tracing},
	})
	if err != nil {
		return nil, fmt.Errorf("dial temporal at %s: %w", cfg.TemporalHostPort, err)
	}

	log.Info("temporal connected",
		"host_port", cfg.TemporalHostPort,
		"namespace", cfg.TemporalNamespace,
		"task_queue", cfg.TemporalTaskQueue,
	)
	return &TemporalClient{
		Client:        c,
		Namespace:     cfg.TemporalNamespace,
		TaskQueue:     cfg.TemporalTaskQueue,
		maxActivities: cfg.TemporalMaxActivities,
		log:           log,
	}, nil
}

// NewWorker returns a worker polling the listing task queue.
func (tc *TemporalClient) NewWorker() worker.Worker {
	return worker.New(tc.Client, tc.TaskQueue, workerOptions(tc.maxActivities))
}

func workerOptions(maxActivities int) worker.Options {
	if maxActivities <= 0 {
		maxActivities = 10
	}
	return worker.Options{
		MaxConcurrentActivityExecutionSize: maxActivities,
		WorkerStopTimeout:                  workerStopTimeout,
	}
}

// Ping asks the frontend service for its health.
func (tc *TemporalClient) Ping(ctx context.Context) error {
	if _, err := tc.Client.CheckHealth(ctx, &client.CheckHealthRequest{}); err != nil {
		return fmt.Errorf("temporal health: %w", err)
	}
	return nil
}

func (tc *TemporalClient) Close() {
	tc.Client.Close()
	tc.log.Info("temporal connection closed")
}

func identity(service string) string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	return fmt.Sprintf("%s@%s@%d", service, host, os.Getpid())
}

// temporalLogger routes SDK logs through logger.Logger. The SDK is chatty at
// info, so its info records go out at debug.
type temporalLogger struct {
	log logger.Logger
}

var (
	_ temporallog.Logger     = temporalLogger{}
	_ temporallog.WithLogger = temporalLogger{}
)

func (l temporalLogger) Debug(msg string, keyvals ...any) { l.log.Debug(msg, keyvals...) }
func (l temporalLogger) Info(msg string, keyvals ...any)  { l.log.Debug(msg, keyvals...) }
func (l temporalLogger) Warn(msg string, keyvals ...any)  { l.log.Warn(msg, keyvals...) }
func (l temporalLogger) Error(msg string, keyvals ...any) { l.log.Error(msg, keyvals...) }

func (l temporalLogger) With(keyvals ...any) temporallog.Logger {
	return temporalLogger{log: l.log.With(keyvals...)}
}
