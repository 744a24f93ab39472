// Package events is the Postgres-backed event bus behind listing
// notifications, built on Watermill's SQL transport.
//
// The API publishes through the forwarder so an event survives a crash after
// Publish returns. The worker consumes through a Router: every instance
// shares one consumer group, handlers are retried with backoff and messages
// that keep failing land on PoisonTopic instead of blocking the topic.
// Trace context and the request id travel in message metadata.
package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	chimw "github.com/go-chi/chi/v5/middleware"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/morsel-app/morsel-restaurant/pkg/config"
	"github.com/morsel-app/morsel-restaurant/pkg/logger"
)

const (
	maxAttempts     = 3
	retryBaseDelay  = time.Second
	shutdownTimeout = 30 * time.Second
	forwarderTopic  = "morsel.outbox"
	forwarderGroup  = "morsel-forwarder"
)

// Handler processes one message. ctx carries the publisher's trace and the
// event's log attributes. Returning an error triggers a retry.
type Handler func(ctx context.Context, msg *message.Message) error

// EventBus publishes and consumes domain events over Postgres.
type EventBus struct {
	publisher    message.Publisher // direct or forwarder-decorated
	poison       message.Publisher
	subscriber   message.Subscriber
	router       *message.Router // created by the first Handle call
	fwd          *forwarder.Forwarder
	db           *sql.DB
	log          logger.Logger
	wg           sync.WaitGroup
	useForwarder bool
}

// NewEventBus opens cfg.DatabaseURL and publishes directly to topic tables.
// Instances sharing cfg.ServiceName form one consumer group, so each message
// is handled once across workers.
func NewEventBus(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return newEventBus(cfg, log, false)
}

// NewEventBusWithForwarder publishes into the outbox topic; StartForwarder
// moves messages on to their real topic.
func NewEventBusWithForwarder(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return newEventBus(cfg, log, true)
}

func newEventBus(cfg *config.Config, log logger.Logger, useForwarder bool) (*EventBus, error) {
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("events: open db: %w", err)
	}
	wlog := &slogAdapter{log: log}

	pub, err := newSQLPublisher(db, wlog)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	sub, err := newSQLSubscriber(db, cfg.ServiceName+"-consumer", wlog)
	if err != nil {
		_ = pub.Close()
		_ = db.Close()
		return nil, err
	}

	bus := &EventBus{
		publisher:    pub,
		poison:       pub,
		subscriber:   sub,
		db:           db,
		log:          log,
		useForwarder: useForwarder,
	}
	if useForwarder {
		bus.publisher = forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: forwarderTopic})
	}
	return bus, nil
}

func newSQLPublisher(db *sql.DB, wlog watermill.LoggerAdapter) (*watermillsql.Publisher, error) {
	pub, err := watermillsql.NewPublisher(db, watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: true,
	}, wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}
	return pub, nil
}

func newSQLSubscriber(db *sql.DB, group string, wlog watermill.LoggerAdapter) (*watermillsql.Subscriber, error) {
	sub, err := watermillsql.NewSubscriber(db, watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    group,
	}, wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new subscriber %s: %w", group, err)
	}
	return sub, nil
}

// StartForwarder moves outbox messages to their topics in the background
// and returns once the forwarder is running. Call once, on a bus built by
// NewEventBusWithForwarder.
func (q *EventBus) StartForwarder(ctx context.Context) error {
	switch {
	case !q.useForwarder:
		return errors.New("events: bus was not built with a forwarder")
	case q.fwd != nil:
		return errors.New("events: forwarder already running")
	}
	wlog := &slogAdapter{log: q.log.With("component", "forwarder")}

	in, err := newSQLSubscriber(q.db, forwarderGroup, wlog)
	if err != nil {
		return err
	}
	out, err := newSQLPublisher(q.db, wlog)
	if err != nil {
		_ = in.Close()
		return err
	}
	fwd, err := forwarder.NewForwarder(in, out, wlog, forwarder.Config{ForwarderTopic: forwarderTopic})
	if err != nil {
		_ = out.Close()
		_ = in.Close()
		return fmt.Errorf("events: new forwarder: %w", err)
	}
	q.fwd = fwd

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		if err := fwd.Run(ctx); err != nil {
			q.log.ErrorContext(ctx, "events: forwarder stopped", "error", err)
		}
	}()

	select {
	case <-fwd.Running():
		q.log.InfoContext(ctx, "events: forwarder running", "outbox", forwarderTopic)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: waiting for forwarder: %w", ctx.Err())
	}
}

// Publish sends msgs to topic. The trace context of ctx and the request id,
// as correlation id, are copied into each message's metadata.
func (q *EventBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	requestID := chimw.GetReqID(ctx)
	for _, msg := range msgs {
		for k, v := range carrier {
			msg.Metadata.Set(k, v)
		}
		if requestID != "" {
			middleware.SetCorrelationID(requestID, msg)
		}
	}
	if err := q.publisher.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// Handle registers h for topic on the bus router. Call before Run.
func (q *EventBus) Handle(topic string, h Handler) error {
	if q.router == nil {
		r, err := q.newRouter()
		if err != nil {
			return err
		}
		q.router = r
	}
	q.router.AddNoPublisherHandler(topic+".handler", topic, q.subscriber, func(msg *message.Message) error {
		return h(msg.Context(), msg)
	})
	return nil
}

// newRouter builds the consuming router. Middleware runs outermost first:
// trace restore, poison queue, retry with backoff, panic recovery.
func (q *EventBus) newRouter() (*message.Router, error) {
	r, err := message.NewRouter(message.RouterConfig{CloseTimeout: shutdownTimeout}, &slogAdapter{log: q.log})
	if err != nil {
		return nil, fmt.Errorf("events: new router: %w", err)
	}
	poison, err := middleware.PoisonQueue(q.poison, PoisonTopic)
	if err != nil {
		return nil, fmt.Errorf("events: poison queue: %w", err)
	}
	r.AddMiddleware(
		traceContext,
		poison,
		retry(maxAttempts, retryBaseDelay, q.log),
		middleware.Recoverer,
	)
	return r, nil
}

// Run consumes until ctx is cancelled. It returns immediately when no
// handler was registered.
func (q *EventBus) Run(ctx context.Context) error {
	if q.router == nil {
		return nil
	}
	if err := q.router.Run(ctx); err != nil {
		return fmt.Errorf("events: router: %w", err)
	}
	return nil
}

// Ping checks the EventBus database connection health.
func (q *EventBus) Ping(ctx context.Context) error {
	if err := q.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close drains the router and the forwarder, then releases the Postgres
// handle. Every step runs even when an earlier one fails.
func (q *EventBus) Close() error {
	var errs []error
	if q.router != nil {
		errs = append(errs, q.router.Close())
	}
	errs = append(errs, q.subscriber.Close())
	if q.fwd != nil {
		errs = append(errs, q.fwd.Close())
		done := make(chan struct{})
		go func() {
			q.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(shutdownTimeout):
			q.log.Error("events: forwarder did not stop in time")
		}
	}
	errs = append(errs, q.publisher.Close(), q.db.Close())
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("events: close: %w", err)
	}
	return nil
}

// slogAdapter bridges logger.Logger to watermill.LoggerAdapter.
type slogAdapter struct{ log logger.Logger }

func (a *slogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error(msg, append(fieldsToArgs(fields), "error", err)...)
}
func (a *slogAdapter) Info(msg string, fields watermill.LogFields) {
	a.log.Info(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Debug(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Trace(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &slogAdapter{log: a.log.With(fieldsToArgs(fields)...)}
}

func fieldsToArgs(fields watermill.LogFields) []any {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
