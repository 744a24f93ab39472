package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/morsel-app/morsel-restaurant/pkg/config"
	"github.com/morsel-app/morsel-restaurant/pkg/logger"
)

type listingPublished struct {
	ListingID  uuid.UUID `json:"listing_id"`
	LocationID uuid.UUID `json:"location_id"`
}

func setupTracer(t *testing.T) {
	t.Helper()
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
}

func nopLogger() logger.Logger {
	return logger.New(&config.Config{LogLevel: "error"})
}

func newTestBus(t *testing.T) (*EventBus, *gochannel.GoChannel) {
	t.Helper()
	gc := gochannel.NewGoChannel(gochannel.Config{Persistent: true}, watermill.NopLogger{})
	t.Cleanup(func() { _ = gc.Close() })
	return &EventBus{publisher: gc, poison: gc, subscriber: gc, log: nopLogger()}, gc
}

func TestEnvelope(t *testing.T) {
	eventID := uuid.New()
	evt := listingPublished{ListingID: uuid.New(), LocationID: uuid.New()}

	msg, err := NewMessage(eventID, 2, evt)
	if err != nil {
		t.Fatalf("new message: %v", err)
	}
	if msg.UUID != eventID.String() {
		t.Errorf("message id %q should be the event id", msg.UUID)
	}
	if Version(msg) != 2 {
		t.Errorf("version: got %d", Version(msg))
	}

	got, err := Decode[listingPublished](msg)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != evt {
		t.Errorf("decoded %+v, want %+v", got, evt)
	}

	bad := message.NewMessage(watermill.NewUUID(), []byte("{not json"))
	if _, err := Decode[listingPublished](bad); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if Version(bad) != 0 {
		t.Errorf("missing version should read as 0")
	}
}

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   bool
	}{
		{"success on first attempt", 0, nil, 1, false},
		{"success after retries", 2, errors.New("redis down"), 3, false},
		{"exhausts attempts", 10, errors.New("redis down"), maxAttempts, true},
		{"malformed is not retried", 10, ErrMalformed, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			h := retry(maxAttempts, time.Millisecond, nopLogger())(func(*message.Message) ([]*message.Message, error) {
				calls++
				if calls <= tt.failures {
					return nil, tt.err
				}
				return nil, nil
			})
			_, err := h(message.NewMessage(watermill.NewUUID(), nil))
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr = %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("expected %d calls, got %d", tt.wantCalls, calls)
			}
		})
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	h := retry(maxAttempts, time.Second, nopLogger())(func(*message.Message) ([]*message.Message, error) {
		calls++
		return nil, errors.New("redis down")
	})
	msg := message.NewMessage(watermill.NewUUID(), nil)
	msg.SetContext(ctx)

	if _, err := h(msg); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call before cancel, got %d", calls)
	}
}

func TestPublish_CopiesTraceAndRequestID(t *testing.T) {
	setupTracer(t)
	bus, gc := newTestBus(t)

	msgs, err := gc.Subscribe(context.Background(), "listing.published")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	ctx, span := otel.Tracer("test").Start(context.Background(), "publish")
	defer span.End()
	ctx = context.WithValue(ctx, chimw.RequestIDKey, "host/req-000001")

	msg, _ := NewMessage(uuid.New(), 1, listingPublished{ListingID: uuid.New()})
	if err := bus.Publish(ctx, "listing.published", msg); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case got := <-msgs:
		got.Ack()
		if got.Metadata.Get("traceparent") == "" {
			t.Error("expected traceparent metadata")
		}
		if cid := middleware.MessageCorrelationID(got); cid != "host/req-000001" {
			t.Errorf("correlation id: got %q", cid)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("message not delivered")
	}
}

func TestTraceContext_RestoresPublisherTrace(t *testing.T) {
	setupTracer(t)

	ctx, span := otel.Tracer("test").Start(context.Background(), "publish")
	defer span.End()
	want := span.SpanContext().TraceID()

	msg := message.NewMessage(watermill.NewUUID(), nil)
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for k, v := range carrier {
		msg.Metadata.Set(k, v)
	}

	var got trace.TraceID
	h := traceContext(func(m *message.Message) ([]*message.Message, error) {
		got = trace.SpanFromContext(m.Context()).SpanContext().TraceID()
		return nil, nil
	})
	if _, err := h(msg); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if got != want {
		t.Errorf("trace id: got %s, want %s", got, want)
	}
}

func TestRouter_HandlesAndPoisons(t *testing.T) {
	bus, gc := newTestBus(t)

	handled := make(chan uuid.UUID, 1)
	if err := bus.Handle("listing.published", func(_ context.Context, msg *message.Message) error {
		evt, err := Decode[listingPublished](msg)
		if err != nil {
			return err
		}
		handled <- evt.LocationID
		return nil
	}); err != nil {
		t.Fatalf("handle: %v", err)
	}

	poisoned, err := gc.Subscribe(context.Background(), PoisonTopic)
	if err != nil {
		t.Fatalf("subscribe poison: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = bus.Run(ctx) }()
	<-bus.router.Running()

	loc := uuid.New()
	good, _ := NewMessage(uuid.New(), 1, listingPublished{LocationID: loc})
	bad := message.NewMessage(watermill.NewUUID(), []byte("{not json"))
	if err := bus.Publish(context.Background(), "listing.published", good, bad); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case got := <-handled:
		if got != loc {
			t.Errorf("handled location %s, want %s", got, loc)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("good message not handled")
	}

	select {
	case m := <-poisoned:
		m.Ack()
		if m.UUID != bad.UUID {
			t.Errorf("poisoned %s, want %s", m.UUID, bad.UUID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("malformed message not sent to the poison topic")
	}
}

func TestRun_NoHandlers(t *testing.T) {
	bus, _ := newTestBus(t)
	if err := bus.Run(context.Background()); err != nil {
		t.Fatalf("expected immediate nil, got %v", err)
	}
}

func TestStartForwarder_NonForwarderMode(t *testing.T) {
	bus := &EventBus{useForwarder: false}
	if err := bus.StartForwarder(context.Background()); err == nil {
		t.Fatal("expected error for non-forwarder EventBus")
	}
}
