package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/morsel-app/morsel-restaurant/pkg/logger"
)

const tracerName = "github.com/morsel-app/morsel-restaurant/pkg/events"

// traceContext restores the publisher's trace from message metadata, opens
// a consumer span and stamps topic, event and correlation ids on the
// handler's log records.
func traceContext(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		carrier := propagation.MapCarrier{}
		for k, v := range msg.Metadata {
			carrier[k] = v
		}
		ctx := otel.GetTextMapPropagator().Extract(msg.Context(), carrier)

		topic := message.SubscribeTopicFromCtx(msg.Context())
		ctx, span := otel.Tracer(tracerName).Start(ctx, "consume "+topic,
			trace.WithSpanKind(trace.SpanKindConsumer),
			trace.WithAttributes(
				attribute.String("messaging.system", "watermill"),
				attribute.String("messaging.destination.name", topic),
				attribute.String("messaging.message.id", msg.UUID),
			),
		)
		defer span.End()

		ctx = logger.WithAttrs(ctx, "topic", topic, "event_id", msg.UUID)
		if cid := middleware.MessageCorrelationID(msg); cid != "" {
			ctx = logger.WithAttrs(ctx, "correlation_id", cid)
		}
		msg.SetContext(ctx)

		out, err := h(msg)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return out, err
	}
}

// retry runs the handler up to attempts times, doubling the delay between
// tries. Malformed payloads are not retried.
func retry(attempts int, baseDelay time.Duration, log logger.Logger) message.HandlerMiddleware {
	return func(h message.HandlerFunc) message.HandlerFunc {
		return func(msg *message.Message) ([]*message.Message, error) {
			ctx := msg.Context()
			delay := baseDelay
			var err error
			for attempt := 1; attempt <= attempts; attempt++ {
				var out []*message.Message
				if out, err = h(msg); err == nil {
					return out, nil
				}
				if errors.Is(err, ErrMalformed) || attempt == attempts {
					break
				}
				log.WarnContext(ctx, "events: handler failed, retrying",
					"attempt", attempt,
					"max_attempts", attempts,
					"next_delay", delay,
					"error", err,
				)
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(delay):
				}
				delay *= 2
			}
			log.ErrorContext(ctx, "events: giving up on message", "error", err)
			return nil, fmt.Errorf("events: message %s: %w", msg.UUID, err)
		}
	}
}
