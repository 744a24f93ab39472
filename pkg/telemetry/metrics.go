package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/morsel-app/morsel-restaurant"

// PublishMetrics records listing publish outcomes through the global OTel meter.
// A nil *PublishMetrics records nothing.
type PublishMetrics struct {
	published metric.Int64Counter
	failed    metric.Int64Counter
	duration  metric.Float64Histogram
}

// NewPublishMetrics registers the publish instruments on mp. A nil mp uses the
// global provider, so call it after Setup.
func NewPublishMetrics(mp metric.MeterProvider) (*PublishMetrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(meterName)
	published, err := meter.Int64Counter("listing_publish_total",
		metric.WithDescription("Listings published successfully"))
	if err != nil {
		return nil, err
	}
	failed, err := meter.Int64Counter("listing_publish_failures_total",
		metric.WithDescription("Listing publishes that failed, by step"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("listing_publish_duration_seconds",
		metric.WithDescription("Wall time of the publish workflow"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	return &PublishMetrics{published: published, failed: failed, duration: duration}, nil
}

// Succeeded records one successful publish.
func (m *PublishMetrics) Succeeded(ctx context.Context, took time.Duration) {
	if m == nil {
		return
	}
	m.published.Add(ctx, 1)
	m.duration.Record(ctx, took.Seconds(), metric.WithAttributes(attribute.String("outcome", "success")))
}

// Failed records one publish that stopped at step.
func (m *PublishMetrics) Failed(ctx context.Context, step string, took time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("step", step))
	m.failed.Add(ctx, 1, attrs)
	m.duration.Record(ctx, took.Seconds(), metric.WithAttributes(attribute.String("outcome", "failure")))
}
