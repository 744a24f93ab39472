package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/morsel-app/morsel-restaurant/pkg/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		ServiceName:    "morsel-test",
		ServiceVersion: "test",
		Environment:    config.EnvTesting,
		TraceSampling:  1,
	}
}

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.Contains(ct, "text/plain") {
		t.Errorf("expected text/plain content-type, got %q", ct)
	}
	return rr.Body.String()
}

func TestSetup_NoOtelEndpoint(t *testing.T) {
	p, err := Setup(context.Background(), baseConfig(), RoleAPI)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.MetricsHandler == nil || p.Tracer == nil || p.Meter == nil {
		t.Fatalf("incomplete providers: %+v", p)
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_InstallsTraceContextPropagator(t *testing.T) {
	p, err := Setup(context.Background(), baseConfig(), RoleWorker)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer p.Shutdown(context.Background()) //nolint:errcheck

	ctx, span := otel.Tracer("test").Start(context.Background(), "publish")
	defer span.End()

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	if carrier.Get("traceparent") == "" {
		t.Fatal("expected traceparent to be injected")
	}
}

func TestSetup_ScrapesPublishMetrics(t *testing.T) {
	p, err := Setup(context.Background(), baseConfig(), RoleAPI)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer p.Shutdown(context.Background()) //nolint:errcheck

	m, err := NewPublishMetrics(p.Meter)
	if err != nil {
		t.Fatalf("new publish metrics: %v", err)
	}
	m.Succeeded(context.Background(), 120*time.Millisecond)
	m.Failed(context.Background(), "listing", 40*time.Millisecond)

	body := scrape(t, p.MetricsHandler)
	for _, want := range []string{"listing_publish_total", "listing_publish_failures_total", "go_goroutines"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in scrape output", want)
		}
	}
}
