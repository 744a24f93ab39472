package httpx

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// HealthChecker is satisfied by any dependency that exposes a Ping method
// (database pool, Redis client, event bus, Temporal client).
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// CheckerFunc adapts a plain function to HealthChecker.
type CheckerFunc func(ctx context.Context) error

// Ping calls f.
func (f CheckerFunc) Ping(ctx context.Context) error { return f(ctx) }

// Probe is one named dependency reported by the health endpoint.
// A failing optional probe marks the service degraded but keeps it in rotation.
type Probe struct {
	Name     string
	Checker  HealthChecker
	Optional bool
}

// Health and per-check states.
const (
	HealthOK          = "ok"
	HealthDegraded    = "degraded"
	HealthUnavailable = "unavailable"
	CheckUnreachable  = "unreachable"
	CheckDisabled     = "disabled"
)

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthHandler probes every dependency concurrently. A failed required
// probe answers 503; failed optional probes answer 200 with status degraded.
// Probes with a nil Checker are reported as disabled.
func HealthHandler(probes ...Probe) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		results := make([]error, len(probes))
		var g errgroup.Group
		for i, p := range probes {
			if p.Checker == nil {
				continue
			}
			g.Go(func() error {
				results[i] = p.Checker.Ping(ctx)
				return nil
			})
		}
		_ = g.Wait()

		resp := HealthResponse{Status: HealthOK, Checks: make(map[string]string, len(probes))}
		for i, p := range probes {
			switch {
			case p.Checker == nil:
				resp.Checks[p.Name] = CheckDisabled
			case results[i] == nil:
				resp.Checks[p.Name] = HealthOK
			default:
				resp.Checks[p.Name] = CheckUnreachable
				if !p.Optional {
					resp.Status = HealthUnavailable
				} else if resp.Status == HealthOK {
					resp.Status = HealthDegraded
				}
			}
		}

		status := http.StatusOK
		if resp.Status == HealthUnavailable {
			status = http.StatusServiceUnavailable
		}
		JSON(w, status, resp)
	}
}

// LiveHandler answers 200 as long as the process serves requests.
func LiveHandler(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": HealthOK})
}
