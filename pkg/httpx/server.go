package httpx

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"
)

// ServerConfig holds the options for NewRouter. Zero limits fall back to
// the package defaults.
type ServerConfig struct {
	ServiceName   string
	IsDevelopment bool
	// CORSAllowedOrigins is a comma-separated list of allowed origins.
	// Pass "*" (dev only) to allow all origins.
	CORSAllowedOrigins string

	RequestsPerMinute int
	MaxBodyBytes      int64
	HandlerTimeout    time.Duration
}

const (
	defaultRequestsPerMinute = 100
	defaultMaxBodyBytes      = 1 << 20
	defaultHandlerTimeout    = 30 * time.Second

	// authAttemptsPerMinute caps sign-in and sign-up per IP and endpoint.
	authAttemptsPerMinute = 10
)

func (c ServerConfig) withDefaults() ServerConfig {
	if c.RequestsPerMinute <= 0 {
		c.RequestsPerMinute = defaultRequestsPerMinute
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = defaultMaxBodyBytes
	}
	if c.HandlerTimeout <= 0 {
		c.HandlerTimeout = defaultHandlerTimeout
	}
	return c
}

// NewRouter returns a chi.Mux with the standard middleware stack. The
// app-specific middlewares are passed in so this package stays free of
// logger and telemetry wiring.
//
// Order, outermost first: recovery, sentry (re-panics into recovery),
// request id, otel span, request log, real ip, per-IP rate limit, CORS,
// body cap, handler timeout, security headers.
func NewRouter(
	cfg ServerConfig,
	loggerMiddleware func(http.Handler) http.Handler,
	recoveryMiddleware func(http.Handler) http.Handler,
	sentryMiddleware func(http.Handler) http.Handler,
	otelMiddleware func(http.Handler) http.Handler,
) *chi.Mux {
	cfg = cfg.withDefaults()
	r := chi.NewRouter()
	r.Use(
		recoveryMiddleware,
		sentryMiddleware,
		middleware.RequestID,
		otelMiddleware,
		loggerMiddleware,
		middleware.RealIP,
		httprate.Limit(cfg.RequestsPerMinute, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(tooManyRequests),
		),
		CORSMiddleware(cfg.CORSAllowedOrigins),
		RequestBodyLimit(cfg.MaxBodyBytes),
		middleware.Timeout(cfg.HandlerTimeout),
		securityHeaders(cfg.IsDevelopment),
	)
	return r
}

// securityHeaders sets the browser hardening headers. The API serves JSON
// only, so the policy forbids framing and every feature the dashboard never
// asks for. HSTS is skipped in development.
func securityHeaders(isDevelopment bool) func(http.Handler) http.Handler {
	return secure.New(secure.Options{
		STSSeconds:            63072000,
		STSIncludeSubdomains:  true,
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; frame-ancestors 'none'",
		PermissionsPolicy:     "geolocation=(), microphone=(), camera=(), payment=()",
		IsDevelopment:         isDevelopment,
	}).Handler
}

// AuthRateLimit is a stricter limiter for credential endpoints, keyed by
// client IP and route so sign-in attempts do not eat the sign-up budget.
func AuthRateLimit() func(http.Handler) http.Handler {
	return httprate.Limit(authAttemptsPerMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint),
		httprate.WithLimitHandler(tooManyRequests),
	)
}

func tooManyRequests(w http.ResponseWriter, r *http.Request) {
	RequestError(w, r, http.StatusTooManyRequests, "too many requests; retry later")
}

// CORSMiddleware allows the dashboard origins. allowedOrigins is comma
// separated; "*" (development only) allows any origin. Credentials, and so
// the session cookie, are only allowed for an explicit origin list.
func CORSMiddleware(allowedOrigins string) func(http.Handler) http.Handler {
	origins := parseOrigins(allowedOrigins)
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "Idempotency-Key", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "Retry-After"},
		AllowCredentials: !slices.Contains(origins, "*"),
		MaxAge:           600,
	})
}

func parseOrigins(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// RequestBodyLimit caps request bodies at maxBytes. Reads past the cap fail
// with *http.MaxBytesError, which validator.ValidateRequest answers with 413.
func RequestBodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// NewServer returns an *http.Server whose write timeout outlasts the
// handler timeout, so timed-out handlers still get their 503 written.
func NewServer(addr string, handler http.Handler, handlerTimeout time.Duration) *http.Server {
	if handlerTimeout <= 0 {
		handlerTimeout = defaultHandlerTimeout
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      handlerTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}
