// Package httpserver provides the HTTP server for the relay.
package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/ossiavoice/relay-go/internal/core/service"
	"github.com/ossiavoice/relay-go/internal/ratelimit"
	"github.com/ossiavoice/relay-go/internal/server/httpserver/handler"
	"github.com/ossiavoice/relay-go/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// OwnerService handles owner registration and authentication.
	OwnerService *service.OwnerService

	// EnrollmentService handles enrollment issue and redemption.
	EnrollmentService *service.EnrollmentService

	// DeviceService handles device credential operations.
	DeviceService *service.DeviceService

	// WSHandler serves the WebSocket upgrade endpoint.
	WSHandler http.Handler

	// Logger for request logging.
	Logger *slog.Logger

	// Metrics records request counters; its Handler serves /metrics.
	Metrics *metric.Metrics

	// Limiters holds per-client route buckets.
	Limiters *ratelimit.Registry

	// RegisterLimit throttles POST /owner-register per client address.
	RegisterLimit ratelimit.Limit

	// RouteLimit throttles the remaining credential routes per client
	// address.
	RouteLimit ratelimit.Limit
}

// NewRouter creates and configures the HTTP router with all routes and
// middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	h := handler.New(cfg.OwnerService, cfg.EnrollmentService, cfg.DeviceService, cfg.Logger, cfg.Metrics)

	// Common middleware for credential routes.
	// Order: Recover -> CORS -> RequestID -> RequestLog -> RateLimit -> Handler
	route := func(name string, limit ratelimit.Limit) http.Handler {
		return Chain(h,
			Recover(cfg.Logger),
			CORS(),
			RequestID(),
			RequestLog(cfg.Logger, cfg.Metrics),
			RouteRateLimit(cfg.Limiters, name, limit),
		)
	}

	mux := http.NewServeMux()

	// Registration gets the tight bucket; every other credential route
	// shares the standard one.
	mux.Handle("POST /owner-register", route("/owner-register", cfg.RegisterLimit))
	mux.Handle("POST /enroll-issue", route("/enroll-issue", cfg.RouteLimit))
	mux.Handle("POST /enroll", route("/enroll", cfg.RouteLimit))
	mux.Handle("POST /device-revoke", route("/device-revoke", cfg.RouteLimit))
	mux.Handle("POST /device-rotate", route("/device-rotate", cfg.RouteLimit))

	// Preflight for the credential routes.
	mux.Handle("OPTIONS /", Chain(h, Recover(cfg.Logger), CORS()))

	// Health endpoint - no rate limiting
	mux.Handle("GET /health", Chain(h, Recover(cfg.Logger), RequestID()))

	// Metrics exposition
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", Chain(cfg.Metrics.Handler(), Recover(cfg.Logger)))
	}

	// WebSocket endpoint - the upgrade handshake needs the raw
	// http.Hijacker, so the status-capturing middleware stays off this
	// route.
	if cfg.WSHandler != nil {
		mux.Handle("GET /ws", Chain(cfg.WSHandler, Recover(cfg.Logger)))
	}

	return mux
}
