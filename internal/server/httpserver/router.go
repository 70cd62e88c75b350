// Package httpserver provides the HTTP/HTTPS server for RelayMesh.
package httpserver

import (
	"net/http"

	"github.com/yndnr/relaymesh-go/internal/core/service"
	"github.com/yndnr/relaymesh-go/internal/server/httpserver/handler"
	"github.com/yndnr/relaymesh-go/internal/telemetry/logger"
	"github.com/yndnr/relaymesh-go/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// AuthService handles credential validation and token issue.
	AuthService *service.AuthService

	// Relay provides channel statistics for the admin status endpoint.
	Relay *service.Relay

	// Metrics is the Prometheus registry; serves /metrics and records
	// request counters. Optional.
	Metrics *metric.Registry

	// Logger for request logging.
	Logger logger.Logger

	// ChannelHandler serves the websocket channel endpoint at /channel. Optional.
	ChannelHandler http.Handler

	// GlobalRateRPS is the per-IP request rate limit (0 disables).
	GlobalRateRPS float64

	// GlobalRateBurst is the per-IP burst size for the rate limiter.
	GlobalRateBurst int

	// CORSAllowedOrigins is the list of allowed CORS origins (empty = allow all).
	CORSAllowedOrigins []string

	// EnableRequestLog enables per-request completion logging.
	EnableRequestLog bool
}

// DefaultRouterConfig returns default router configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		GlobalRateRPS:    100,
		GlobalRateBurst:  200,
		EnableRequestLog: true,
	}
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	h := handler.New(cfg.AuthService, cfg.Relay, cfg.Metrics, log)

	mux := http.NewServeMux()

	// Health endpoints get the minimal chain so readiness checks stay cheap.
	healthHandler := Chain(h, RequestID(), Recover(log))
	mux.Handle("GET /health", healthHandler)
	mux.Handle("GET /ready", healthHandler)

	// Metrics endpoint serves the Prometheus exposition format directly,
	// outside the JSON envelope.
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", Chain(cfg.Metrics.Handler(), RequestID(), Recover(log)))
	}

	// API endpoints: Recover -> RequestID -> RateLimit -> CORS -> RequestLog -> Metrics -> handler
	apiMiddlewares := []Middleware{
		Recover(log),
		RequestID(),
	}
	if cfg.GlobalRateRPS > 0 {
		burst := cfg.GlobalRateBurst
		if burst <= 0 {
			burst = int(cfg.GlobalRateRPS)
		}
		apiMiddlewares = append(apiMiddlewares, RateLimit(cfg.GlobalRateRPS, burst))
	}
	if len(cfg.CORSAllowedOrigins) > 0 {
		apiMiddlewares = append(apiMiddlewares, CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.EnableRequestLog {
		apiMiddlewares = append(apiMiddlewares, RequestLog(log))
	}
	if cfg.Metrics != nil {
		apiMiddlewares = append(apiMiddlewares, Metrics(cfg.Metrics))
	}

	apiHandler := Chain(h, apiMiddlewares...)

	mux.Handle("POST /login", apiHandler)
	mux.Handle("GET /admin", apiHandler)
	mux.Handle("GET /admin/v1/status/summary", apiHandler)
	mux.Handle("POST /admin/v1/users", apiHandler)
	mux.Handle("GET /admin/v1/users", apiHandler)
	mux.Handle("DELETE /admin/v1/users/{identity}", apiHandler)

	// Websocket endpoint does its own handshake and auth; it only gets
	// panic recovery since hijacked connections bypass the usual writers.
	if cfg.ChannelHandler != nil {
		mux.Handle("GET /channel", Chain(cfg.ChannelHandler, Recover(log)))
	}

	return mux
}
