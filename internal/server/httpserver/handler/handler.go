// Package handler provides HTTP request handlers for RelayMesh.
//
// This package implements the HTTP API endpoints for login, the
// admin surface and operational status.
package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/yndnr/relaymesh-go/internal/core/domain"
	"github.com/yndnr/relaymesh-go/internal/core/service"
	"github.com/yndnr/relaymesh-go/internal/telemetry/logger"
	"github.com/yndnr/relaymesh-go/internal/telemetry/metric"
)

// Handler is the main HTTP handler that routes requests to appropriate handlers.
type Handler struct {
	authSvc *service.AuthService
	relay   *service.Relay
	metrics *metric.Registry
	logger  logger.Logger
	mux     *http.ServeMux
}

// New creates a new Handler with the given services.
func New(authSvc *service.AuthService, relay *service.Relay, metrics *metric.Registry, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}

	h := &Handler{
		authSvc: authSvc,
		relay:   relay,
		metrics: metrics,
		logger:  log,
		mux:     http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// registerRoutes registers all HTTP routes.
func (h *Handler) registerRoutes() {
	// Health endpoints (no auth required)
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)

	// Login endpoint
	h.mux.HandleFunc("POST /login", h.handleLogin)

	// Admin surface (bearer token with admin scope)
	h.mux.HandleFunc("GET /admin", h.handleAdmin)
	h.mux.HandleFunc("GET /admin/v1/status/summary", h.handleStatusSummary)

	// User management endpoints (admin scope)
	h.mux.HandleFunc("POST /admin/v1/users", h.handleCreateUser)
	h.mux.HandleFunc("GET /admin/v1/users", h.handleListUsers)
	h.mux.HandleFunc("DELETE /admin/v1/users/{identity}", h.handleDeleteUser)
}

// writeJSON writes a JSON response with standard envelope format.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := getRequestID(r)
	response := NewResponse(requestID, data)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response with standard envelope format.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	requestID := getRequestID(r)
	response := NewErrorResponse(requestID, code, message, details)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// getRequestID extracts the request ID set by the request-id middleware.
func getRequestID(r *http.Request) string {
	if reqID := logger.RequestIDFromContext(r.Context()); reqID != "" {
		return reqID
	}
	return r.Header.Get("X-Request-ID")
}

// handleServiceError converts service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsDomainError(err, "") {
		code := domain.GetErrorCode(err)
		status := errorCodeToHTTPStatus(code)
		h.writeError(w, r, status, code, err.Error(), nil)
		return
	}

	// Generic internal error
	h.logger.Error("internal error", "error", err)
	h.writeError(w, r, http.StatusInternalServerError, "RM-SYS-5000", "internal server error", nil)
}

// errorCodeToHTTPStatus maps error codes to HTTP status codes.
//
// Token errors map to 401 regardless of the exact failure so the
// response status never distinguishes a forged token from an expired
// one; the error code still does.
func errorCodeToHTTPStatus(code string) int {
	switch {
	case strings.HasPrefix(code, "RM-TOKN-"):
		return http.StatusUnauthorized
	case code == "RM-AUTH-4001":
		return http.StatusUnauthorized
	case strings.HasSuffix(code, "-4030"), strings.HasSuffix(code, "-4031"):
		return http.StatusForbidden
	case strings.HasSuffix(code, "-4040"), strings.HasSuffix(code, "-4041"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "-4090"):
		return http.StatusConflict
	case strings.HasSuffix(code, "-4290"):
		return http.StatusTooManyRequests
	case strings.HasPrefix(code, "RM-ARG-"), code == "RM-SYS-4000", strings.HasSuffix(code, "-4002"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "RM-SYS-5"):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// extractBearerToken pulls the bearer token out of the Authorization header.
// Returns "" when the header is absent or not a Bearer scheme.
func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

// getClientIP extracts client IP from request.
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}

	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
