// Package handler provides HTTP request handlers for RelayMesh.
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/yndnr/relaymesh-go/internal/core/domain"
	"github.com/yndnr/relaymesh-go/internal/core/service"
)

// handleLogin handles POST /login.
//
// The response never reveals whether the identity exists; bad identity
// and bad secret produce the same error code and status.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "RM-SYS-4000", "invalid request body", nil)
		return
	}

	resp, err := h.authSvc.Authenticate(r.Context(), &service.AuthenticateRequest{
		Identity: req.Identity,
		Secret:   req.Secret,
		ClientIP: getClientIP(r),
	})
	if err != nil {
		h.recordLoginAttempt(err)
		h.handleServiceError(w, r, err)
		return
	}

	h.recordLoginAttempt(nil)
	if h.metrics != nil {
		h.metrics.TokensIssued.Inc()
	}

	h.logger.Info("login succeeded",
		"identity", req.Identity,
		"scope", string(resp.Scope),
	)

	h.writeJSON(w, r, http.StatusOK, LoginResponse{
		Token:     resp.Token.Raw,
		Subject:   resp.Token.Subject,
		Scope:     string(resp.Scope),
		ExpiresAt: time.UnixMilli(resp.ExpiresAt),
	})
}

// recordLoginAttempt counts a login outcome on the metrics registry.
func (h *Handler) recordLoginAttempt(err error) {
	if h.metrics == nil {
		return
	}

	result := "success"
	switch {
	case err == nil:
	case domain.IsDomainError(err, domain.ErrInvalidCredentials.Code):
		result = "invalid"
	case domain.IsDomainError(err, domain.ErrRateLimited.Code):
		result = "rate_limited"
	default:
		result = "error"
	}
	h.metrics.LoginAttempts.WithLabelValues(result).Inc()
}
