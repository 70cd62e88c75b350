// Package handler provides HTTP request handlers for RelayMesh.
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/yndnr/relaymesh-go/internal/core/domain"
	"github.com/yndnr/relaymesh-go/internal/core/service"
	"github.com/yndnr/relaymesh-go/internal/infra/buildinfo"
)

// handleAdmin handles GET /admin.
//
// Requires a bearer token with admin scope. A valid token with user
// scope gets 403, any token failure gets 401.
func (h *Handler) handleAdmin(w http.ResponseWriter, r *http.Request) {
	token, err := h.authSvc.Authorize(r.Context(), extractBearerToken(r), domain.ScopeAdmin)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("admin access granted", "subject", token.Subject)

	h.writeJSON(w, r, http.StatusOK, AdminResponse{
		Message: "Welcome, Admin!",
	})
}

// handleStatusSummary handles GET /admin/v1/status/summary.
func (h *Handler) handleStatusSummary(w http.ResponseWriter, r *http.Request) {
	if _, err := h.authSvc.Authorize(r.Context(), extractBearerToken(r), domain.ScopeAdmin); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	stats := h.relay.Stats()
	h.writeJSON(w, r, http.StatusOK, StatusSummaryResponse{
		Status:    "running",
		Version:   buildinfo.Get().Version,
		Channels:  stats.Channels,
		ByScope:   stats.ByScope,
		Published: stats.Published,
		Delivered: stats.Delivered,
		Dropped:   stats.Dropped,
		Time:      time.Now().UTC().Format(time.RFC3339),
	})
}

// handleCreateUser handles POST /admin/v1/users.
func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	if _, err := h.authSvc.Authorize(r.Context(), extractBearerToken(r), domain.ScopeAdmin); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "RM-SYS-4000", "invalid request body", nil)
		return
	}

	if req.Identity == "" {
		h.writeError(w, r, http.StatusBadRequest, "RM-ARG-1002", "identity is required", nil)
		return
	}
	if req.Secret == "" {
		h.writeError(w, r, http.StatusBadRequest, "RM-ARG-1002", "secret is required", nil)
		return
	}
	if req.Scope == "" {
		req.Scope = string(domain.ScopeUser)
	}

	resp, err := h.authSvc.CreateCredential(r.Context(), &service.CreateCredentialRequest{
		Identity: req.Identity,
		Secret:   req.Secret,
		Scope:    req.Scope,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, CreateUserResponse{
		Identity:  resp.Identity,
		Scope:     string(resp.Scope),
		CreatedAt: resp.CreatedAt,
	})
}

// handleListUsers handles GET /admin/v1/users.
func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if _, err := h.authSvc.Authorize(r.Context(), extractBearerToken(r), domain.ScopeAdmin); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	infos, err := h.authSvc.ListCredentials(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	users := make([]UserResponse, len(infos))
	for i, info := range infos {
		users[i] = UserResponse{
			Identity:  info.Identity,
			Scope:     info.Scope,
			CreatedAt: info.CreatedAt,
		}
	}

	h.writeJSON(w, r, http.StatusOK, ListUsersResponse{Users: users})
}

// handleDeleteUser handles DELETE /admin/v1/users/{identity}.
func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if _, err := h.authSvc.Authorize(r.Context(), extractBearerToken(r), domain.ScopeAdmin); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	identity := r.PathValue("identity")
	if identity == "" {
		h.writeError(w, r, http.StatusBadRequest, "RM-ARG-1002", "identity is required", nil)
		return
	}

	if err := h.authSvc.DeleteCredential(r.Context(), identity); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"deleted":  true,
		"identity": identity,
	})
}
