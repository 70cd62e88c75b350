// Package handler provides HTTP request handlers for RelayMesh.
package handler

import "time"

// Response is the standard API response envelope.
// All JSON responses use this format (except /metrics which uses Prometheus format).
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   any    `json:"details,omitempty"` // Additional error details
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string, details any) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// LoginRequest is the request body for POST /login.
type LoginRequest struct {
	Identity string `json:"identity"`
	Secret   string `json:"secret"`
}

// LoginResponse is the response body for POST /login.
// The token is returned exactly once; it is never stored server-side.
type LoginResponse struct {
	Token     string    `json:"token"`
	Subject   string    `json:"subject"`
	Scope     string    `json:"scope"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AdminResponse is the response body for GET /admin.
type AdminResponse struct {
	Message string `json:"message"`
}

// CreateUserRequest is the request body for POST /admin/v1/users.
type CreateUserRequest struct {
	Identity string `json:"identity"`
	Secret   string `json:"secret"`
	Scope    string `json:"scope"`
}

// CreateUserResponse is the response body for POST /admin/v1/users.
type CreateUserResponse struct {
	Identity  string    `json:"identity"`
	Scope     string    `json:"scope"`
	CreatedAt time.Time `json:"created_at"`
}

// UserResponse is a single user entry in ListUsersResponse.
// Secret hashes are never included.
type UserResponse struct {
	Identity  string    `json:"identity"`
	Scope     string    `json:"scope"`
	CreatedAt time.Time `json:"created_at"`
}

// ListUsersResponse is the response body for GET /admin/v1/users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// StatusSummaryResponse is the response body for GET /admin/v1/status/summary.
type StatusSummaryResponse struct {
	Status    string         `json:"status"`
	Version   string         `json:"version"`
	Channels  int            `json:"channels"`
	ByScope   map[string]int `json:"channels_by_scope"`
	Published uint64         `json:"messages_published"`
	Delivered uint64         `json:"messages_delivered"`
	Dropped   uint64         `json:"messages_dropped"`
	Time      string         `json:"time"`
}
