// Package domain defines the core domain models for RelayMesh.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
type DomainError struct {
	Code    string // Error code (e.g., "RM-TOKN-4011")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
// Two DomainErrors compare equal when their codes match.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Authentication Errors (AUTH)
// ============================================================================

var (
	// ErrInvalidCredentials indicates the identity/secret pair did not match.
	// The same error is returned whether the identity exists or not.
	ErrInvalidCredentials = NewDomainError("RM-AUTH-4001", "invalid identity or secret")

	// ErrCredentialValidation indicates credential field validation failed.
	ErrCredentialValidation = NewDomainError("RM-AUTH-4002", "credential validation failed")

	// ErrPermissionDenied indicates the token's scope is insufficient.
	ErrPermissionDenied = NewDomainError("RM-AUTH-4030", "permission denied")

	// ErrCredentialNotFound indicates no credential is stored for the identity.
	// Storage-level only; the login boundary always reports ErrInvalidCredentials.
	ErrCredentialNotFound = NewDomainError("RM-AUTH-4040", "credential not found")

	// ErrCredentialConflict indicates the identity is already registered.
	ErrCredentialConflict = NewDomainError("RM-AUTH-4090", "credential already exists")
)

// ============================================================================
// Token Errors (TOKN)
// ============================================================================

var (
	// ErrTokenMalformed indicates the token format is invalid.
	ErrTokenMalformed = NewDomainError("RM-TOKN-4000", "malformed token")

	// ErrTokenMissing indicates no token was presented.
	ErrTokenMissing = NewDomainError("RM-TOKN-4010", "token not presented")

	// ErrTokenExpired indicates the token has expired.
	ErrTokenExpired = NewDomainError("RM-TOKN-4011", "token expired")

	// ErrTokenSignature indicates the token signature did not verify.
	ErrTokenSignature = NewDomainError("RM-TOKN-4012", "token signature mismatch")
)

// ============================================================================
// Channel Errors (CHAN)
// ============================================================================

var (
	// ErrChannelNotReady indicates an operation that requires an
	// authenticated channel was attempted on one that is not.
	ErrChannelNotReady = NewDomainError("RM-CHAN-4009", "channel not ready")

	// ErrChannelState indicates an invalid channel state transition.
	ErrChannelState = NewDomainError("RM-CHAN-4010", "invalid channel state transition")

	// ErrChannelNotFound indicates the channel is not registered with the relay.
	ErrChannelNotFound = NewDomainError("RM-CHAN-4040", "channel not found")

	// ErrChannelConflict indicates the channel id is already registered.
	ErrChannelConflict = NewDomainError("RM-CHAN-4090", "channel already registered")
)

// ============================================================================
// Relay Errors (RELY)
// ============================================================================

var (
	// ErrPublish indicates a publish could not be accepted by the relay.
	ErrPublish = NewDomainError("RM-RELY-5000", "publish failed")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternalServer indicates an internal server error.
	ErrInternalServer = NewDomainError("RM-SYS-5000", "internal server error")

	// ErrStorageError indicates a storage layer error.
	ErrStorageError = NewDomainError("RM-SYS-5001", "storage error")

	// ErrUpstreamUnavailable indicates the server could not be reached.
	ErrUpstreamUnavailable = NewDomainError("RM-SYS-5030", "upstream unavailable")

	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = NewDomainError("RM-SYS-4000", "bad request")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewDomainError("RM-SYS-4290", "too many requests")
)

// ============================================================================
// Argument Errors (ARG)
// ============================================================================

var (
	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("RM-ARG-1001", "invalid argument")

	// ErrMissingArgument indicates a required argument is missing.
	ErrMissingArgument = NewDomainError("RM-ARG-1002", "missing required argument")
)
