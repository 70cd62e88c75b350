// Package domain defines the core domain models for RelayMesh.
package domain

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/yndnr/relaymesh-go/pkg/token"
)

// Token format constants.
const (
	// TokenPrefix is the prefix for session tokens (sensitive, uses underscore).
	TokenPrefix = "rmtk_"

	// tokenSep separates the claims body from the signature.
	tokenSep = "."
)

// Token is a signed, self-contained session token.
//
// Wire format: rmtk_{base64url claims JSON}.{base64url hmac-sha256}.
// A token is valid iff its signature verifies against the issuer's key
// and the current time is before ExpiresAt. The token is immutable once
// issued; the server keeps no copy and validates purely on presentation.
type Token struct {
	// Raw is the full wire-format token as presented by the client.
	Raw string `json:"-"`

	// Subject is the authenticated identity.
	Subject string `json:"sub"`

	// Scope is the privilege tier granted to the subject.
	Scope Scope `json:"scope"`

	// IssuedAt is the issue timestamp (Unix milliseconds).
	IssuedAt int64 `json:"iat"`

	// ExpiresAt is the absolute expiration timestamp (Unix milliseconds).
	ExpiresAt int64 `json:"exp"`

	// ID uniquely identifies this token issuance.
	ID string `json:"jti"`
}

// SignToken serializes and signs the token claims with key,
// filling in Raw and returning the wire-format string.
func SignToken(t *Token, key []byte) (string, error) {
	if len(key) == 0 {
		return "", ErrInternalServer.WithDetails("empty signing key")
	}

	claims, err := json.Marshal(t)
	if err != nil {
		return "", ErrInternalServer.WithCause(err)
	}

	body := base64.RawURLEncoding.EncodeToString(claims)
	raw := TokenPrefix + body + tokenSep + token.Sign([]byte(body), key)
	t.Raw = raw
	return raw, nil
}

// VerifyToken parses a wire-format token and verifies its signature and
// expiry against now. Failures are reported distinctly:
// ErrTokenMalformed, ErrTokenSignature, or ErrTokenExpired.
func VerifyToken(raw string, key []byte, now time.Time) (*Token, error) {
	body, sig, err := splitToken(raw)
	if err != nil {
		return nil, err
	}

	if !token.Verify([]byte(body), sig, key) {
		return nil, ErrTokenSignature
	}

	claims, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return nil, ErrTokenMalformed.WithCause(err)
	}

	var t Token
	if err := json.Unmarshal(claims, &t); err != nil {
		return nil, ErrTokenMalformed.WithCause(err)
	}
	t.Raw = raw

	if t.Subject == "" || t.ExpiresAt == 0 {
		return nil, ErrTokenMalformed.WithDetails("missing claims")
	}
	if !now.Before(time.UnixMilli(t.ExpiresAt)) {
		return nil, ErrTokenExpired
	}

	return &t, nil
}

// splitToken splits a wire-format token into its body and signature parts.
func splitToken(raw string) (body, sig string, err error) {
	if !strings.HasPrefix(raw, TokenPrefix) {
		return "", "", ErrTokenMalformed.WithDetails("missing prefix")
	}
	rest := raw[len(TokenPrefix):]

	idx := strings.LastIndex(rest, tokenSep)
	if idx <= 0 || idx == len(rest)-1 {
		return "", "", ErrTokenMalformed.WithDetails("missing signature")
	}
	return rest[:idx], rest[idx+1:], nil
}

// IsExpired returns true if the token has expired.
func (t *Token) IsExpired() bool {
	return time.Now().UnixMilli() >= t.ExpiresAt
}

// TTLDuration returns the remaining time-to-live as a duration.
// Returns 0 if expired.
func (t *Token) TTLDuration() time.Duration {
	remaining := t.ExpiresAt - time.Now().UnixMilli()
	if remaining < 0 {
		return 0
	}
	return time.Duration(remaining) * time.Millisecond
}

// IssuedAtTime returns IssuedAt as time.Time.
func (t *Token) IssuedAtTime() time.Time {
	return time.UnixMilli(t.IssuedAt)
}

// ExpiresAtTime returns ExpiresAt as time.Time.
func (t *Token) ExpiresAtTime() time.Time {
	return time.UnixMilli(t.ExpiresAt)
}

// ValidateTokenFormat checks if a string is shaped like a wire-format token
// without verifying its signature.
func ValidateTokenFormat(raw string) bool {
	_, _, err := splitToken(raw)
	return err == nil
}

// MaskToken masks a token for safe logging.
// Example: rmtk_eyJ...Q2c
func MaskToken(raw string) string {
	if !strings.HasPrefix(raw, TokenPrefix) || len(raw) < len(TokenPrefix)+7 {
		return "***REDACTED***"
	}
	body := raw[len(TokenPrefix):]
	return TokenPrefix + body[:3] + "..." + body[len(body)-3:]
}
