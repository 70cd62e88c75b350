// Package service provides domain services for RelayMesh.
//
// TokenService issues and verifies signed session tokens.
package service

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/relaymesh-go/internal/core/domain"
)

// DefaultTokenTTL is the default token lifetime.
const DefaultTokenTTL = time.Hour

// MinSigningKeyLength is the minimum accepted signing key size in bytes.
const MinSigningKeyLength = 32

// TokenService issues and verifies signed session tokens.
//
// Tokens are self-contained: verification needs only the signing key,
// no server-side state.
type TokenService struct {
	key []byte
	ttl time.Duration
}

// NewTokenService creates a TokenService with the given signing key
// and token lifetime. A zero ttl uses DefaultTokenTTL.
func NewTokenService(key []byte, ttl time.Duration) (*TokenService, error) {
	if len(key) < MinSigningKeyLength {
		return nil, domain.ErrInvalidArgument.WithDetails("signing key must be at least 32 bytes")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &TokenService{key: key, ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue creates and signs a new token for subject with the given scope.
func (s *TokenService) Issue(subject string, scope domain.Scope) (*domain.Token, error) {
	if subject == "" {
		return nil, domain.ErrMissingArgument.WithDetails("subject is required")
	}

	id, err := ulid.New(ulid.Timestamp(time.Now()), ulid.Monotonic(rand.Reader, 0))
	if err != nil {
		return nil, domain.ErrInternalServer.WithCause(err)
	}

	now := time.Now()
	t := &domain.Token{
		Subject:   subject,
		Scope:     scope,
		IssuedAt:  now.UnixMilli(),
		ExpiresAt: now.Add(s.ttl).UnixMilli(),
		ID:        id.String(),
	}

	if _, err := domain.SignToken(t, s.key); err != nil {
		return nil, err
	}
	return t, nil
}

// Verify checks a wire-format token against the signing key and clock.
// Returns ErrTokenMalformed, ErrTokenSignature, or ErrTokenExpired on
// failure.
func (s *TokenService) Verify(raw string) (*domain.Token, error) {
	if raw == "" {
		return nil, domain.ErrTokenMissing
	}
	return domain.VerifyToken(raw, s.key, time.Now())
}
