// Package domain defines the core domain models for RelayMesh.
package domain

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/argon2"
)

// Credential constraints.
const (
	MaxIdentityLength = 128
	MaxSecretLength   = 512
)

// Argon2id parameters for secret hashing.
// Hash format: $argon2id$v=19$m=16384,t=2,p=2$<salt>$<hash>
const (
	argonTime    = 2
	argonMemory  = 16384
	argonThreads = 2
	argonKeyLen  = 32
	argonSaltLen = 16
)

// Scope is the privilege tier carried by a token.
type Scope string

// Known scopes.
const (
	ScopeUser  Scope = "user"
	ScopeAdmin Scope = "admin"
)

// ParseScope parses and validates a scope string.
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(s)) {
	case ScopeUser:
		return ScopeUser, nil
	case ScopeAdmin:
		return ScopeAdmin, nil
	default:
		return "", ErrInvalidArgument.WithDetails("unknown scope: " + s)
	}
}

// Credential is the stored form of an identity claim.
// The plaintext secret is never persisted; only its Argon2id hash.
type Credential struct {
	// Identity is the unique login name.
	Identity string `json:"identity"`

	// SecretHash is the Argon2id hash of the secret.
	SecretHash string `json:"secret_hash"`

	// Scope is the privilege tier granted on successful authentication.
	Scope Scope `json:"scope"`

	// CreatedAt is the creation timestamp (Unix milliseconds).
	CreatedAt int64 `json:"created_at"`
}

// NewCredential creates a Credential for identity with the given plaintext
// secret and scope. The secret is hashed immediately and discarded.
func NewCredential(identity, secret string, scope Scope) (*Credential, error) {
	c := &Credential{
		Identity:  identity,
		Scope:     scope,
		CreatedAt: time.Now().UnixMilli(),
	}

	hash, err := HashSecret(secret)
	if err != nil {
		return nil, err
	}
	c.SecretHash = hash

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate validates the credential fields against constraints.
func (c *Credential) Validate() error {
	var violations []string

	if c.Identity == "" {
		violations = append(violations, "identity is required")
	}
	if len(c.Identity) > MaxIdentityLength {
		violations = append(violations, "identity exceeds 128 characters")
	}
	if c.SecretHash == "" {
		violations = append(violations, "secret_hash is required")
	}
	if c.Scope != ScopeUser && c.Scope != ScopeAdmin {
		violations = append(violations, "scope must be user or admin")
	}

	if len(violations) > 0 {
		return ErrCredentialValidation.WithDetails(strings.Join(violations, "; "))
	}
	return nil
}

// VerifySecret checks the plaintext secret against the stored hash.
func (c *Credential) VerifySecret(secret string) bool {
	return VerifySecretHash(secret, c.SecretHash)
}

// CreatedAtTime returns CreatedAt as time.Time.
func (c *Credential) CreatedAtTime() time.Time {
	return time.UnixMilli(c.CreatedAt)
}

// HashSecret hashes a plaintext secret with Argon2id.
func HashSecret(secret string) (string, error) {
	if secret == "" {
		return "", ErrCredentialValidation.WithDetails("secret is required")
	}
	if len(secret) > MaxSecretLength {
		return "", ErrCredentialValidation.WithDetails("secret exceeds 512 characters")
	}

	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", ErrInternalServer.WithCause(err)
	}

	key := argon2.IDKey([]byte(secret), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// VerifySecretHash verifies a plaintext secret against an Argon2id hash.
// Uses constant-time comparison to prevent timing attacks.
func VerifySecretHash(secret, hash string) bool {
	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		return false
	}
	if parts[1] != "argon2id" {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(secret), salt, argonTime, argonMemory, argonThreads, uint32(len(expected)))
	return subtle.ConstantTimeCompare(computed, expected) == 1
}
