// Package token provides token generation and signing utilities.
package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// DefaultLength is the default random token length in bytes.
const DefaultLength = 32

// Generate generates a cryptographically secure random token.
//
// The returned token is Base64 RawURL encoded for safe URL transmission.
func Generate() (string, error) {
	return GenerateWithLength(DefaultLength)
}

// GenerateWithLength generates a random token with the specified byte length.
func GenerateWithLength(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// Sign computes the HMAC-SHA256 signature of body under key.
//
// The returned signature is Base64 RawURL encoded.
func Sign(body, key []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(body)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Verify verifies a Base64 RawURL encoded signature against body and key.
//
// Uses constant-time comparison to prevent timing attacks.
func Verify(body []byte, sig string, key []byte) bool {
	want, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, key)
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), want)
}
