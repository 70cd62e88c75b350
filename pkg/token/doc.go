// Package token provides low-level token primitives: cryptographically
// secure random generation and HMAC-SHA256 signing and verification.
//
// Interpretation of token contents (claims, expiry, scopes) lives in the
// domain layer; this package only moves bytes.
package token
