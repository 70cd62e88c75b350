// Package adaptive provides authenticated encryption with automatic
// algorithm selection.
//
// Supported algorithms:
//
//   - AES-256-GCM: preferred when hardware AES support is available
//   - ChaCha20-Poly1305: fallback for systems without AES-NI
//
// Usage:
//
//	c, err := adaptive.New(key)
//	sealed, err := c.Encrypt(plaintext, aad)
//	plaintext, err := c.Decrypt(sealed, aad)
//
// The nonce is generated per call and prepended to the ciphertext.
package adaptive
