package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yndnr/relaymesh-go/pkg/crypto/adaptive"
)

// Saved tokens are bearer credentials, so they are encrypted at rest
// with a per-user key generated on first save. The key file lives
// next to the config file with owner-only permissions.

const (
	encPrefix   = "enc:"
	keyFileName = "key"
)

var sessionAAD = []byte("relaymesh-cli-session")

func keyPath(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), keyFileName)
}

// loadOrCreateKey returns the encryption key, generating one on first
// use.
func loadOrCreateKey(configPath string) ([]byte, error) {
	path := keyPath(configPath)

	key, err := os.ReadFile(path)
	if err == nil {
		if len(key) != 32 {
			return nil, fmt.Errorf("key file %s: want 32 bytes, got %d", path, len(key))
		}
		return key, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	key = make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, key, 0600); err != nil {
		return nil, err
	}
	return key, nil
}

// sealToken encrypts a token for storage.
func sealToken(key []byte, token string) (string, error) {
	c, err := adaptive.New(key)
	if err != nil {
		return "", err
	}
	ciphertext, err := c.Encrypt([]byte(token), sessionAAD)
	if err != nil {
		return "", err
	}
	return encPrefix + base64.StdEncoding.EncodeToString(ciphertext), nil
}

// openToken decrypts a stored token. Plaintext values pass through
// unchanged, so a hand-edited config still works.
func openToken(key []byte, stored string) (string, error) {
	if !strings.HasPrefix(stored, encPrefix) {
		return stored, nil
	}

	ciphertext, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(stored, encPrefix))
	if err != nil {
		return "", fmt.Errorf("decode saved token: %w", err)
	}

	c, err := adaptive.New(key)
	if err != nil {
		return "", err
	}
	plaintext, err := c.Decrypt(ciphertext, sessionAAD)
	if err != nil {
		return "", fmt.Errorf("decrypt saved token: %w", err)
	}
	return string(plaintext), nil
}
