// Package config defines the server configuration structure.
package config

import "strings"

// Sanitize returns a copy of the config with sensitive fields masked.
//
// This is used for logging configuration without exposing secrets.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	sanitized := *cfg

	if sanitized.Auth.SigningKey != "" {
		sanitized.Auth.SigningKey = maskSecret(sanitized.Auth.SigningKey)
	}

	if len(sanitized.Auth.Seeds) > 0 {
		seeds := make([]SeedUser, len(sanitized.Auth.Seeds))
		copy(seeds, sanitized.Auth.Seeds)
		for i := range seeds {
			if seeds[i].Secret != "" {
				seeds[i].Secret = maskSecret(seeds[i].Secret)
			}
			if seeds[i].SecretHash != "" {
				seeds[i].SecretHash = "****"
			}
		}
		sanitized.Auth.Seeds = seeds
	}

	return &sanitized
}

// maskSecret masks a secret value for safe logging.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
