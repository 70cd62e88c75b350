// Package config defines the relaymesh-cli configuration file.
//
// The file lives at ~/.relaymesh/cli.yaml and stores connection
// defaults plus the session saved by the login command, so follow-up
// commands do not need --token on every invocation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// CLIConfig is the configuration for relaymesh-cli.
type CLIConfig struct {
	// Default connection settings.
	Server string `yaml:"server,omitempty"`
	Output string `yaml:"output,omitempty"` // table, json, yaml

	// Session saved by the login command.
	Session SavedSession `yaml:"session,omitempty"`
}

// SavedSession is a login result persisted between invocations.
// The token is a bearer credential: the file is written 0600 and the
// token field is encrypted at rest (see keyring.go).
type SavedSession struct {
	Token     string    `yaml:"token,omitempty"`
	Subject   string    `yaml:"subject,omitempty"`
	Scope     string    `yaml:"scope,omitempty"`
	ExpiresAt time.Time `yaml:"expires_at,omitempty"`
}

// Valid reports whether the saved session holds an unexpired token.
func (s SavedSession) Valid() bool {
	return s.Token != "" && time.Now().Before(s.ExpiresAt)
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server: "http://localhost:8080",
		Output: "table",
	}
}

// DefaultPath returns the default CLI config file path.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".relaymesh", "cli.yaml")
}

// Load loads CLI configuration from file. A missing file returns the
// defaults, not an error.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cli config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse cli config %s: %w", path, err)
	}

	if cfg.Session.Token != "" {
		key, err := loadOrCreateKey(path)
		if err != nil {
			return nil, err
		}
		token, err := openToken(key, cfg.Session.Token)
		if err != nil {
			// Undecryptable sessions count as logged out rather
			// than blocking every command.
			cfg.Session = SavedSession{}
		} else {
			cfg.Session.Token = token
		}
	}
	return cfg, nil
}

// Save writes CLI configuration to file with owner-only permissions.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	// Never write the bearer token in the clear.
	stored := *cfg
	if stored.Session.Token != "" {
		key, err := loadOrCreateKey(path)
		if err != nil {
			return err
		}
		sealed, err := sealToken(key, stored.Session.Token)
		if err != nil {
			return err
		}
		stored.Session.Token = sealed
	}

	data, err := yaml.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("encode cli config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}
