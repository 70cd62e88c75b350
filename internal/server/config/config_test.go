package config

import (
	"strings"
	"testing"
	"time"
)

// validConfig returns a configuration that passes Verify.
func validConfig(t *testing.T) *ServerConfig {
	t.Helper()
	cfg := Default()
	cfg.Auth.SigningKey = "0123456789abcdef0123456789abcdef"
	return cfg
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.HTTP.Addr != DefaultHTTPAddr {
		t.Errorf("HTTP.Addr = %q, want %q", cfg.Server.HTTP.Addr, DefaultHTTPAddr)
	}
	if cfg.Auth.TokenTTL != time.Hour {
		t.Errorf("Auth.TokenTTL = %v, want 1h", cfg.Auth.TokenTTL)
	}
	if cfg.Channel.OutboxSize != DefaultOutboxSize {
		t.Errorf("Channel.OutboxSize = %d, want %d", cfg.Channel.OutboxSize, DefaultOutboxSize)
	}
	if cfg.Channel.RoutingPolicy != "all" {
		t.Errorf("Channel.RoutingPolicy = %q, want %q", cfg.Channel.RoutingPolicy, "all")
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("Storage.Backend = %q, want %q", cfg.Storage.Backend, "memory")
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v, want info/json", cfg.Log)
	}
}

func TestVerify_Valid(t *testing.T) {
	cfg := validConfig(t)
	if err := Verify(cfg); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
}

func TestVerify_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr string
	}{
		{
			name:    "missing http addr",
			mutate:  func(c *ServerConfig) { c.Server.HTTP.Addr = "" },
			wantErr: "server.http.addr",
		},
		{
			name:    "tls cert without key",
			mutate:  func(c *ServerConfig) { c.Server.HTTP.TLSCertFile = "/etc/cert.pem" },
			wantErr: "tls_cert_file",
		},
		{
			name:    "short signing key",
			mutate:  func(c *ServerConfig) { c.Auth.SigningKey = "short" },
			wantErr: "auth.signing_key",
		},
		{
			name:    "zero token ttl",
			mutate:  func(c *ServerConfig) { c.Auth.TokenTTL = 0 },
			wantErr: "auth.token_ttl",
		},
		{
			name:    "zero login rate",
			mutate:  func(c *ServerConfig) { c.Auth.LoginRate = 0 },
			wantErr: "auth.login_rate",
		},
		{
			name:    "zero login burst",
			mutate:  func(c *ServerConfig) { c.Auth.LoginBurst = 0 },
			wantErr: "auth.login_burst",
		},
		{
			name: "seed without identity",
			mutate: func(c *ServerConfig) {
				c.Auth.Seeds = []SeedUser{{Secret: "x", Scope: "user"}}
			},
			wantErr: "identity is required",
		},
		{
			name: "seed without secret",
			mutate: func(c *ServerConfig) {
				c.Auth.Seeds = []SeedUser{{Identity: "u", Scope: "user"}}
			},
			wantErr: "secret or secret_hash",
		},
		{
			name: "seed with bad scope",
			mutate: func(c *ServerConfig) {
				c.Auth.Seeds = []SeedUser{{Identity: "u", Secret: "x", Scope: "root"}}
			},
			wantErr: "scope must be user or admin",
		},
		{
			name:    "zero auth deadline",
			mutate:  func(c *ServerConfig) { c.Channel.AuthDeadline = 0 },
			wantErr: "channel.auth_deadline",
		},
		{
			name:    "zero outbox size",
			mutate:  func(c *ServerConfig) { c.Channel.OutboxSize = 0 },
			wantErr: "channel.outbox_size",
		},
		{
			name:    "unknown routing policy",
			mutate:  func(c *ServerConfig) { c.Channel.RoutingPolicy = "broadcast" },
			wantErr: "channel.routing_policy",
		},
		{
			name: "ping not shorter than pong",
			mutate: func(c *ServerConfig) {
				c.Channel.PingInterval = time.Minute
				c.Channel.PongTimeout = time.Minute
			},
			wantErr: "ping_interval",
		},
		{
			name:    "unknown storage backend",
			mutate:  func(c *ServerConfig) { c.Storage.Backend = "postgres" },
			wantErr: "storage.backend",
		},
		{
			name: "badger without data dir",
			mutate: func(c *ServerConfig) {
				c.Storage.Backend = "badger"
				c.Storage.DataDir = ""
			},
			wantErr: "storage.data_dir",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := Verify(cfg)
			if err == nil {
				t.Fatal("Verify() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Verify() error = %q, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestVerify_BadgerCreatesDataDir(t *testing.T) {
	cfg := validConfig(t)
	cfg.Storage.Backend = "badger"
	cfg.Storage.DataDir = t.TempDir() + "/nested/data"

	if err := Verify(cfg); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
}

func TestSanitize(t *testing.T) {
	cfg := validConfig(t)
	cfg.Auth.Seeds = []SeedUser{
		{Identity: "user1", Secret: "password1", Scope: "admin"},
		{Identity: "user2", SecretHash: "$argon2id$v=19$...", Scope: "user"},
	}

	sanitized := Sanitize(cfg)

	if sanitized.Auth.SigningKey == cfg.Auth.SigningKey {
		t.Error("signing key should be masked")
	}
	if strings.Contains(sanitized.Auth.SigningKey, "456789abcdef012345") {
		t.Error("masked signing key should not contain the middle of the secret")
	}
	if sanitized.Auth.Seeds[0].Secret == "password1" {
		t.Error("seed secret should be masked")
	}
	if sanitized.Auth.Seeds[1].SecretHash != "****" {
		t.Errorf("seed secret_hash = %q, want ****", sanitized.Auth.Seeds[1].SecretHash)
	}

	// The original must be untouched.
	if cfg.Auth.Seeds[0].Secret != "password1" {
		t.Error("Sanitize() must not mutate the original config")
	}
	if cfg.Auth.SigningKey != "0123456789abcdef0123456789abcdef" {
		t.Error("Sanitize() must not mutate the original signing key")
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"abc", "****"},
		{"abcd", "****"},
		{"abcdef", "ab**ef"},
		{"secret-value", "se********ue"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := maskSecret(tt.input); got != tt.want {
				t.Errorf("maskSecret(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
