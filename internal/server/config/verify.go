// Package config defines the server configuration structure.
package config

import (
	"errors"
	"fmt"
	"os"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyAuth(&cfg.Auth); err != nil {
		return err
	}
	if err := verifyChannel(&cfg.Channel); err != nil {
		return err
	}
	return verifyStorage(&cfg.Storage)
}

func verifyServer(cfg *ServerSection) error {
	if cfg.HTTP.Addr == "" {
		return errors.New("server.http.addr is required")
	}
	if (cfg.HTTP.TLSCertFile == "") != (cfg.HTTP.TLSKeyFile == "") {
		return errors.New("server.http.tls_cert_file and tls_key_file must be set together")
	}
	return nil
}

func verifyAuth(cfg *AuthSection) error {
	if len(cfg.SigningKey) < 32 {
		return errors.New("auth.signing_key must be at least 32 bytes")
	}
	if cfg.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	if cfg.LoginRate <= 0 {
		return errors.New("auth.login_rate must be positive")
	}
	if cfg.LoginBurst < 1 {
		return errors.New("auth.login_burst must be at least 1")
	}

	for i, seed := range cfg.Seeds {
		if seed.Identity == "" {
			return fmt.Errorf("auth.seeds[%d]: identity is required", i)
		}
		if seed.Secret == "" && seed.SecretHash == "" {
			return fmt.Errorf("auth.seeds[%d]: secret or secret_hash is required", i)
		}
		if seed.Scope != "user" && seed.Scope != "admin" {
			return fmt.Errorf("auth.seeds[%d]: scope must be user or admin", i)
		}
	}
	return nil
}

func verifyChannel(cfg *ChannelSection) error {
	if cfg.AuthDeadline <= 0 {
		return errors.New("channel.auth_deadline must be positive")
	}
	if cfg.OutboxSize < 1 {
		return errors.New("channel.outbox_size must be at least 1")
	}
	if cfg.RoutingPolicy != "all" && cfg.RoutingPolicy != "scope" {
		return errors.New("channel.routing_policy must be all or scope")
	}
	if cfg.PingInterval >= cfg.PongTimeout {
		return errors.New("channel.ping_interval must be shorter than pong_timeout")
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	switch cfg.Backend {
	case "memory":
		return nil
	case "badger":
		if cfg.DataDir == "" {
			return errors.New("storage.data_dir is required for the badger backend")
		}
		if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
			return errors.New("cannot create data directory: " + err.Error())
		}
		return nil
	default:
		return errors.New("storage.backend must be memory or badger")
	}
}
