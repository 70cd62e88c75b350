// Package config defines the server configuration structure.
package config

import "time"

// ServerConfig is the root configuration for relaymesh-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Auth    AuthSection    `koanf:"auth"`
	Channel ChannelSection `koanf:"channel"`
	Storage StorageSection `koanf:"storage"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`
}

// HTTPConfig configures the HTTP server. The websocket gateway shares
// this listener.
type HTTPConfig struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	TLSCertFile     string        `koanf:"tls_cert_file"`
	TLSKeyFile      string        `koanf:"tls_key_file"`
	TLSCAFile       string        `koanf:"tls_ca_file"`
}

// AuthSection configures credential validation and token issuance.
type AuthSection struct {
	// SigningKey is the HMAC key for session tokens. Required,
	// minimum 32 bytes.
	SigningKey string `koanf:"signing_key"`

	// TokenTTL is the session token lifetime.
	TokenTTL time.Duration `koanf:"token_ttl"`

	// LoginRate is the sustained login attempts per second per client IP.
	LoginRate float64 `koanf:"login_rate"`

	// LoginBurst is the login attempt burst per client IP.
	LoginBurst int `koanf:"login_burst"`

	// Seeds are credentials loaded into the store at startup.
	// Existing identities are never overwritten.
	Seeds []SeedUser `koanf:"seeds"`
}

// SeedUser is one bootstrap credential. Either Secret (plaintext) or
// SecretHash (Argon2id, preferred for production) must be set.
type SeedUser struct {
	Identity   string `koanf:"identity"`
	Secret     string `koanf:"secret"`
	SecretHash string `koanf:"secret_hash"`
	Scope      string `koanf:"scope"`
}

// ChannelSection configures the websocket gateway and relay.
type ChannelSection struct {
	// AuthDeadline is how long a connection may stay unauthenticated
	// before it is rejected.
	AuthDeadline time.Duration `koanf:"auth_deadline"`

	// OutboxSize is the per-channel delivery queue capacity.
	OutboxSize int `koanf:"outbox_size"`

	// RoutingPolicy selects message routing: "all" or "scope".
	RoutingPolicy string `koanf:"routing_policy"`

	// WriteTimeout bounds a single websocket frame write.
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// PingInterval is the keepalive ping period. Must be shorter
	// than PongTimeout.
	PingInterval time.Duration `koanf:"ping_interval"`

	// PongTimeout is how long to wait for a pong before the
	// connection is considered dead.
	PongTimeout time.Duration `koanf:"pong_timeout"`
}

// StorageSection configures credential storage.
type StorageSection struct {
	// Backend selects the store: "memory" or "badger".
	Backend string `koanf:"backend"`

	// DataDir is the Badger database directory.
	DataDir string `koanf:"data_dir"`

	// SyncWrites fsyncs every Badger write.
	SyncWrites bool `koanf:"sync_writes"`

	// GCInterval is the Badger value-log GC period.
	GCInterval time.Duration `koanf:"gc_interval"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
