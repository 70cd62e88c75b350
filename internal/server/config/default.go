// Package config defines the server configuration structure.
package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr        = "127.0.0.1:8080"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	DefaultTokenTTL   = time.Hour
	DefaultLoginRate  = 5.0
	DefaultLoginBurst = 10

	DefaultAuthDeadline  = 10 * time.Second
	DefaultOutboxSize    = 32
	DefaultRoutingPolicy = "all"
	DefaultWSWriteWait   = 10 * time.Second
	DefaultPingInterval  = 30 * time.Second
	DefaultPongTimeout   = 60 * time.Second

	DefaultStorageBackend = "memory"
	DefaultDataDir        = "/var/lib/relaymesh-server/data"
	DefaultGCInterval     = 10 * time.Minute

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:            DefaultHTTPAddr,
				ReadTimeout:     DefaultReadTimeout,
				WriteTimeout:    DefaultWriteTimeout,
				ShutdownTimeout: DefaultShutdownTimeout,
			},
		},
		Auth: AuthSection{
			TokenTTL:   DefaultTokenTTL,
			LoginRate:  DefaultLoginRate,
			LoginBurst: DefaultLoginBurst,
		},
		Channel: ChannelSection{
			AuthDeadline:  DefaultAuthDeadline,
			OutboxSize:    DefaultOutboxSize,
			RoutingPolicy: DefaultRoutingPolicy,
			WriteTimeout:  DefaultWSWriteWait,
			PingInterval:  DefaultPingInterval,
			PongTimeout:   DefaultPongTimeout,
		},
		Storage: StorageSection{
			Backend:    DefaultStorageBackend,
			DataDir:    DefaultDataDir,
			SyncWrites: true,
			GCInterval: DefaultGCInterval,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
