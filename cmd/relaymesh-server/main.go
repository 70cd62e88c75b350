// Package main provides the entry point for relaymesh-server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/yndnr/relaymesh-go/internal/core/domain"
	"github.com/yndnr/relaymesh-go/internal/core/service"
	"github.com/yndnr/relaymesh-go/internal/infra/buildinfo"
	"github.com/yndnr/relaymesh-go/internal/infra/confloader"
	"github.com/yndnr/relaymesh-go/internal/infra/shutdown"
	"github.com/yndnr/relaymesh-go/internal/server/config"
	"github.com/yndnr/relaymesh-go/internal/server/httpserver"
	"github.com/yndnr/relaymesh-go/internal/server/wsserver"
	"github.com/yndnr/relaymesh-go/internal/storage"
	"github.com/yndnr/relaymesh-go/internal/storage/badgerstore"
	"github.com/yndnr/relaymesh-go/internal/storage/memory"
	"github.com/yndnr/relaymesh-go/internal/telemetry/logger"
	"github.com/yndnr/relaymesh-go/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		addr        = flag.String("addr", "", "Listen address override (host:port)")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("relaymesh-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *addr != "" {
		cfg.Server.HTTP.Addr = *addr
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting relaymesh-server",
		"version", buildinfo.Get().Version,
		"config", *configFile,
		"addr", cfg.Server.HTTP.Addr)

	store, err := initStore(cfg)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	ctx := context.Background()
	if err := storage.Seed(ctx, store, seedEntries(cfg)); err != nil {
		return fmt.Errorf("seed credentials: %w", err)
	}

	tokenSvc, err := service.NewTokenService([]byte(cfg.Auth.SigningKey), cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("init token service: %w", err)
	}

	authSvc, err := service.NewAuthService(store, tokenSvc, &service.AuthServiceConfig{
		LoginRate:  cfg.Auth.LoginRate,
		LoginBurst: cfg.Auth.LoginBurst,
	})
	if err != nil {
		return fmt.Errorf("init auth service: %w", err)
	}

	policy, err := service.ParseRoutingPolicy(cfg.Channel.RoutingPolicy)
	if err != nil {
		return fmt.Errorf("init relay: %w", err)
	}
	relay := service.NewRelay(&service.RelayConfig{
		Policy:     policy,
		OutboxSize: cfg.Channel.OutboxSize,
	})

	metrics := metric.NewRegistry()
	if err := metrics.RegisterCollector(metric.NewRelayCollector(relay)); err != nil {
		return fmt.Errorf("register relay collector: %w", err)
	}

	gateway := wsserver.New(authSvc, relay, metrics, log, wsserver.Config{
		AuthDeadline: cfg.Channel.AuthDeadline,
		WriteWait:    cfg.Channel.WriteTimeout,
		PingInterval: cfg.Channel.PingInterval,
		PongWait:     cfg.Channel.PongTimeout,
	})

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		AuthService:      authSvc,
		Relay:            relay,
		Metrics:          metrics,
		Logger:           log,
		ChannelHandler:   gateway,
		GlobalRateRPS:    100,
		GlobalRateBurst:  200,
		EnableRequestLog: true,
	})

	// WriteTimeout stays zero: long-lived websocket connections share
	// this listener.
	httpServer, err := httpserver.NewWithOptions(cfg.Server.HTTP.Addr, router, httpserver.Options{
		ReadTimeout:     cfg.Server.HTTP.ReadTimeout,
		TLSCertFile:     cfg.Server.HTTP.TLSCertFile,
		TLSKeyFile:      cfg.Server.HTTP.TLSKeyFile,
		TLSClientCAFile: cfg.Server.HTTP.TLSCAFile,
	})
	if err != nil {
		return fmt.Errorf("init http server: %w", err)
	}

	shutdownHandler := shutdown.NewHandler(cfg.Server.HTTP.ShutdownTimeout)

	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return httpServer.Shutdown(ctx)
	})
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("closing relay channels")
		relay.Shutdown(ctx)
		return nil
	})
	shutdownHandler.OnShutdown(func(context.Context) error {
		log.Info("closing credential store")
		return store.Close()
	})

	go func() {
		log.Info("server listening",
			"addr", cfg.Server.HTTP.Addr,
			"tls", cfg.Server.HTTP.TLSCertFile != "")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from file and environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// initLogger initializes the structured logger and sets it as default.
func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)
	return log, nil
}

// initStore opens the configured credential store backend.
func initStore(cfg *config.ServerConfig) (storage.CredentialStore, error) {
	switch cfg.Storage.Backend {
	case "badger":
		storeCfg := badgerstore.DefaultConfig(cfg.Storage.DataDir)
		storeCfg.SyncWrites = cfg.Storage.SyncWrites
		if cfg.Storage.GCInterval > 0 {
			storeCfg.GCInterval = cfg.Storage.GCInterval
		}
		return badgerstore.New(storeCfg, slog.Default())
	default:
		return memory.New(), nil
	}
}

// seedEntries converts configured seed users into store seed entries.
func seedEntries(cfg *config.ServerConfig) []storage.SeedEntry {
	entries := make([]storage.SeedEntry, len(cfg.Auth.Seeds))
	for i, seed := range cfg.Auth.Seeds {
		entries[i] = storage.SeedEntry{
			Identity:   seed.Identity,
			Secret:     seed.Secret,
			SecretHash: seed.SecretHash,
			Scope:      domain.Scope(seed.Scope),
		}
	}
	return entries
}
