package command

import (
	"context"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/yndnr/relaymesh-go/internal/core/domain"
	"github.com/yndnr/relaymesh-go/internal/core/service"
	"github.com/yndnr/relaymesh-go/internal/server/httpserver"
	"github.com/yndnr/relaymesh-go/internal/server/wsserver"
	"github.com/yndnr/relaymesh-go/internal/storage/memory"
	"github.com/yndnr/relaymesh-go/internal/telemetry/logger"
	"github.com/yndnr/relaymesh-go/internal/telemetry/metric"
)

// newTestServer stands up the full HTTP+websocket surface with two
// seeded credentials: alice (user) and root (admin).
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	log, err := logger.New(logger.Config{Level: "error", Format: "json", Output: io.Discard})
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}

	store := memory.New()
	for _, seed := range []struct {
		identity, secret string
		scope            domain.Scope
	}{
		{"alice", "alice-secret-1", domain.ScopeUser},
		{"root", "root-secret-99", domain.ScopeAdmin},
	} {
		cred, err := domain.NewCredential(seed.identity, seed.secret, seed.scope)
		if err != nil {
			t.Fatalf("NewCredential: %v", err)
		}
		if err := store.Create(context.Background(), cred); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	tokens, err := service.NewTokenService([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	authSvc, err := service.NewAuthService(store, tokens, &service.AuthServiceConfig{
		LoginRate:  1000,
		LoginBurst: 1000,
	})
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}

	relay := service.NewRelay(service.DefaultRelayConfig())
	gateway := wsserver.New(authSvc, relay, nil, log, wsserver.DefaultConfig())

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		AuthService:    authSvc,
		Relay:          relay,
		Metrics:        metric.NewRegistry(),
		Logger:         log,
		ChannelHandler: gateway,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

// cliEnv bundles a running server with an isolated CLI config file.
type cliEnv struct {
	server     *httptest.Server
	configPath string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	return &cliEnv{
		server:     newTestServer(t),
		configPath: filepath.Join(t.TempDir(), "cli.yaml"),
	}
}

// run executes the CLI with global flags pointing at the test server.
func (e *cliEnv) run(args ...string) error {
	full := []string{"relaymesh-cli", "--server", e.server.URL, "--config", e.configPath}
	full = append(full, args...)
	return App().Run(full)
}
