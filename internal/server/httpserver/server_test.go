package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yndnr/relaymesh-go/internal/core/domain"
	"github.com/yndnr/relaymesh-go/internal/core/service"
	"github.com/yndnr/relaymesh-go/internal/storage/memory"
	"github.com/yndnr/relaymesh-go/internal/telemetry/metric"
)

func TestNew(t *testing.T) {
	s := New(":8080", okHandler())
	if s == nil {
		t.Fatal("New returned nil")
	}
	if s.httpServer == nil {
		t.Error("httpServer is nil")
	}
	if s.handler == nil {
		t.Error("handler is nil")
	}
}

func TestNewWithOptions_Timeouts(t *testing.T) {
	s, err := NewWithOptions(":8080", okHandler(), Options{
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewWithOptions: %v", err)
	}
	if s.httpServer.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %v", s.httpServer.ReadTimeout)
	}
	if s.httpServer.WriteTimeout != 10*time.Second {
		t.Errorf("WriteTimeout = %v", s.httpServer.WriteTimeout)
	}
}

func TestNewWithOptions_BadClientCA(t *testing.T) {
	_, err := NewWithOptions(":8080", okHandler(), Options{
		TLSClientCAFile: "/nonexistent/ca.pem",
	})
	if err == nil {
		t.Error("expected error for missing client CA file")
	}
}

func TestServer_Shutdown(t *testing.T) {
	s := New("127.0.0.1:0", okHandler())

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.ListenAndServe()
	}()

	// Give server time to start
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown error: %v", err)
	}

	select {
	case err := <-errChan:
		if err != nil && err != http.ErrServerClosed {
			t.Errorf("ListenAndServe returned unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Error("timeout waiting for ListenAndServe to return")
	}
}

func TestDefaultRouterConfig(t *testing.T) {
	cfg := DefaultRouterConfig()
	if cfg == nil {
		t.Fatal("DefaultRouterConfig returned nil")
	}
	if cfg.GlobalRateRPS <= 0 {
		t.Error("GlobalRateRPS should be positive")
	}
	if cfg.GlobalRateBurst <= 0 {
		t.Error("GlobalRateBurst should be positive")
	}
}

// newTestRouter wires real services behind the full router.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	store := memory.New()
	cred, err := domain.NewCredential("alice", "alice-secret-1", domain.ScopeUser)
	if err != nil {
		t.Fatalf("NewCredential: %v", err)
	}
	if err := store.Create(context.Background(), cred); err != nil {
		t.Fatalf("Create: %v", err)
	}

	tokens, err := service.NewTokenService([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	authSvc, err := service.NewAuthService(store, tokens, service.DefaultAuthServiceConfig())
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}

	return NewRouter(&RouterConfig{
		AuthService: authSvc,
		Relay:       service.NewRelay(service.DefaultRelayConfig()),
		Metrics:     metric.NewRegistry(),
		Logger:      testLogger(t),
	})
}

func TestNewRouter_Endpoints(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"ready", http.MethodGet, "/ready", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"login", http.MethodPost, "/login", `{"identity":"alice","secret":"alice-secret-1"}`, http.StatusOK},
		{"admin without token", http.MethodGet, "/admin", "", http.StatusUnauthorized},
		{"unknown path", http.MethodGet, "/nope", "", http.StatusNotFound},
		{"login wrong method", http.MethodGet, "/login", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, bytes.NewReader([]byte(tt.body)))
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestNewRouter_LoginEnvelope(t *testing.T) {
	router := newTestRouter(t)

	body := []byte(`{"identity":"alice","secret":"alice-secret-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Code      string `json:"code"`
		RequestID string `json:"request_id"`
		Data      struct {
			Token string `json:"token"`
			Scope string `json:"scope"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Code != "OK" {
		t.Errorf("code = %s, want OK", envelope.Code)
	}
	if envelope.RequestID == "" {
		t.Error("request_id missing from envelope")
	}
	if envelope.Data.Token == "" {
		t.Error("token missing from login data")
	}
	if envelope.Data.Scope != "user" {
		t.Errorf("scope = %s, want user", envelope.Data.Scope)
	}
}

func TestNewRouter_ChannelHandler(t *testing.T) {
	called := false
	router := NewRouter(&RouterConfig{
		Logger: testLogger(t),
		ChannelHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusSwitchingProtocols)
		}),
	})

	req := httptest.NewRequest(http.MethodGet, "/channel", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Error("channel handler not mounted at /channel")
	}
}
