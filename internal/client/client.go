// Package client provides the RelayMesh session controller: login over
// HTTP, the admin surface, and websocket channel connections.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yndnr/relaymesh-go/internal/core/domain"
	"github.com/yndnr/relaymesh-go/internal/infra/tlsroots"
	"github.com/yndnr/relaymesh-go/internal/telemetry/logger"
)

// Client talks to a RelayMesh server.
type Client struct {
	baseURL   string
	http      *http.Client
	tlsConfig *tls.Config
	logger    logger.Logger
}

// Config holds client configuration.
type Config struct {
	// ServerURL is the server base URL; a bare host:port gets an
	// http:// prefix.
	ServerURL string

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// TLSCAFile adds a custom root CA for https/wss connections.
	TLSCAFile string

	// InsecureSkipVerify disables server certificate verification.
	InsecureSkipVerify bool

	// Logger is optional.
	Logger logger.Logger
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	baseURL := cfg.ServerURL
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	var tlsConfig *tls.Config
	if cfg.TLSCAFile != "" {
		pool := tlsroots.NewEmptyPool()
		if err := pool.AddCertFile(cfg.TLSCAFile); err != nil {
			return nil, err
		}
		tlsConfig = pool.TLSConfig()
	}
	if cfg.InsecureSkipVerify {
		if tlsConfig == nil {
			tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		tlsConfig.InsecureSkipVerify = true
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if tlsConfig != nil {
		transport.TLSClientConfig = tlsConfig
	}

	return &Client{
		baseURL:   baseURL,
		tlsConfig: tlsConfig,
		logger:    log,
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}, nil
}

// BaseURL returns the server base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	Subject   string
	Scope     string
	ExpiresAt time.Time
}

// Login validates credentials against the server and returns a session.
// Server-side error codes come back as DomainErrors, so callers can
// distinguish invalid credentials from rate limiting with errors.Is.
func (c *Client) Login(ctx context.Context, identity, secret string) (*Session, error) {
	var data struct {
		Token     string    `json:"token"`
		Subject   string    `json:"subject"`
		Scope     string    `json:"scope"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	if err := c.postJSON(ctx, "/login", map[string]string{
		"identity": identity,
		"secret":   secret,
	}, &data); err != nil {
		return nil, err
	}

	return &Session{
		Token:     data.Token,
		Subject:   data.Subject,
		Scope:     data.Scope,
		ExpiresAt: data.ExpiresAt,
	}, nil
}

// Admin fetches the admin greeting using the given token.
func (c *Client) Admin(ctx context.Context, token string) (string, error) {
	var data struct {
		Message string `json:"message"`
	}
	if err := c.getJSON(ctx, "/admin", token, &data); err != nil {
		return "", err
	}
	return data.Message, nil
}

// envelope mirrors the server's JSON response envelope.
type envelope struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return domain.ErrInvalidArgument.WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return domain.ErrInvalidArgument.WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return domain.ErrInvalidArgument.WithCause(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return domain.ErrUpstreamUnavailable.WithCause(err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return domain.ErrUpstreamUnavailable.WithDetails(
			fmt.Sprintf("unparseable response, status %d", resp.StatusCode)).WithCause(err)
	}

	if resp.StatusCode >= 400 || env.Code != "OK" {
		// Reconstruct the server-side error; DomainError equality is
		// by code, so errors.Is against the sentinels still works.
		return domain.NewDomainError(env.Code, env.Message)
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return domain.ErrUpstreamUnavailable.WithCause(err)
		}
	}
	return nil
}
