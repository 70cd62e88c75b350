// Package httpserver provides the HTTP/HTTPS server for RelayMesh.
package httpserver

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"

	"github.com/yndnr/relaymesh-go/internal/infra/tlsroots"
)

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	certFile   string
	keyFile    string
}

// Options configures optional server behavior.
type Options struct {
	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out response writes.
	// Leave zero when the handler serves long-lived websocket connections.
	WriteTimeout time.Duration

	// TLSCertFile and TLSKeyFile enable TLS when both are set.
	TLSCertFile string
	TLSKeyFile  string

	// TLSClientCAFile enables mutual TLS: client certificates must chain
	// to a root in this PEM bundle.
	TLSClientCAFile string
}

// New creates a new HTTP server.
func New(addr string, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: handler,
		},
		handler: handler,
	}
}

// NewWithOptions creates an HTTP server with timeouts and optional TLS.
func NewWithOptions(addr string, handler http.Handler, opts Options) (*Server, error) {
	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
		},
		handler:  handler,
		certFile: opts.TLSCertFile,
		keyFile:  opts.TLSKeyFile,
	}

	if opts.TLSClientCAFile != "" {
		pool := tlsroots.NewEmptyPool()
		if err := pool.AddCertFile(opts.TLSClientCAFile); err != nil {
			return nil, err
		}
		s.httpServer.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
			ClientAuth: tls.RequireAndVerifyClientCert,
			ClientCAs:  pool.Pool(),
		}
	}

	return s, nil
}

// ListenAndServe starts the server, with TLS when cert and key files
// were configured.
func (s *Server) ListenAndServe() error {
	if s.certFile != "" && s.keyFile != "" {
		return s.httpServer.ListenAndServeTLS(s.certFile, s.keyFile)
	}
	return s.httpServer.ListenAndServe()
}

// ListenAndServeTLS starts the HTTPS server.
func (s *Server) ListenAndServeTLS(certFile, keyFile string) error {
	return s.httpServer.ListenAndServeTLS(certFile, keyFile)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
