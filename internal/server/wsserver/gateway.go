// Package wsserver provides the websocket channel gateway for RelayMesh.
package wsserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yndnr/relaymesh-go/internal/core/domain"
	"github.com/yndnr/relaymesh-go/internal/core/service"
	"github.com/yndnr/relaymesh-go/internal/telemetry/logger"
	"github.com/yndnr/relaymesh-go/internal/telemetry/metric"
)

// Default handshake and keepalive timings.
const (
	DefaultAuthDeadline = 10 * time.Second
	DefaultWriteWait    = 10 * time.Second
	DefaultPingInterval = 30 * time.Second
	DefaultPongWait     = 60 * time.Second

	// maxFrameSize bounds inbound frames; payloads are capped at 4KB
	// so anything larger is protocol abuse.
	maxFrameSize = 8192
)

// Config holds gateway configuration.
type Config struct {
	// AuthDeadline is how long a connection may stay unauthenticated
	// before it is rejected with a missing-token error.
	AuthDeadline time.Duration

	// WriteWait is the per-write deadline.
	WriteWait time.Duration

	// PingInterval is how often the server pings idle connections.
	PingInterval time.Duration

	// PongWait is how long to wait for a pong before dropping the
	// connection. Must exceed PingInterval.
	PongWait time.Duration
}

// DefaultConfig returns the default gateway configuration.
func DefaultConfig() Config {
	return Config{
		AuthDeadline: DefaultAuthDeadline,
		WriteWait:    DefaultWriteWait,
		PingInterval: DefaultPingInterval,
		PongWait:     DefaultPongWait,
	}
}

// Gateway upgrades HTTP connections to websocket channels, runs the
// token handshake and bridges authenticated connections to the relay.
type Gateway struct {
	auth    *service.AuthService
	relay   *service.Relay
	metrics *metric.Registry
	logger  logger.Logger
	config  Config

	upgrader websocket.Upgrader
}

// New creates a Gateway. The metrics registry is optional.
func New(auth *service.AuthService, relay *service.Relay, metrics *metric.Registry, log logger.Logger, cfg Config) *Gateway {
	if log == nil {
		log = logger.Default()
	}
	if cfg.AuthDeadline <= 0 {
		cfg.AuthDeadline = DefaultAuthDeadline
	}
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = DefaultWriteWait
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = DefaultPingInterval
	}
	if cfg.PongWait <= cfg.PingInterval {
		cfg.PongWait = 2 * cfg.PingInterval
	}

	return &Gateway{
		auth:    auth,
		relay:   relay,
		metrics: metrics,
		logger:  log,
		config:  cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Token auth happens after the upgrade; origin checks are
			// left to a fronting proxy.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP implements http.Handler for the channel endpoint.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		g.logger.Warn("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	channel, err := domain.NewChannel()
	if err != nil {
		g.logger.Error("channel creation failed", "error", err)
		ws.Close()
		return
	}

	log := g.logger.With("channel_id", channel.ID, "remote", r.RemoteAddr)

	token, err := g.handshake(ws, r)
	if err != nil {
		reason := domain.RejectReasonFor(err)
		channel.Reject(reason)
		if g.metrics != nil {
			g.metrics.ChannelRejects.WithLabelValues(string(reason)).Inc()
		}
		log.Warn("channel rejected", "reason", string(reason))

		g.writeControl(ws, &OutboundFrame{
			Type:   FrameError,
			Code:   domain.GetErrorCode(err),
			Reason: string(reason),
		})
		ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, string(reason)),
			time.Now().Add(g.config.WriteWait))
		ws.Close()
		return
	}

	if err := channel.Authenticate(token.Subject, token.Scope); err != nil {
		log.Error("channel authenticate failed", "error", err)
		ws.Close()
		return
	}

	sub, err := g.relay.Register(r.Context(), channel)
	if err != nil {
		log.Error("relay register failed", "error", err)
		ws.Close()
		return
	}

	if g.metrics != nil {
		g.metrics.ChannelsActive.Inc()
	}
	log.Info("channel authenticated", "subject", token.Subject, "scope", string(token.Scope))

	g.writeControl(ws, &OutboundFrame{
		Type:      FrameWelcome,
		ChannelID: channel.ID,
		Subject:   token.Subject,
		Scope:     string(token.Scope),
	})

	c := &conn{
		gateway: g,
		ws:      ws,
		channel: channel,
		sub:     sub,
		logger:  log,
		errs:    make(chan *OutboundFrame, 4),
		done:    make(chan struct{}),
	}
	go c.writePump()
	c.readPump()
}

// handshake obtains and verifies the bearer token. A token presented in
// the Authorization header at upgrade time wins; otherwise the first
// frame must be an auth frame arriving before the deadline.
func (g *Gateway) handshake(ws *websocket.Conn, r *http.Request) (*domain.Token, error) {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		return g.auth.VerifyToken(r.Context(), raw)
	}

	ws.SetReadLimit(maxFrameSize)
	if err := ws.SetReadDeadline(time.Now().Add(g.config.AuthDeadline)); err != nil {
		return nil, domain.ErrTokenMissing.WithCause(err)
	}

	var frame InboundFrame
	if err := ws.ReadJSON(&frame); err != nil {
		// Deadline expiry, disconnect and malformed JSON all count as
		// never having presented a token.
		return nil, domain.ErrTokenMissing.WithCause(err)
	}

	if frame.Type != FrameAuth {
		return nil, domain.ErrTokenMissing.WithDetails("first frame must be auth")
	}
	return g.auth.VerifyToken(r.Context(), frame.Token)
}

// writeControl writes a single frame with the configured write deadline.
func (g *Gateway) writeControl(ws *websocket.Conn, frame *OutboundFrame) {
	ws.SetWriteDeadline(time.Now().Add(g.config.WriteWait))
	if err := ws.WriteJSON(frame); err != nil {
		g.logger.Warn("frame write failed", "type", frame.Type, "error", err)
	}
}
