// Package client provides the RelayMesh session controller.
package client

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yndnr/relaymesh-go/internal/core/domain"
	"github.com/yndnr/relaymesh-go/internal/server/wsserver"
	"github.com/yndnr/relaymesh-go/internal/telemetry/logger"
)

// State is the lifecycle state of a channel handle.
type State string

// Channel handle states.
const (
	StateConnecting    State = "connecting"
	StateAuthenticated State = "authenticated"
	StateRejected      State = "rejected"
	StateClosed        State = "closed"
)

// Message is a message delivered on a channel.
type Message struct {
	ChannelID string
	Seq       uint64
	Payload   string
	SentAt    time.Time
}

// MessageHandler is called once per delivered message, in delivery order.
type MessageHandler func(Message)

// StateHandler is called on every state transition.
type StateHandler func(State)

// ChannelHandle is a live websocket channel. Handlers must be installed
// before the reader observes traffic; install them right after Connect.
type ChannelHandle struct {
	ws        *websocket.Conn
	channelID string
	subject   string
	logger    logger.Logger

	mu        sync.Mutex
	state     State
	onMessage MessageHandler
	onState   StateHandler
	closeErr  error

	done      chan struct{}
	closeOnce sync.Once
}

// Connect dials the server's channel endpoint, presents the token as
// the first frame and waits for the welcome. A handshake rejection
// returns the server's error with its reject reason in the details.
func (c *Client) Connect(ctx context.Context, token string) (*ChannelHandle, error) {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/channel"

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
		TLSClientConfig:  c.tlsConfig,
	}

	ws, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, domain.ErrUpstreamUnavailable.WithCause(err)
	}

	h := &ChannelHandle{
		ws:     ws,
		state:  StateConnecting,
		logger: c.logger,
		done:   make(chan struct{}),
	}

	if err := ws.WriteJSON(&wsserver.InboundFrame{
		Type:  wsserver.FrameAuth,
		Token: token,
	}); err != nil {
		ws.Close()
		return nil, domain.ErrUpstreamUnavailable.WithCause(err)
	}

	var frame wsserver.OutboundFrame
	ws.SetReadDeadline(time.Now().Add(15 * time.Second))
	if err := ws.ReadJSON(&frame); err != nil {
		ws.Close()
		return nil, domain.ErrUpstreamUnavailable.WithCause(err)
	}
	ws.SetReadDeadline(time.Time{})

	switch frame.Type {
	case wsserver.FrameWelcome:
		h.channelID = frame.ChannelID
		h.subject = frame.Subject
		h.setState(StateAuthenticated)
	case wsserver.FrameError:
		h.setState(StateRejected)
		ws.Close()
		return nil, domain.NewDomainError(frame.Code, "channel rejected").WithDetails(frame.Reason)
	default:
		ws.Close()
		return nil, domain.ErrUpstreamUnavailable.WithDetails("unexpected handshake frame: " + frame.Type)
	}

	go h.readLoop()
	return h, nil
}

// ChannelID returns the server-assigned channel id.
func (h *ChannelHandle) ChannelID() string {
	return h.channelID
}

// Subject returns the authenticated identity.
func (h *ChannelHandle) Subject() string {
	return h.subject
}

// State returns the current handle state.
func (h *ChannelHandle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Err returns the error that terminated the connection, if any.
func (h *ChannelHandle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closeErr
}

// OnMessage installs the message handler. Messages are dispatched one
// at a time, in delivery order, from a single reader goroutine.
func (h *ChannelHandle) OnMessage(fn MessageHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onMessage = fn
}

// OnStateChange installs the state transition handler.
func (h *ChannelHandle) OnStateChange(fn StateHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onState = fn
}

// Send publishes a text payload on the channel. Sending on a channel
// that is not Authenticated fails with ChannelNotReady and returns the
// rejected input in the error details; it is never silently dropped.
func (h *ChannelHandle) Send(text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != StateAuthenticated {
		return domain.ErrChannelNotReady.WithDetails("undelivered input: " + text)
	}

	h.ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := h.ws.WriteJSON(&wsserver.InboundFrame{
		Type:    wsserver.FrameMessage,
		Payload: text,
	}); err != nil {
		return domain.ErrUpstreamUnavailable.WithDetails("undelivered input: " + text).WithCause(err)
	}
	return nil
}

// Close terminates the channel. Idempotent.
func (h *ChannelHandle) Close() error {
	h.closeOnce.Do(func() {
		close(h.done)
		h.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		h.ws.Close()
		h.setState(StateClosed)
	})
	return nil
}

// setState transitions the handle and fires the state handler outside
// terminal no-ops.
func (h *ChannelHandle) setState(s State) {
	h.mu.Lock()
	if h.state == s || h.state == StateClosed || h.state == StateRejected {
		h.mu.Unlock()
		return
	}
	h.state = s
	fn := h.onState
	h.mu.Unlock()

	if fn != nil {
		fn(s)
	}
}

// readLoop is the single reader goroutine: it dispatches message frames
// in arrival order and transitions to Closed when the connection ends.
func (h *ChannelHandle) readLoop() {
	defer func() {
		h.setState(StateClosed)
		h.ws.Close()
	}()

	for {
		var frame wsserver.OutboundFrame
		if err := h.ws.ReadJSON(&frame); err != nil {
			select {
			case <-h.done:
				// Local close; not an error.
			default:
				h.mu.Lock()
				h.closeErr = err
				h.mu.Unlock()
			}
			return
		}

		switch frame.Type {
		case wsserver.FrameMessage:
			h.mu.Lock()
			fn := h.onMessage
			h.mu.Unlock()
			if fn != nil {
				fn(Message{
					ChannelID: frame.ChannelID,
					Seq:       frame.Seq,
					Payload:   frame.Payload,
					SentAt:    time.UnixMilli(frame.SentAt),
				})
			}
		case wsserver.FrameError:
			h.logger.Warn("server error frame", "code", frame.Code, "reason", frame.Reason)
		}
	}
}
