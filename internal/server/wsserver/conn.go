// Package wsserver provides the websocket channel gateway for RelayMesh.
package wsserver

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yndnr/relaymesh-go/internal/core/domain"
	"github.com/yndnr/relaymesh-go/internal/core/service"
	"github.com/yndnr/relaymesh-go/internal/telemetry/logger"
)

// conn bridges one authenticated websocket connection to the relay.
// The read pump publishes inbound message frames; the write pump drains
// the relay outbox. Read and write never share the socket concurrently.
type conn struct {
	gateway *Gateway
	ws      *websocket.Conn
	channel *domain.Channel
	sub     *service.Subscription
	logger  logger.Logger

	// errs carries publish error frames from the read pump to the
	// write pump, which owns all socket writes after the handshake.
	errs chan *OutboundFrame

	done      chan struct{}
	closeOnce sync.Once
}

// teardown releases the relay registration and closes the socket.
// Safe to call from either pump; only the first call does work.
func (c *conn) teardown() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.gateway.relay.Deregister(context.Background(), c.channel.ID)
		if c.channel.Close() {
			c.logger.Info("channel closed", "dropped", c.sub.Dropped())
		}
		if c.gateway.metrics != nil {
			c.gateway.metrics.ChannelsActive.Dec()
		}
		c.ws.Close()
	})
}

// readPump reads frames until the connection drops and publishes
// message payloads to the relay.
func (c *conn) readPump() {
	defer c.teardown()

	cfg := c.gateway.config
	c.ws.SetReadLimit(maxFrameSize)
	c.ws.SetReadDeadline(time.Now().Add(cfg.PongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(cfg.PongWait))
	})

	for {
		var frame InboundFrame
		if err := c.ws.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn("connection dropped", "error", err)
			}
			return
		}

		if frame.Type != FrameMessage {
			continue
		}

		resp, err := c.gateway.relay.Publish(context.Background(), &service.PublishRequest{
			ChannelID: c.channel.ID,
			Payload:   frame.Payload,
		})
		if err != nil {
			// Invalid payloads fail the publish but keep the
			// connection; the client gets an error frame instead.
			select {
			case c.errs <- &OutboundFrame{
				Type:   FrameError,
				Code:   domain.GetErrorCode(err),
				Reason: err.Error(),
			}:
			default:
			}
			continue
		}

		if m := c.gateway.metrics; m != nil {
			m.MessagesPublished.Inc()
			m.MessagesDelivered.Add(float64(resp.Delivered))
			m.MessagesDropped.Add(float64(resp.Dropped))
		}
	}
}

// writePump drains the relay outbox to the socket and keeps the
// connection alive with pings. Exits when the outbox closes (channel
// deregistered) or a write fails.
func (c *conn) writePump() {
	cfg := c.gateway.config
	ticker := time.NewTicker(cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.teardown()
	}()

	for {
		select {
		case msg, ok := <-c.sub.Outbox():
			c.ws.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.ws.WriteJSON(&OutboundFrame{
				Type:      FrameMessage,
				ChannelID: msg.ChannelID,
				Seq:       msg.Seq,
				Payload:   msg.Payload,
				SentAt:    msg.SentAt,
			}); err != nil {
				c.logger.Warn("message write failed", "error", err)
				return
			}

		case frame := <-c.errs:
			c.ws.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if err := c.ws.WriteJSON(frame); err != nil {
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}
