// Package service provides domain services for RelayMesh.
//
// Relay distributes messages between authenticated channels with
// per-channel ordering and bounded, drop-oldest outboxes.
package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/yndnr/relaymesh-go/internal/core/domain"
	"github.com/yndnr/relaymesh-go/pkg/cmap"
)

// DefaultOutboxSize is the default per-channel outbox capacity.
const DefaultOutboxSize = 32

// RoutingPolicy selects which channels receive a published message.
type RoutingPolicy string

// Routing policies.
const (
	// RouteAll delivers every message to every registered channel.
	RouteAll RoutingPolicy = "all"

	// RouteScope delivers only to channels whose scope matches the
	// sender's scope.
	RouteScope RoutingPolicy = "scope"
)

// ParseRoutingPolicy parses and validates a routing policy string.
func ParseRoutingPolicy(s string) (RoutingPolicy, error) {
	switch RoutingPolicy(s) {
	case RouteAll:
		return RouteAll, nil
	case RouteScope:
		return RouteScope, nil
	default:
		return "", domain.ErrInvalidArgument.WithDetails("unknown routing policy: " + s)
	}
}

// Relay distributes published messages to registered channels.
//
// Each registered channel gets a bounded outbox. When an outbox is
// full the oldest queued message is evicted to make room, so slow
// consumers lose old messages rather than stalling publishers.
// Messages from one channel are always enqueued in publish order.
type Relay struct {
	subscribers *cmap.Map[*Subscription]
	policy      RoutingPolicy
	outboxSize  int

	published atomic.Uint64
	delivered atomic.Uint64
	dropped   atomic.Uint64
}

// RelayConfig holds configuration for the Relay.
type RelayConfig struct {
	// Policy selects message routing (all or scope).
	Policy RoutingPolicy

	// OutboxSize is the per-channel outbox capacity.
	OutboxSize int
}

// DefaultRelayConfig returns default configuration.
func DefaultRelayConfig() *RelayConfig {
	return &RelayConfig{
		Policy:     RouteAll,
		OutboxSize: DefaultOutboxSize,
	}
}

// NewRelay creates a new Relay.
func NewRelay(config *RelayConfig) *Relay {
	if config == nil {
		config = DefaultRelayConfig()
	}
	if config.OutboxSize <= 0 {
		config.OutboxSize = DefaultOutboxSize
	}
	if config.Policy == "" {
		config.Policy = RouteAll
	}

	return &Relay{
		subscribers: cmap.New[*Subscription](),
		policy:      config.Policy,
		outboxSize:  config.OutboxSize,
	}
}

// Subscription is a channel's registration with the relay.
type Subscription struct {
	channel *domain.Channel
	outbox  chan *domain.Message

	mu      sync.Mutex
	closed  bool
	dropped uint64
}

// Channel returns the registered domain channel.
func (sub *Subscription) Channel() *domain.Channel {
	return sub.channel
}

// Outbox returns the delivery queue for this subscription.
// The channel is closed when the subscription is deregistered.
func (sub *Subscription) Outbox() <-chan *domain.Message {
	return sub.outbox
}

// Dropped returns the number of messages evicted from this outbox.
func (sub *Subscription) Dropped() uint64 {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	return sub.dropped
}

// enqueue appends msg, evicting the oldest queued message if full.
// Returns (delivered, droppedOne). Enqueues for one subscription are
// serialized so a sender's messages keep their publish order.
func (sub *Subscription) enqueue(msg *domain.Message) (bool, bool) {
	sub.mu.Lock()
	defer sub.mu.Unlock()

	if sub.closed {
		return false, false
	}

	select {
	case sub.outbox <- msg:
		return true, false
	default:
	}

	// Outbox full: evict the oldest entry. Only the consumer removes
	// entries concurrently, so after one eviction there is room.
	evicted := false
	select {
	case <-sub.outbox:
		evicted = true
		sub.dropped++
	default:
	}

	select {
	case sub.outbox <- msg:
		return true, evicted
	default:
		return false, evicted
	}
}

// close closes the outbox exactly once.
func (sub *Subscription) close() {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed {
		return
	}
	sub.closed = true
	close(sub.outbox)
}

// Register adds an authenticated channel to the relay and returns its
// subscription. Registering an already-registered channel returns the
// existing subscription.
func (r *Relay) Register(_ context.Context, ch *domain.Channel) (*Subscription, error) {
	if ch == nil {
		return nil, domain.ErrMissingArgument.WithDetails("channel is required")
	}
	if ch.State() != domain.StateAuthenticated {
		return nil, domain.ErrChannelNotReady.WithDetails("channel must be authenticated")
	}

	sub := &Subscription{
		channel: ch,
		outbox:  make(chan *domain.Message, r.outboxSize),
	}

	if !r.subscribers.SetIfAbsent(ch.ID, sub) {
		existing, _ := r.subscribers.Get(ch.ID)
		return existing, nil
	}
	return sub, nil
}

// Deregister removes a channel from the relay and closes its outbox.
// Deregistering an unknown channel is a no-op.
func (r *Relay) Deregister(_ context.Context, channelID string) {
	if sub, ok := r.subscribers.Pop(channelID); ok {
		sub.close()
	}
}

// PublishRequest contains parameters for publishing a message.
type PublishRequest struct {
	// ChannelID is the originating channel.
	ChannelID string

	// Payload is the plain-text message body.
	Payload string
}

// PublishResponse contains the published message and delivery counts.
type PublishResponse struct {
	Message   *domain.Message
	Delivered int
	Dropped   int
}

// Publish stamps a message with the origin channel's next sequence
// number and distributes it to subscribers per the routing policy.
// The sender receives its own messages.
func (r *Relay) Publish(_ context.Context, req *PublishRequest) (*PublishResponse, error) {
	sender, ok := r.subscribers.Get(req.ChannelID)
	if !ok {
		return nil, domain.ErrChannelNotFound.WithDetails("channel not registered: " + req.ChannelID)
	}

	msg := domain.NewMessage(req.ChannelID, 0, req.Payload)
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	msg.Seq = sender.channel.NextSeq()

	senderScope := sender.channel.Scope

	resp := &PublishResponse{Message: msg}
	r.subscribers.Range(func(_ string, sub *Subscription) bool {
		if r.policy == RouteScope && sub.channel.Scope != senderScope {
			return true
		}

		delivered, dropped := sub.enqueue(msg)
		if delivered {
			resp.Delivered++
		}
		if dropped {
			resp.Dropped++
		}
		return true
	})

	r.published.Add(1)
	r.delivered.Add(uint64(resp.Delivered))
	r.dropped.Add(uint64(resp.Dropped))

	return resp, nil
}

// RelayStats is a point-in-time snapshot of relay activity.
type RelayStats struct {
	Channels  int            `json:"channels"`
	ByScope   map[string]int `json:"by_scope"`
	Published uint64         `json:"published"`
	Delivered uint64         `json:"delivered"`
	Dropped   uint64         `json:"dropped"`
}

// Stats returns current relay statistics.
func (r *Relay) Stats() *RelayStats {
	stats := &RelayStats{
		ByScope:   make(map[string]int),
		Published: r.published.Load(),
		Delivered: r.delivered.Load(),
		Dropped:   r.dropped.Load(),
	}

	r.subscribers.Range(func(_ string, sub *Subscription) bool {
		stats.Channels++
		stats.ByScope[string(sub.channel.Scope)]++
		return true
	})
	return stats
}

// ChannelCounts returns registered channel counts per scope.
// Implements the metrics stats source.
func (r *Relay) ChannelCounts() map[string]int {
	return r.Stats().ByScope
}

// Shutdown deregisters all channels and closes their outboxes.
func (r *Relay) Shutdown(_ context.Context) {
	var ids []string
	r.subscribers.Range(func(id string, _ *Subscription) bool {
		ids = append(ids, id)
		return true
	})
	for _, id := range ids {
		if sub, ok := r.subscribers.Pop(id); ok {
			sub.close()
		}
	}
}
