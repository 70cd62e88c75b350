// Package domain defines the core domain models for RelayMesh.
package domain

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ChannelIDPrefix is the prefix for channel IDs.
// Format: rmch-{ulid_lowercase}, 31 characters total.
const ChannelIDPrefix = "rmch-"

// ChannelState is the lifecycle state of a channel.
type ChannelState string

// Channel lifecycle states.
//
// Server-side channels move Connecting -> Authenticated -> Closed, or
// Connecting -> Rejected. The client additionally observes Open between
// a successful dial and the authentication handshake completing.
const (
	StateConnecting    ChannelState = "connecting"
	StateOpen          ChannelState = "open"
	StateAuthenticated ChannelState = "authenticated"
	StateClosed        ChannelState = "closed"
	StateRejected      ChannelState = "rejected"
)

// RejectReason explains why a channel was rejected during the handshake.
type RejectReason string

// Reject reasons.
const (
	RejectMissingToken   RejectReason = "missing_token"
	RejectExpiredToken   RejectReason = "expired_token"
	RejectInvalidToken   RejectReason = "invalid_signature"
	RejectMalformedToken RejectReason = "malformed_token"
)

// RejectReasonFor maps a token verification error to a reject reason.
func RejectReasonFor(err error) RejectReason {
	switch {
	case IsDomainError(err, ErrTokenMissing.Code):
		return RejectMissingToken
	case IsDomainError(err, ErrTokenExpired.Code):
		return RejectExpiredToken
	case IsDomainError(err, ErrTokenSignature.Code):
		return RejectInvalidToken
	default:
		return RejectMalformedToken
	}
}

// validTransitions lists the allowed channel state transitions.
var validTransitions = map[ChannelState][]ChannelState{
	StateConnecting:    {StateOpen, StateAuthenticated, StateRejected, StateClosed},
	StateOpen:          {StateAuthenticated, StateRejected, StateClosed},
	StateAuthenticated: {StateClosed},
}

// Channel is one duplex real-time connection instance.
//
// A channel is created in Connecting state when a connection attempt
// arrives, lives exactly as long as its underlying connection, and is
// never reused across reconnects. Per-channel sequence assignment is
// serialized internally; state reads and writes are safe for concurrent
// use.
type Channel struct {
	// ID is the unique channel identifier (rmch-{ulid}).
	ID string

	// Subject is the authenticated identity, or empty while anonymous.
	Subject string

	// Scope is the privilege tier of the authenticated subject.
	Scope Scope

	// CreatedAt is the channel creation timestamp (Unix milliseconds).
	CreatedAt int64

	mu      sync.Mutex
	state   ChannelState
	lastSeq uint64
	reason  RejectReason
}

// NewChannel creates a Channel in Connecting state with a generated ID.
func NewChannel() (*Channel, error) {
	id, err := GenerateChannelID()
	if err != nil {
		return nil, err
	}
	return &Channel{
		ID:        id,
		CreatedAt: time.Now().UnixMilli(),
		state:     StateConnecting,
	}, nil
}

// GenerateChannelID generates a new channel ID using ULID.
func GenerateChannelID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", ErrInternalServer.WithCause(err)
	}
	return ChannelIDPrefix + strings.ToLower(id.String()), nil
}

// State returns the current channel state.
func (c *Channel) State() ChannelState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// TransitionTo moves the channel to state s.
// Returns ErrChannelState if the transition is not allowed.
func (c *Channel) TransitionTo(s ChannelState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transitionLocked(s)
}

func (c *Channel) transitionLocked(s ChannelState) error {
	for _, allowed := range validTransitions[c.state] {
		if s == allowed {
			c.state = s
			return nil
		}
	}
	return ErrChannelState.WithDetails(string(c.state) + " -> " + string(s))
}

// Authenticate binds the subject and scope from a verified token and
// moves the channel to Authenticated.
func (c *Channel) Authenticate(subject string, scope Scope) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.transitionLocked(StateAuthenticated); err != nil {
		return err
	}
	c.Subject = subject
	c.Scope = scope
	return nil
}

// Reject moves the channel to Rejected, recording the reason.
// Rejecting an already-terminal channel is a no-op.
func (c *Channel) Reject(reason RejectReason) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateRejected || c.state == StateClosed {
		return
	}
	c.state = StateRejected
	c.reason = reason
}

// RejectedReason returns the recorded reject reason, if any.
func (c *Channel) RejectedReason() RejectReason {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reason
}

// Close moves the channel to Closed. Graceful and abrupt disconnects
// share this terminal transition. Returns true on the first call that
// actually closed the channel; closing twice is a no-op.
func (c *Channel) Close() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateClosed || c.state == StateRejected {
		return false
	}
	c.state = StateClosed
	return true
}

// NextSeq assigns and returns the next per-channel sequence number.
// Assignment is strictly ordered for a given channel.
func (c *Channel) NextSeq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSeq++
	return c.lastSeq
}

// LastSeq returns the highest sequence number assigned so far.
func (c *Channel) LastSeq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeq
}

// IsValidChannelID checks if a string is a valid channel ID format.
func IsValidChannelID(id string) bool {
	id = strings.ToLower(id)
	if !strings.HasPrefix(id, ChannelIDPrefix) {
		return false
	}
	// rmch- (5) + ULID (26) = 31 characters
	if len(id) != 31 {
		return false
	}
	_, err := ulid.Parse(strings.ToUpper(id[len(ChannelIDPrefix):]))
	return err == nil
}
