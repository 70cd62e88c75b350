// Package domain defines the core domain models for RelayMesh.
package domain

import "time"

// MaxPayloadLength is the maximum message payload size in bytes.
const MaxPayloadLength = 4096

// Message is one relayed payload.
//
// Seq is monotonic per originating channel; for a given channel the relay
// delivers messages in non-decreasing Seq order and never reorders them.
type Message struct {
	// ChannelID identifies the originating channel.
	ChannelID string `json:"channel_id"`

	// Seq is the per-channel sequence number, starting at 1.
	Seq uint64 `json:"seq"`

	// Payload is the plain-text message body.
	Payload string `json:"payload"`

	// SentAt is the publish timestamp (Unix milliseconds).
	SentAt int64 `json:"sent_at"`
}

// NewMessage stamps a message with the current time.
func NewMessage(channelID string, seq uint64, payload string) *Message {
	return &Message{
		ChannelID: channelID,
		Seq:       seq,
		Payload:   payload,
		SentAt:    time.Now().UnixMilli(),
	}
}

// Validate validates the message payload against constraints.
func (m *Message) Validate() error {
	if m.Payload == "" {
		return ErrMissingArgument.WithDetails("payload is required")
	}
	if len(m.Payload) > MaxPayloadLength {
		return ErrInvalidArgument.WithDetails("payload exceeds 4KB")
	}
	return nil
}

// SentAtTime returns SentAt as time.Time.
func (m *Message) SentAtTime() time.Time {
	return time.UnixMilli(m.SentAt)
}
