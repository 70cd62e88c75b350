// Package wsserver provides the websocket channel gateway for RelayMesh.
package wsserver

// Frame types on the channel wire protocol.
const (
	// FrameAuth is the client's first frame carrying the bearer token.
	FrameAuth = "auth"

	// FrameMessage carries a chat payload in either direction.
	FrameMessage = "message"

	// FrameWelcome confirms a successful handshake.
	FrameWelcome = "welcome"

	// FrameError reports a handshake rejection or a publish failure.
	FrameError = "error"
)

// InboundFrame is a client-to-server frame.
type InboundFrame struct {
	Type    string `json:"type"`
	Token   string `json:"token,omitempty"`
	Payload string `json:"payload,omitempty"`
}

// OutboundFrame is a server-to-client frame.
//
// Welcome frames fill ChannelID and Subject. Error frames fill Code and
// Reason. Message frames fill ChannelID, Seq, Payload and SentAt.
type OutboundFrame struct {
	Type      string `json:"type"`
	ChannelID string `json:"channel_id,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Scope     string `json:"scope,omitempty"`
	Seq       uint64 `json:"seq,omitempty"`
	Payload   string `json:"payload,omitempty"`
	SentAt    int64  `json:"sent_at,omitempty"`
	Code      string `json:"code,omitempty"`
	Reason    string `json:"reason,omitempty"`
}
