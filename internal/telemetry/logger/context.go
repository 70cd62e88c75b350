// Package logger provides structured logging for RelayMesh.
package logger

import "context"

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const (
	// loggerKey is the context key for the logger.
	loggerKey contextKey = "relaymesh.logger"
	// requestIDKey is the context key for request ID.
	requestIDKey contextKey = "relaymesh.request_id"
	// channelIDKey is the context key for channel ID.
	channelIDKey contextKey = "relaymesh.channel_id"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts the request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// WithChannelID adds a channel ID to the context.
func WithChannelID(ctx context.Context, channelID string) context.Context {
	return context.WithValue(ctx, channelIDKey, channelID)
}

// ChannelIDFromContext extracts the channel ID from context.
func ChannelIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(channelIDKey).(string); ok {
		return id
	}
	return ""
}

// L is a shorthand for FromContext that also enriches the logger
// with request ID and channel ID from the context.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)

	if reqID := RequestIDFromContext(ctx); reqID != "" {
		l = l.With("request_id", reqID)
	}

	if chID := ChannelIDFromContext(ctx); chID != "" {
		l = l.With("channel_id", chID)
	}

	return l
}
