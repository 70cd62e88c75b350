package benchmark

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/yndnr/relaymesh-go/internal/core/domain"
	"github.com/yndnr/relaymesh-go/internal/core/service"
)

// ChannelCounts defines the fan-out widths for relay benchmarks.
var ChannelCounts = []int{10, 100, 1000, 5000}

var benchSigningKey = []byte("0123456789abcdef0123456789abcdef")

// newBenchToken builds unsigned claims for signing benchmarks.
func newBenchToken(subject string) *domain.Token {
	now := time.Now()
	return &domain.Token{
		Subject:   subject,
		Scope:     domain.ScopeUser,
		IssuedAt:  now.UnixMilli(),
		ExpiresAt: now.Add(time.Hour).UnixMilli(),
		ID:        ulid.Make().String(),
	}
}

// newOpenChannel returns an authenticated channel ready to register.
func newOpenChannel(b *testing.B, subject string, scope domain.Scope) *domain.Channel {
	b.Helper()
	ch, err := domain.NewChannel()
	if err != nil {
		b.Fatalf("NewChannel: %v", err)
	}
	if err := ch.Authenticate(subject, scope); err != nil {
		b.Fatalf("Authenticate: %v", err)
	}
	return ch
}

// prefillRelay registers count authenticated channels.
func prefillRelay(b *testing.B, relay *service.Relay, count int) []*domain.Channel {
	b.Helper()
	ctx := context.Background()
	channels := make([]*domain.Channel, count)
	for i := range channels {
		ch := newOpenChannel(b, fmt.Sprintf("user-%d", i%1000), domain.ScopeUser)
		if _, err := relay.Register(ctx, ch); err != nil {
			b.Fatalf("Register: %v", err)
		}
		channels[i] = ch
	}
	return channels
}

// runWithChannelCounts runs a benchmark at each fan-out width.
func runWithChannelCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("channels_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}
