package benchmark

import (
	"context"
	"testing"

	"github.com/yndnr/relaymesh-go/internal/core/service"
)

// BenchmarkRelayPublish benchmarks message fan-out across open
// channels. Outboxes fill and drop oldest, so the benchmark measures
// steady-state distribution, not consumer speed.
func BenchmarkRelayPublish(b *testing.B) {
	runWithChannelCounts(b, ChannelCounts, func(b *testing.B, count int) {
		relay := service.NewRelay(&service.RelayConfig{
			Policy:     service.RouteAll,
			OutboxSize: 16,
		})
		defer relay.Shutdown(context.Background())

		channels := prefillRelay(b, relay, count)
		ctx := context.Background()
		sender := channels[0].ID

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			if _, err := relay.Publish(ctx, &service.PublishRequest{
				ChannelID: sender,
				Payload:   "benchmark payload",
			}); err != nil {
				b.Fatalf("Publish: %v", err)
			}
		}
	})
}

// BenchmarkRelayRegister benchmarks channel registration and
// deregistration churn.
func BenchmarkRelayRegister(b *testing.B) {
	relay := service.NewRelay(service.DefaultRelayConfig())
	defer relay.Shutdown(context.Background())
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ch := newOpenChannel(b, "user-1", "user")
		if _, err := relay.Register(ctx, ch); err != nil {
			b.Fatalf("Register: %v", err)
		}
		relay.Deregister(ctx, ch.ID)
	}
}

// BenchmarkChannelNextSeq benchmarks sequence assignment contention.
func BenchmarkChannelNextSeq(b *testing.B) {
	ch := newOpenChannel(b, "user-1", "user")

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			ch.NextSeq()
		}
	})
}
