// Package metric provides Prometheus metrics for RelayMesh.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: Metric registry and HTTP handler
//   - collector.go: Runtime stats collector
//
// Metrics include:
//
//   - Login attempt counters by result
//   - Active channel gauges
//   - Channel reject counters by reason
//   - Message publish/deliver/drop counters
//   - HTTP request latency histograms
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
