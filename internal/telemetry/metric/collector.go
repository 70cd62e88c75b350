// Package metric provides Prometheus metrics for RelayMesh.
package metric

import "github.com/prometheus/client_golang/prometheus"

// StatsSource reports point-in-time relay statistics for scraping.
type StatsSource interface {
	// ChannelCounts returns the number of registered channels per scope.
	ChannelCounts() map[string]int
}

// RelayCollector collects relay gauges from a StatsSource on scrape.
type RelayCollector struct {
	source       StatsSource
	channelsDesc *prometheus.Desc
}

// NewRelayCollector creates a collector backed by the given source.
func NewRelayCollector(source StatsSource) *RelayCollector {
	return &RelayCollector{
		source: source,
		channelsDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "relay", "channels_by_scope"),
			"Registered channels grouped by token scope.",
			[]string{"scope"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *RelayCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.channelsDesc
}

// Collect implements prometheus.Collector.
func (c *RelayCollector) Collect(ch chan<- prometheus.Metric) {
	for scope, count := range c.source.ChannelCounts() {
		ch <- prometheus.MustNewConstMetric(
			c.channelsDesc, prometheus.GaugeValue, float64(count), scope,
		)
	}
}

// RegisterCollector registers a custom collector with the registry.
func (r *Registry) RegisterCollector(c prometheus.Collector) error {
	return r.reg.Register(c)
}
