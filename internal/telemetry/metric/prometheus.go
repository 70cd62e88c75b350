// Package metric provides Prometheus metrics for RelayMesh.
//
// It exposes metrics in Prometheus format for monitoring login rates,
// channel counts, relay throughput, and request latencies.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "relaymesh"

// Registry holds all application metrics.
type Registry struct {
	// Auth metrics
	LoginAttempts *prometheus.CounterVec
	TokensIssued  prometheus.Counter

	// Channel metrics
	ChannelsActive prometheus.Gauge
	ChannelRejects *prometheus.CounterVec

	// Relay metrics
	MessagesPublished prometheus.Counter
	MessagesDelivered prometheus.Counter
	MessagesDropped   prometheus.Counter

	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	reg *prometheus.Registry
}

// NewRegistry creates a new metrics registry with all application
// metrics registered. Go runtime and process collectors are included.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto(reg)

	r := &Registry{
		LoginAttempts: factory.counterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "login_attempts_total",
			Help:      "Login attempts by result (success, invalid, rate_limited, error).",
		}, []string{"result"}),
		TokensIssued: factory.counter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "tokens_issued_total",
			Help:      "Total number of session tokens issued.",
		}),
		ChannelsActive: factory.gauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "channel",
			Name:      "active",
			Help:      "Number of currently registered channels.",
		}),
		ChannelRejects: factory.counterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "channel",
			Name:      "rejects_total",
			Help:      "Channel handshake rejections by reason.",
		}, []string{"reason"}),
		MessagesPublished: factory.counter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "messages_published_total",
			Help:      "Messages accepted by the relay for distribution.",
		}),
		MessagesDelivered: factory.counter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "messages_delivered_total",
			Help:      "Messages enqueued to channel outboxes.",
		}),
		MessagesDropped: factory.counter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "messages_dropped_total",
			Help:      "Messages evicted from full channel outboxes.",
		}),
		RequestsTotal: factory.counterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, path and status code.",
		}, []string{"method", "path", "status"}),
		RequestDuration: factory.histogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		reg: reg,
	}

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return r
}

// Handler returns an HTTP handler serving the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for testing.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// factory wraps a registry so metric construction reads uniformly.
type factory struct {
	reg *prometheus.Registry
}

func promauto(reg *prometheus.Registry) factory {
	return factory{reg: reg}
}

func (f factory) counter(opts prometheus.CounterOpts) prometheus.Counter {
	c := prometheus.NewCounter(opts)
	f.reg.MustRegister(c)
	return c
}

func (f factory) counterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	f.reg.MustRegister(c)
	return c
}

func (f factory) gauge(opts prometheus.GaugeOpts) prometheus.Gauge {
	g := prometheus.NewGauge(opts)
	f.reg.MustRegister(g)
	return g
}

func (f factory) histogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(opts, labels)
	f.reg.MustRegister(h)
	return h
}
