// Package metrics exposes Prometheus metrics for generated tools.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcomes recorded for tool calls.
const (
	OutcomeOK            = "ok"
	OutcomeRequestFailed = "request_failed"
	OutcomeError         = "error"
)

// Collector records tool invocation metrics on its own registry.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	toolCallsTotal   *prometheus.CounterVec
	toolCallDuration *prometheus.HistogramVec
	upstreamStatus   *prometheus.CounterVec
	toolsRegistered  *prometheus.GaugeVec
	providersLoaded  prometheus.Gauge
	operationsSkiped prometheus.Gauge
}

// NewCollector creates a collector whose metrics are prefixed with namespace.
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	c := &Collector{registry: reg}

	c.toolCallsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Total number of tool invocations",
		},
		[]string{"provider", "tool", "outcome"},
	)

	c.toolCallDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_call_duration_seconds",
			Help:      "Tool invocation duration in seconds, including the provider request",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"provider", "tool"},
	)

	c.upstreamStatus = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_responses_total",
			Help:      "Provider responses by HTTP status class",
		},
		[]string{"provider", "class"},
	)

	c.toolsRegistered = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tools_registered",
			Help:      "Number of tools registered per provider",
		},
		[]string{"provider"},
	)

	c.providersLoaded = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "providers_loaded",
		Help:      "Number of providers loaded at startup",
	})

	c.operationsSkiped = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "operations_skipped",
		Help:      "Number of operations that produced no tool",
	})

	return c
}

// RecordToolCall records one invocation. status is the provider's HTTP status,
// zero when no response was received.
func (c *Collector) RecordToolCall(provider, tool, outcome string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.toolCallsTotal.WithLabelValues(provider, tool, outcome).Inc()
	c.toolCallDuration.WithLabelValues(provider, tool).Observe(duration.Seconds())
	if status > 0 {
		c.upstreamStatus.WithLabelValues(provider, statusClass(status)).Inc()
	}
}

// SetInventory records the startup inventory.
func (c *Collector) SetInventory(providers int, toolsPerProvider map[string]int, skipped int) {
	if c == nil {
		return
	}
	c.providersLoaded.Set(float64(providers))
	for p, n := range toolsPerProvider {
		c.toolsRegistered.WithLabelValues(p).Set(float64(n))
	}
	c.operationsSkiped.Set(float64(skipped))
}

// Handler serves the collector's metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Gatherer returns the underlying registry.
func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.registry
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
