package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "weather_mcp"

// Metrics holds the Prometheus collectors for tool calls and provider requests.
type Metrics struct {
	ToolCalls        *prometheus.CounterVec   // labels: tool, outcome={ok,invalid,unknown}
	ToolFallbacks    *prometheus.CounterVec   // labels: tool, endpoint, kind
	UpstreamRequests *prometheus.CounterVec   // labels: endpoint={alerts,points,forecast}, outcome
	UpstreamDuration *prometheus.HistogramVec // labels: endpoint
}

// NewMetrics creates the metrics and registers them with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.ToolCalls,
		m.ToolFallbacks,
		m.UpstreamRequests,
		m.UpstreamDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests
// can build as many as they need.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ToolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Tool invocations by tool name and outcome.",
		}, []string{"tool", "outcome"}),
		ToolFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_fallbacks_total",
			Help:      "Tool calls answered with fallback text, by failing endpoint and error kind.",
		}, []string{"tool", "endpoint", "kind"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Weather provider requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Weather provider request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint"}),
	}
}
