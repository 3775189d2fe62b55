package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// HuggingFace MCP metrics - using explicit registration
var (
	// Request counters
	RequestsTotal *prometheus.CounterVec

	// Tool call counters
	ToolCallsTotal *prometheus.CounterVec

	// Characters of text returned by tools
	ToolOutputCharsTotal *prometheus.CounterVec

	// Tool duration histogram
	ToolDuration *prometheus.HistogramVec

	// Upstream (inference / hub) latency
	UpstreamLatency *prometheus.HistogramVec

	// Upstream responses by status class
	UpstreamResponsesTotal *prometheus.CounterVec
)

// init creates and registers all metrics with the default registry
func init() {
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hf",
			Subsystem: "mcp",
			Name:      "requests_total",
			Help:      "Total number of MCP HTTP requests",
		},
		[]string{"method", "status"},
	)

	ToolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hf",
			Subsystem: "mcp",
			Name:      "tool_calls_total",
			Help:      "Total tool invocations",
		},
		[]string{"tool_name", "status"},
	)

	ToolOutputCharsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hf",
			Subsystem: "mcp",
			Name:      "tool_output_chars_total",
			Help:      "Total characters of text returned by tools",
		},
		[]string{"tool_name"},
	)

	ToolDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hf",
			Subsystem: "mcp",
			Name:      "tool_duration_seconds",
			Help:      "Tool execution duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"tool_name"},
	)

	UpstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hf",
			Subsystem: "mcp",
			Name:      "upstream_latency_seconds",
			Help:      "HuggingFace API response time in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"endpoint"},
	)

	UpstreamResponsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hf",
			Subsystem: "mcp",
			Name:      "upstream_responses_total",
			Help:      "HuggingFace API responses by status class",
		},
		[]string{"endpoint", "status_class"},
	)

	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(ToolCallsTotal)
	prometheus.MustRegister(ToolOutputCharsTotal)
	prometheus.MustRegister(ToolDuration)
	prometheus.MustRegister(UpstreamLatency)
	prometheus.MustRegister(UpstreamResponsesTotal)
	log.Debug().Msg("HuggingFace MCP metrics registered with Prometheus")
}

// RecordRequest records an MCP HTTP request
func RecordRequest(method, status string) {
	RequestsTotal.WithLabelValues(method, status).Inc()
}

// RecordToolCall records a tool invocation
func RecordToolCall(toolName, status string, durationSec float64) {
	if status == "" {
		status = "unknown"
	}
	ToolCallsTotal.WithLabelValues(toolName, status).Inc()
	ToolDuration.WithLabelValues(toolName).Observe(durationSec)
}

// RecordToolOutput records the size of a text tool result
func RecordToolOutput(toolName string, chars int) {
	if chars <= 0 {
		return
	}
	ToolOutputCharsTotal.WithLabelValues(toolName).Add(float64(chars))
}

// RecordUpstream records one HuggingFace API round trip. statusCode 0 means the
// request never produced a response.
func RecordUpstream(endpoint string, statusCode int, durationSec float64) {
	UpstreamLatency.WithLabelValues(endpoint).Observe(durationSec)
	UpstreamResponsesTotal.WithLabelValues(endpoint, StatusClass(statusCode)).Inc()
}

// StatusClass buckets an HTTP status as "2xx", "4xx", ... or "error".
func StatusClass(statusCode int) string {
	if statusCode < 100 || statusCode > 599 {
		return "error"
	}
	return strconv.Itoa(statusCode/100) + "xx"
}
