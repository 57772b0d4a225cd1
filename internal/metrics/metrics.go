// Package metrics defines the application's Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Chat metrics
	ChatRequestsTotal   *prometheus.CounterVec
	ChatDurationSeconds *prometheus.HistogramVec

	// Crisis safety metrics
	CrisisTriggersTotal prometheus.Counter

	// LLM metrics
	LLMRequestsTotal   *prometheus.CounterVec
	LLMDurationSeconds *prometheus.HistogramVec
	LLMRetriesTotal    *prometheus.CounterVec

	// Tool metrics
	ToolExecutionsTotal   *prometheus.CounterVec
	ToolDurationSeconds   *prometheus.HistogramVec
	AgentIterationsPerRun prometheus.Histogram

	// HTTP metrics
	HTTPErrorsTotal *prometheus.CounterVec

	// Rate limiter metrics
	RateLimiterDropsTotal *prometheus.CounterVec
	RateLimiterKeys       *prometheus.GaugeVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		ChatRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_chat_requests_total",
				Help: "Total number of chat turns by intent and status",
			},
			[]string{"intent", "status"}, // status: success, error, clarification
		),

		ChatDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "advisor_chat_duration_seconds",
				Help:    "End-to-end chat turn duration in seconds by intent",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 90}, // Matches 90s turn budget
			},
			[]string{"intent"},
		),

		CrisisTriggersTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "advisor_crisis_triggers_total",
				Help: "Total number of messages that hit the crisis keyword check",
			},
		),

		LLMRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_llm_requests_total",
				Help: "Total number of LLM calls by provider, kind and status",
			},
			[]string{"provider", "kind", "status"}, // kind: complete, structured, tools
		),

		LLMDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "advisor_llm_duration_seconds",
				Help:    "LLM call duration in seconds by provider and kind",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30}, // Matches 30s LLM timeout
			},
			[]string{"provider", "kind"},
		),

		LLMRetriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_llm_retries_total",
				Help: "Total number of LLM retry attempts by provider",
			},
			[]string{"provider"},
		),

		ToolExecutionsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_tool_executions_total",
				Help: "Total number of tool executions by tool and status",
			},
			[]string{"tool", "status"}, // status: success, error
		),

		ToolDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "advisor_tool_duration_seconds",
				Help:    "Tool execution duration in seconds by tool",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 30}, // Local tools vs LLM-backed tools
			},
			[]string{"tool"},
		),

		AgentIterationsPerRun: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "advisor_agent_iterations_per_run",
				Help:    "Number of tool-decision rounds per orchestration run",
				Buckets: []float64{0, 1, 2, 3, 4, 5},
			},
		),

		HTTPErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_http_errors_total",
				Help: "Total HTTP errors by type and endpoint",
			},
			[]string{"error_type", "endpoint"}, // error_type: bad_request, timeout, internal
		),

		RateLimiterDropsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_rate_limiter_drops_total",
				Help: "Total requests dropped by rate limiter by limiter name",
			},
			[]string{"limiter"},
		),

		RateLimiterKeys: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "advisor_rate_limiter_keys",
				Help: "Active keys tracked per rate limiter",
			},
			[]string{"limiter"},
		),
	}

	return m
}

// RecordChat records a finished chat turn.
func (m *Metrics) RecordChat(intent, status string, duration float64) {
	m.ChatRequestsTotal.WithLabelValues(intent, status).Inc()
	m.ChatDurationSeconds.WithLabelValues(intent).Observe(duration)
}

// RecordCrisisTrigger records a crisis keyword hit.
func (m *Metrics) RecordCrisisTrigger() {
	m.CrisisTriggersTotal.Inc()
}

// RecordLLMRequest records an LLM call with its outcome.
func (m *Metrics) RecordLLMRequest(provider, kind, status string, duration float64) {
	m.LLMRequestsTotal.WithLabelValues(provider, kind, status).Inc()
	m.LLMDurationSeconds.WithLabelValues(provider, kind).Observe(duration)
}

// RecordLLMRetry records one retry attempt.
func (m *Metrics) RecordLLMRetry(provider string) {
	m.LLMRetriesTotal.WithLabelValues(provider).Inc()
}

// RecordToolExecution records a tool execution with its outcome.
func (m *Metrics) RecordToolExecution(tool, status string, duration float64) {
	m.ToolExecutionsTotal.WithLabelValues(tool, status).Inc()
	m.ToolDurationSeconds.WithLabelValues(tool).Observe(duration)
}

// RecordAgentIterations records how many tool-decision rounds a run took.
func (m *Metrics) RecordAgentIterations(n int) {
	m.AgentIterationsPerRun.Observe(float64(n))
}

// RecordHTTPError records an HTTP-level error.
func (m *Metrics) RecordHTTPError(errorType, endpoint string) {
	m.HTTPErrorsTotal.WithLabelValues(errorType, endpoint).Inc()
}

// RecordRateLimiterDrop records a request rejected by a rate limiter.
func (m *Metrics) RecordRateLimiterDrop(limiter string) {
	m.RateLimiterDropsTotal.WithLabelValues(limiter).Inc()
}

// SetRateLimiterKeys records the active key count of a rate limiter.
func (m *Metrics) SetRateLimiterKeys(limiter string, count int) {
	m.RateLimiterKeys.WithLabelValues(limiter).Set(float64(count))
}
