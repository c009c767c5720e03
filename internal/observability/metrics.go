package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	llmRequests        *prometheus.CounterVec
	llmDuration        *prometheus.HistogramVec
	turns              *prometheus.CounterVec
	duplicateQuestions prometheus.Counter
	filterRuleHits     *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// NewMetrics registers the collectors with reg. A nil reg uses the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		llmRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_requests_total",
				Help: "Total number of LLM requests by provider, tier and status",
			},
			[]string{"provider", "tier", "status"},
		),
		llmDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "llm_request_duration_seconds",
				Help:    "Duration of LLM requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider", "tier"},
		),
		turns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "interview_turns_total",
				Help: "Interview turns by kind, phase and outcome",
			},
			[]string{"kind", "phase", "outcome"},
		),
		duplicateQuestions: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "interview_duplicate_questions_total",
				Help: "Extracted interviewer questions that resembled one already asked",
			},
		),
		filterRuleHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "interview_filter_rule_hits_total",
				Help: "Response filter rules that matched AI output",
			},
			[]string{"rule"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "code"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// ObserveLLMRequest records a completed LLM call.
func (m *Metrics) ObserveLLMRequest(provider, tier string, success bool, d time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	m.llmRequests.WithLabelValues(provider, tier, status).Inc()
	m.llmDuration.WithLabelValues(provider, tier).Observe(d.Seconds())
}

// IncTurn counts an interview turn.
func (m *Metrics) IncTurn(kind, phase, outcome string) {
	if m == nil {
		return
	}
	m.turns.WithLabelValues(kind, phase, outcome).Inc()
}

// IncDuplicateQuestion counts an extracted question that was already asked.
func (m *Metrics) IncDuplicateQuestion() {
	if m == nil {
		return
	}
	m.duplicateQuestions.Inc()
}

// IncFilterRuleHit counts a response filter rule match.
func (m *Metrics) IncFilterRuleHit(rule string) {
	if m == nil {
		return
	}
	m.filterRuleHits.WithLabelValues(rule).Inc()
}

// ObserveHTTPRequest records a served HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, statusLabel(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
