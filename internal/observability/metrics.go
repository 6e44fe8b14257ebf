package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type moduleMetrics struct {
	llmInvocationsTotal *prometheus.CounterVec
	llmFallbacksTotal   *prometheus.CounterVec
	mockResponsesTotal  prometheus.Counter

	analysesActive    prometheus.Gauge
	analysesTotal     *prometheus.CounterVec
	stepDuration      *prometheus.HistogramVec
	chatRequestsTotal prometheus.Counter
}

var (
	metricsOnce sync.Once
	metricsInst *moduleMetrics
)

func getMetrics() *moduleMetrics {
	metricsOnce.Do(func() {
		m := &moduleMetrics{
			llmInvocationsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "llm_invocations_total",
					Help: "Total provider invocations by provider and status.",
				},
				[]string{"provider", "status"},
			),
			llmFallbacksTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "llm_fallbacks_total",
					Help: "Total requests served by a fallback candidate, by provider.",
				},
				[]string{"provider"},
			),
			mockResponsesTotal: prometheus.NewCounter(
				prometheus.CounterOpts{
					Name: "llm_mock_responses_total",
					Help: "Total requests answered by the deterministic mock.",
				},
			),
			analysesActive: prometheus.NewGauge(
				prometheus.GaugeOpts{
					Name: "analyses_active",
					Help: "Number of analysis sessions currently running.",
				},
			),
			analysesTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "analyses_total",
					Help: "Total analysis sessions by terminal status.",
				},
				[]string{"status"},
			),
			stepDuration: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "analysis_step_duration_seconds",
					Help:    "Duration of individual analysis steps.",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"step"},
			),
			chatRequestsTotal: prometheus.NewCounter(
				prometheus.CounterOpts{
					Name: "chat_requests_total",
					Help: "Total chat messages processed.",
				},
			),
		}

		prometheus.MustRegister(
			m.llmInvocationsTotal,
			m.llmFallbacksTotal,
			m.mockResponsesTotal,
			m.analysesActive,
			m.analysesTotal,
			m.stepDuration,
			m.chatRequestsTotal,
		)

		metricsInst = m
	})
	return metricsInst
}

// EnsureRegistered forces metric registration. Called from package
// constructors so metrics exist before the first scrape.
func EnsureRegistered() {
	getMetrics()
}

// RecordLLMInvocation counts one provider call with its outcome.
func RecordLLMInvocation(provider, status string) {
	getMetrics().llmInvocationsTotal.WithLabelValues(provider, status).Inc()
}

// RecordLLMFallback counts a request served by a fallback candidate.
func RecordLLMFallback(provider string) {
	getMetrics().llmFallbacksTotal.WithLabelValues(provider).Inc()
}

// RecordMockResponse counts a request that degraded to the mock.
func RecordMockResponse() {
	getMetrics().mockResponsesTotal.Inc()
}

// AnalysisStarted marks a new running analysis session.
func AnalysisStarted() {
	getMetrics().analysesActive.Inc()
}

// AnalysisFinished marks a session reaching a terminal status.
func AnalysisFinished(status string) {
	m := getMetrics()
	m.analysesActive.Dec()
	m.analysesTotal.WithLabelValues(status).Inc()
}

// RecordStepDuration records how long one analysis step took.
func RecordStepDuration(step string, d time.Duration) {
	getMetrics().stepDuration.WithLabelValues(step).Observe(d.Seconds())
}

// RecordChatRequest counts one chat message.
func RecordChatRequest() {
	getMetrics().chatRequestsTotal.Inc()
}

// Handler exposes the default prometheus registry over HTTP.
func Handler() http.Handler {
	return promhttp.Handler()
}
