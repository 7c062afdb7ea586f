// Package observability exposes the prometheus instrumentation shared by the
// risk evaluation service.
package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RiskMetrics records evaluation request activity and health outcomes.
type RiskMetrics struct {
	requests *prometheus.CounterVec
	statuses *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

var (
	riskMetricsOnce sync.Once
	riskRegistry    *RiskMetrics
)

// Metrics returns the lazily-initialised metrics registry used to record
// evaluation activity.
func Metrics() *RiskMetrics {
	riskMetricsOnce.Do(func() {
		riskRegistry = &RiskMetrics{
			requests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "lendcore",
				Subsystem: "risk",
				Name:      "requests_total",
				Help:      "Total evaluation requests segmented by endpoint and outcome.",
			}, []string{"endpoint", "outcome"}),
			statuses: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "lendcore",
				Subsystem: "risk",
				Name:      "health_status_total",
				Help:      "Health classifications returned, segmented by status.",
			}, []string{"status"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "lendcore",
				Subsystem: "risk",
				Name:      "request_duration_seconds",
				Help:      "Latency distribution for evaluation handlers.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"endpoint"}),
		}
		prometheus.MustRegister(
			riskRegistry.requests,
			riskRegistry.statuses,
			riskRegistry.latency,
		)
	})
	return riskRegistry
}

// ObserveRequest records one handled evaluation request.
func (m *RiskMetrics) ObserveRequest(endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(endpoint, outcome).Inc()
	m.latency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveStatus records one health classification outcome.
func (m *RiskMetrics) ObserveStatus(status string) {
	if m == nil {
		return
	}
	m.statuses.WithLabelValues(status).Inc()
}
