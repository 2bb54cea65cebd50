package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the verification service.
type Metrics struct {
	RunsTotal       *prometheus.CounterVec
	RejectionsTotal *prometheus.CounterVec
	StageDuration   *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consentgate_pipeline_runs_total",
			Help: "Verification pipeline runs by terminal outcome",
		}, []string{"outcome"}),
		RejectionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consentgate_pipeline_rejections_total",
			Help: "Rejected pipeline runs by reason code",
		}, []string{"reason"}),
		StageDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "consentgate_stage_duration_seconds",
			Help:    "Latency of individual pipeline stages",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}, []string{"stage"}),
	}
}

// ObserveRun records a terminal outcome.
func (m *Metrics) ObserveRun(outcome string) {
	m.RunsTotal.WithLabelValues(outcome).Inc()
}

// ObserveRejection records a rejected run's reason code.
func (m *Metrics) ObserveRejection(reason string) {
	m.RejectionsTotal.WithLabelValues(reason).Inc()
}

// ObserveStage records a single stage's latency.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}
