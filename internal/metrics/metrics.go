// Package metrics holds the prometheus collectors of the screening engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	FilesProcessed        *prometheus.CounterVec
	CollaboratorFailures  *prometheus.CounterVec
	MatchScore            prometheus.Histogram
	FileDuration          prometheus.Histogram
	BatchDuration         prometheus.Histogram
	InFlight              prometheus.Gauge
	DomainMismatches      prometheus.Counter
	RequirementSetSources *prometheus.CounterVec
}

// New registers the collectors on reg. A nil reg uses a fresh registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		FilesProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cv_screener_files_processed_total",
				Help: "Resume files processed, by outcome",
			},
			[]string{"status"},
		),
		CollaboratorFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cv_screener_collaborator_failures_total",
				Help: "Optional model calls that failed and were degraded",
			},
			[]string{"collaborator"},
		),
		MatchScore: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cv_screener_match_score",
				Help:    "Distribution of candidate match scores",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
		),
		FileDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cv_screener_file_duration_seconds",
				Help:    "Duration of one resume pipeline in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		BatchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cv_screener_batch_duration_seconds",
				Help:    "Duration of a screening batch in seconds",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
			},
		),
		InFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "cv_screener_pipelines_in_flight",
				Help: "Resume pipelines currently admitted",
			},
		),
		DomainMismatches: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cv_screener_domain_mismatches_total",
				Help: "Resumes rejected by the domain gate",
			},
		),
		RequirementSetSources: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cv_screener_requirement_sets_total",
				Help: "Requirement sets built, by source",
			},
			[]string{"source"},
		),
	}
}

func (m *Metrics) FileDone(status string, took time.Duration) {
	if m == nil {
		return
	}
	m.FilesProcessed.WithLabelValues(status).Inc()
	m.FileDuration.Observe(took.Seconds())
}

func (m *Metrics) Scored(score int, domainMismatch bool) {
	if m == nil {
		return
	}
	m.MatchScore.Observe(float64(score))
	if domainMismatch {
		m.DomainMismatches.Inc()
	}
}

func (m *Metrics) CollaboratorFailed(name string) {
	if m == nil {
		return
	}
	m.CollaboratorFailures.WithLabelValues(name).Inc()
}

func (m *Metrics) RequirementSet(source string) {
	if m == nil {
		return
	}
	m.RequirementSetSources.WithLabelValues(source).Inc()
}

func (m *Metrics) Admitted() {
	if m == nil {
		return
	}
	m.InFlight.Inc()
}

func (m *Metrics) Released() {
	if m == nil {
		return
	}
	m.InFlight.Dec()
}

func (m *Metrics) BatchDone(took time.Duration) {
	if m == nil {
		return
	}
	m.BatchDuration.Observe(took.Seconds())
}
