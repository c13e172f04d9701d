package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the engine's custom Prometheus instruments. They are
// created unregistered; the metrics server registers Collectors() on
// its own registry.
type Metrics struct {
	ScoresComputed  *prometheus.CounterVec
	ScoringDuration prometheus.Histogram
	ScoringFailures prometheus.Counter
	CacheEntries    prometheus.Gauge
	CacheEvictions  prometheus.Counter
	ActiveAlerts    prometheus.Gauge
}

// NewMetrics creates the engine's instruments.
func NewMetrics() *Metrics {
	return &Metrics{
		ScoresComputed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "health_engine_scores_computed_total",
				Help: "Total number of health scores computed, by resulting health level",
			},
			[]string{"health_level"},
		),
		ScoringDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "health_engine_scoring_duration_seconds",
				Help:    "Time spent computing a single customer health score",
				Buckets: prometheus.DefBuckets,
			},
		),
		ScoringFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "health_engine_scoring_failures_total",
				Help: "Total number of failed health score computations",
			},
		),
		CacheEntries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "health_engine_cache_entries",
				Help: "Current number of cached health score snapshots",
			},
		),
		CacheEvictions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "health_engine_cache_evictions_total",
				Help: "Total number of score snapshots evicted from the cache",
			},
		),
		ActiveAlerts: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "health_engine_active_alerts",
				Help: "Number of alerts produced by the most recent alert scan",
			},
		),
	}
}

// Collectors returns all instruments for registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.ScoresComputed,
		m.ScoringDuration,
		m.ScoringFailures,
		m.CacheEntries,
		m.CacheEvictions,
		m.ActiveAlerts,
	}
}
