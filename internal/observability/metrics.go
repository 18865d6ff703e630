package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the risk
// analysis pipeline.
type Metrics struct {
	FiresFetched  prometheus.Gauge
	BatchRuns     prometheus.Counter
	BatchSkipped  prometheus.Counter
	BatchDuration prometheus.Histogram

	HotspotsAnalyzed *prometheus.CounterVec // labels: outcome={ok,dropped}
	Predictions      *prometheus.CounterVec // labels: source={remote-model,heuristic}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.FiresFetched,
		m.BatchRuns,
		m.BatchSkipped,
		m.BatchDuration,
		m.HotspotsAnalyzed,
		m.Predictions,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FiresFetched: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wildfire_intel",
			Name:      "active_fires",
			Help:      "Number of detections in the most recent fire feed fetch.",
		}),
		BatchRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wildfire_intel",
			Name:      "batch_runs_total",
			Help:      "Completed batch analysis runs.",
		}),
		BatchSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wildfire_intel",
			Name:      "batch_runs_skipped_total",
			Help:      "Refresh ticks skipped because a batch was already in flight.",
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wildfire_intel",
			Name:      "batch_duration_seconds",
			Help:      "Duration of a complete batch analysis run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		HotspotsAnalyzed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wildfire_intel",
			Name:      "hotspots_analyzed_total",
			Help:      "Per-hotspot analysis outcomes.",
		}, []string{"outcome"}),
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wildfire_intel",
			Name:      "predictions_total",
			Help:      "Predictions produced by source tier.",
		}, []string{"source"}),
	}
}
