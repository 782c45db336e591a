package metrics

import "github.com/prometheus/client_golang/prometheus"

// Embedding backfill Prometheus metrics.
var (
	BackfillRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docsearch",
			Name:      "backfill_runs_total",
			Help:      "Total number of backfill runs",
		},
		[]string{"status"}, // "success" / "error"
	)

	BackfillDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docsearch",
			Name:      "backfill_documents_total",
			Help:      "Documents processed by the backfill",
		},
		[]string{"result"}, // "embedded" / "skipped" / "failed"
	)

	BackfillRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "docsearch",
			Name:      "backfill_run_duration_seconds",
			Help:      "Backfill run duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
		},
	)
)

var backfillMetricsRegistered bool

// RegisterBackfillMetrics registers Prometheus backfill metrics. Must be called once from main.
func RegisterBackfillMetrics() {
	if backfillMetricsRegistered {
		return
	}
	prometheus.MustRegister(BackfillRunsTotal)
	prometheus.MustRegister(BackfillDocumentsTotal)
	prometheus.MustRegister(BackfillRunDuration)
	backfillMetricsRegistered = true
}
