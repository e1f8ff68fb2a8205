package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initAnalysisMetrics() {
	r.AnalysisOperationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "chaingraph_analysis_operations_total",
			Help: "Total number of analysis operations",
		},
		[]string{"operation", "status"},
	)

	r.AnalysisOperationDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chaingraph_analysis_operation_duration_seconds",
			Help:    "Analysis operation duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
		[]string{"operation"},
	)

	r.AnalysisSkippedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "chaingraph_analysis_skipped_total",
			Help: "Best-effort metrics that could not be computed",
		},
		[]string{"metric"},
	)

	r.DroppedRecordsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "chaingraph_dropped_records_total",
			Help: "Malformed node and link records dropped during graph construction",
		},
		[]string{"kind"},
	)

	r.LayoutFallbacksTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "chaingraph_layout_fallbacks_total",
			Help: "Layouts that failed and fell back to random placement",
		},
		[]string{"layout"},
	)
}
