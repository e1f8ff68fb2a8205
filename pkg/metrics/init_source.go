package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSourceMetrics() {
	r.SnapshotFetchesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "chaingraph_snapshot_fetches_total",
			Help: "Total number of snapshot fetches",
		},
		[]string{"source", "status"},
	)

	r.SnapshotFetchDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chaingraph_snapshot_fetch_duration_seconds",
			Help:    "Snapshot fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	r.SnapshotNodes = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chaingraph_snapshot_nodes",
			Help:    "Number of node records per snapshot",
			Buckets: []float64{10, 100, 1000, 10000, 100000},
		},
	)

	r.SnapshotLinks = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chaingraph_snapshot_links",
			Help:    "Number of link records per snapshot",
			Buckets: []float64{10, 100, 1000, 10000, 100000},
		},
	)
}
