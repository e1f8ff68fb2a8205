package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initStreamMetrics() {
	r.StreamSubscribers = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "chaingraph_stream_subscribers",
			Help: "Current number of websocket subscribers",
		},
	)

	r.StreamEventsPublished = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "chaingraph_stream_events_published_total",
			Help: "Analysis events published to subscribers",
		},
		[]string{"topic"},
	)

	r.StreamEventsDropped = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "chaingraph_stream_events_dropped_total",
			Help: "Analysis events dropped for slow subscribers",
		},
		[]string{"topic"},
	)
}
