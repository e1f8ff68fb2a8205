package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// httpLabels identify a request by its route pattern, never the raw path,
// so node addresses in query strings cannot grow the series count
var httpLabels = []string{"method", "route", "status"}

// Analysis requests span quick root hits to full-graph layouts
var httpDurationBuckets = []float64{.005, .025, .1, .25, .5, 1, 2.5, 5, 10, 30, 60}

// Visualization payloads carry every node and link
var httpSizeBuckets = prometheus.ExponentialBuckets(256, 4, 9)

func (r *Registry) initHTTPMetrics() {
	factory := promauto.With(r.registry)

	r.HTTPRequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "chaingraph_http_requests_total",
		Help: "Analysis API requests by route pattern and status",
	}, httpLabels)

	r.HTTPRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chaingraph_http_request_duration_seconds",
		Help:    "Time to fetch, analyse and encode one request",
		Buckets: httpDurationBuckets,
	}, httpLabels)

	r.HTTPRequestsInFlight = factory.NewGauge(prometheus.GaugeOpts{
		Name: "chaingraph_http_requests_in_flight",
		Help: "Analysis API requests currently being served",
	})

	r.HTTPResponseSizeBytes = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chaingraph_http_response_size_bytes",
		Help:    "Encoded response body size by route pattern",
		Buckets: httpSizeBuckets,
	}, httpLabels[:2])
}
