package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// Analysis Metrics
	AnalysisOperationsTotal   *prometheus.CounterVec
	AnalysisOperationDuration *prometheus.HistogramVec
	AnalysisSkippedTotal      *prometheus.CounterVec
	DroppedRecordsTotal       *prometheus.CounterVec
	LayoutFallbacksTotal      *prometheus.CounterVec

	// Snapshot Source Metrics
	SnapshotFetchesTotal  *prometheus.CounterVec
	SnapshotFetchDuration *prometheus.HistogramVec
	SnapshotNodes         prometheus.Histogram
	SnapshotLinks         prometheus.Histogram

	// Stream Metrics
	StreamSubscribers     prometheus.Gauge
	StreamEventsPublished *prometheus.CounterVec
	StreamEventsDropped   *prometheus.CounterVec

	// System Metrics
	BuildInfo        *prometheus.GaugeVec
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	HeapObjects      prometheus.Gauge
	MemorySysBytes   prometheus.Gauge
	GCCycles         prometheus.Gauge

	registry  *prometheus.Registry
	startTime time.Time
	mu        sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry:  reg,
		startTime: time.Now(),
	}

	// Initialize all metrics
	r.initHTTPMetrics()
	r.initAnalysisMetrics()
	r.initSourceMetrics()
	r.initStreamMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
