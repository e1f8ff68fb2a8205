package metrics

import (
	"runtime"
	"strconv"
	"time"
)

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordHTTPRequest records an HTTP request with its duration. route is
// the matched pattern, e.g. "GET /analysis/metrics".
func (r *Registry) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// RecordHTTPResponseSize records the size of a response body
func (r *Registry) RecordHTTPResponseSize(method, route string, bytes int) {
	r.HTTPResponseSizeBytes.WithLabelValues(method, route).Observe(float64(bytes))
}

// RecordAnalysis records one analysis operation
func (r *Registry) RecordAnalysis(operation string, duration time.Duration, err error) {
	r.AnalysisOperationsTotal.WithLabelValues(operation, statusLabel(err)).Inc()
	r.AnalysisOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordSkip counts a best-effort metric that was omitted
func (r *Registry) RecordSkip(metric string) {
	r.AnalysisSkippedTotal.WithLabelValues(metric).Inc()
}

// RecordDroppedRecords counts malformed records of one kind
func (r *Registry) RecordDroppedRecords(kind string, count int) {
	if count <= 0 {
		return
	}
	r.DroppedRecordsTotal.WithLabelValues(kind).Add(float64(count))
}

// RecordLayoutFallback counts a layout replaced by random placement
func (r *Registry) RecordLayoutFallback(layout string) {
	r.LayoutFallbacksTotal.WithLabelValues(layout).Inc()
}

// RecordSnapshotFetch records a snapshot fetch and the size of what came back
func (r *Registry) RecordSnapshotFetch(source string, duration time.Duration, nodes, links int, err error) {
	r.SnapshotFetchesTotal.WithLabelValues(source, statusLabel(err)).Inc()
	r.SnapshotFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
	if err == nil {
		r.SnapshotNodes.Observe(float64(nodes))
		r.SnapshotLinks.Observe(float64(links))
	}
}

// RecordStreamEvent counts a published event and how many subscribers missed it
func (r *Registry) RecordStreamEvent(topic string, dropped int) {
	r.StreamEventsPublished.WithLabelValues(topic).Inc()
	if dropped > 0 {
		r.StreamEventsDropped.WithLabelValues(topic).Add(float64(dropped))
	}
}

// SetStreamSubscribers sets the websocket subscriber gauge
func (r *Registry) SetStreamSubscribers(n int) {
	r.StreamSubscribers.Set(float64(n))
}

// SetBuildInfo publishes the running version
func (r *Registry) SetBuildInfo(version string) {
	r.BuildInfo.Reset()
	r.BuildInfo.WithLabelValues(version).Set(1)
}

// UpdateSystemMetrics samples uptime, goroutines, heap and GC
func (r *Registry) UpdateSystemMetrics() {
	r.mu.Lock()
	defer r.mu.Unlock()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	r.UptimeSeconds.Set(time.Since(r.startTime).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(mem.Alloc))
	r.HeapObjects.Set(float64(mem.HeapObjects))
	r.MemorySysBytes.Set(float64(mem.Sys))
	r.GCCycles.Set(float64(mem.NumGC))
}

// StatusCode formats an HTTP status for use as a label
func StatusCode(code int) string {
	return strconv.Itoa(code)
}

// IncHTTPRequestsInFlight marks a request as started
func (r *Registry) IncHTTPRequestsInFlight() { r.HTTPRequestsInFlight.Inc() }

// DecHTTPRequestsInFlight marks a request as finished
func (r *Registry) DecHTTPRequestsInFlight() { r.HTTPRequestsInFlight.Dec() }
