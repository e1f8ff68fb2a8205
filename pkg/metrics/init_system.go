package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSystemMetrics() {
	factory := promauto.With(r.registry)

	r.BuildInfo = factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "chaingraph_build_info",
		Help: "Always 1; the version label names the running build",
	}, []string{"version"})

	r.UptimeSeconds = factory.NewGauge(prometheus.GaugeOpts{
		Name: "chaingraph_uptime_seconds",
		Help: "Seconds since the registry was created",
	})

	r.GoRoutines = factory.NewGauge(prometheus.GaugeOpts{
		Name: "chaingraph_goroutines",
		Help: "Goroutines, including one reader and one writer per websocket subscriber",
	})

	// Each analysis builds its graphs from scratch, so heap size and GC
	// activity track request load
	r.MemoryAllocBytes = factory.NewGauge(prometheus.GaugeOpts{
		Name: "chaingraph_memory_alloc_bytes",
		Help: "Bytes of allocated heap objects",
	})
	r.HeapObjects = factory.NewGauge(prometheus.GaugeOpts{
		Name: "chaingraph_heap_objects",
		Help: "Allocated heap objects",
	})
	r.MemorySysBytes = factory.NewGauge(prometheus.GaugeOpts{
		Name: "chaingraph_memory_sys_bytes",
		Help: "Bytes of memory obtained from the OS",
	})
	r.GCCycles = factory.NewGauge(prometheus.GaugeOpts{
		Name: "chaingraph_gc_cycles",
		Help: "Completed garbage collection cycles",
	})
}
