package health

import (
	"context"
	"runtime"
	"time"
)

// Common health check functions

// SimpleCheck creates a health check that always reports healthy
func SimpleCheck(name string) CheckFunc {
	return func(context.Context) Check {
		return Check{
			Name:        name,
			Status:      StatusHealthy,
			LastChecked: time.Now(),
		}
	}
}

// SourceCheck creates a health check for the snapshot source
func SourceCheck(kind string, ping func(ctx context.Context) error) CheckFunc {
	return func(ctx context.Context) Check {
		check := Check{
			Name:    "source",
			Details: map[string]any{"kind": kind},
		}

		if err := ping(ctx); err != nil {
			check.Status = StatusUnhealthy
			check.Message = err.Error()
		} else {
			check.Status = StatusHealthy
			check.Message = "Reachable"
		}

		return check
	}
}

// SubscriberCheck reports degraded once the websocket subscriber count
// reaches max
func SubscriberCheck(count func() int, max int) CheckFunc {
	return func(context.Context) Check {
		n := count()
		check := Check{
			Name:    "stream",
			Details: map[string]any{"subscribers": n, "max_subscribers": max},
		}

		if max > 0 && n >= max {
			check.Status = StatusDegraded
			check.Message = "Subscriber limit reached"
		} else {
			check.Status = StatusHealthy
			check.Message = "Accepting subscribers"
		}

		return check
	}
}

// MemoryCheck creates a health check for memory usage. A nil getUsage
// reads the Go runtime statistics.
func MemoryCheck(getUsage func() (alloc, sys uint64)) CheckFunc {
	if getUsage == nil {
		getUsage = runtimeMemory
	}
	return func(context.Context) Check {
		check := Check{
			Name:    "memory",
			Details: make(map[string]any),
		}

		alloc, sys := getUsage()

		check.Details["alloc_bytes"] = alloc
		check.Details["sys_bytes"] = sys

		usagePercent := 0.0
		if sys > 0 {
			usagePercent = float64(alloc) / float64(sys) * 100
		}

		if usagePercent > 90 {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
		} else {
			check.Status = StatusHealthy
			check.Message = "Memory usage normal"
		}

		return check
	}
}

func runtimeMemory() (uint64, uint64) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc, m.Sys
}
