package logging

import (
	"time"
)

func String(key, value string) Field         { return Field{Key: key, Value: value} }
func Int(key string, value int) Field        { return Field{Key: key, Value: value} }
func Int64(key string, value int64) Field    { return Field{Key: key, Value: value} }
func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }
func Bool(key string, value bool) Field      { return Field{Key: key, Value: value} }
func Any(key string, value any) Field        { return Field{Key: key, Value: value} }

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Domain fields shared across packages so log queries can rely on them.

func Component(name string) Field   { return String("component", name) }
func Operation(op string) Field     { return String("operation", op) }
func NodeID(id string) Field        { return String("node_id", id) }
func Algorithm(name string) Field   { return String("algorithm", name) }
func Metric(name string) Field      { return String("metric", name) }
func Layout(name string) Field      { return String("layout", name) }
func RequestID(id string) Field     { return String("request_id", id) }
func SnapshotID(id string) Field    { return String("snapshot_id", id) }
func Directed(directed bool) Field  { return Bool("directed", directed) }
func Latency(d time.Duration) Field { return Duration("latency", d) }
func Count(n int) Field             { return Int("count", n) }
func Path(p string) Field           { return String("path", p) }

// Window describes a temporal analysis window
func Window(start, end time.Time) Field {
	return Field{Key: "window", Value: map[string]string{
		"start": start.Format(time.RFC3339),
		"end":   end.Format(time.RFC3339),
	}}
}
