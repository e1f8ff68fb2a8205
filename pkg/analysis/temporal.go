package analysis

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
	"github.com/dd0wney/cluso-chaingraph/pkg/logging"
)

// KeyTimestamp is the link attribute read by temporal analysis
const KeyTimestamp = "timestamp"

// ErrNoTimestamps is reported when no link carries a usable timestamp
var ErrNoTimestamps = errors.New("no valid timestamps found in links")

// noTimestampsMessage is the wire form of ErrNoTimestamps
const noTimestampsMessage = "No valid timestamps found in links"

// timestampLayouts are the ISO 8601 forms accepted for link timestamps.
// Values without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp reads a timestamp attribute: an ISO 8601 string
// (a trailing Z means UTC) or an already-parsed time.
func ParseTimestamp(v graph.Value) (time.Time, error) {
	if t, ok := v.AsTime(); ok {
		return t, nil
	}
	s, ok := v.AsString()
	if !ok {
		return time.Time{}, fmt.Errorf("timestamp of kind %s is not a string", v.Kind())
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp %q is not ISO 8601", s)
}

// Window is one time slice of the link set
type Window struct {
	Start     time.Time
	End       time.Time
	LinkCount int
	Metrics   Outcome[*BasicMetrics]
}

// MarshalJSON writes the window; failed metrics become {"error": message}
func (w Window) MarshalJSON() ([]byte, error) {
	o := newObjectWriter()
	o.field("window_start", isoformat(w.Start))
	o.field("window_end", isoformat(w.End))
	o.field("link_count", w.LinkCount)
	if m, ok := w.Metrics.Get(); ok {
		o.field("metrics", m)
	} else {
		o.field("metrics", map[string]string{"error": w.Metrics.Reason().Error()})
	}
	return o.bytes()
}

// TemporalResult holds metrics over consecutive time windows. Err is set
// when no window could be formed.
type TemporalResult struct {
	WindowSize time.Duration
	Windows    []Window
	Err        error
}

// MarshalJSON writes the windows, or an error marker
func (r *TemporalResult) MarshalJSON() ([]byte, error) {
	o := newObjectWriter()
	if r.Err != nil {
		msg := r.Err.Error()
		if errors.Is(r.Err, ErrNoTimestamps) {
			msg = noTimestampsMessage
		}
		o.field("error", msg)
		return o.bytes()
	}
	windows := r.Windows
	if windows == nil {
		windows = []Window{}
	}
	o.field("window_size_seconds", r.WindowSize.Seconds())
	o.field("metrics_over_time", windows)
	return o.bytes()
}

// TemporalMetrics splits the time span of the links into windows and
// computes basic metrics of every non-empty window on a graph of all
// nodes plus that window's links. A span no longer than windowSize is a
// single window; otherwise it is cut into min(maxWindows,
// span/windowSize+1) equal windows. Bounds are inclusive on both ends, so
// a link exactly on a boundary counts in both neighbouring windows.
func (a *Analyzer) TemporalMetrics(windowSize time.Duration, maxWindows int) *TemporalResult {
	done := a.timed("temporal_metrics",
		logging.Duration("window_size", windowSize), logging.Int("max_windows", maxWindows))
	result := &TemporalResult{WindowSize: windowSize}
	if windowSize <= 0 {
		result.Err = fmt.Errorf("window size must be positive, got %s", windowSize)
		done(result.Err)
		return result
	}

	stamps := make([]time.Time, len(a.edges))
	valid := make([]bool, len(a.edges))
	var sorted []time.Time
	for i, rec := range a.edges {
		v, ok := rec.Get(KeyTimestamp)
		if !ok {
			continue
		}
		t, err := ParseTimestamp(v)
		if err != nil {
			a.logger.Warn("could not parse timestamp", logging.Int("position", i), logging.Error(err))
			continue
		}
		stamps[i], valid[i] = t, true
		sorted = append(sorted, t)
	}
	if len(sorted) == 0 {
		result.Err = ErrNoTimestamps
		done(nil)
		return result
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	for _, w := range windowBounds(sorted[0], sorted[len(sorted)-1], windowSize, maxWindows) {
		var links []*graph.Attributes
		for i, rec := range a.edges {
			if valid[i] && !stamps[i].Before(w[0]) && !stamps[i].After(w[1]) {
				links = append(links, rec)
			}
		}
		if len(links) == 0 {
			continue
		}
		result.Windows = append(result.Windows, Window{
			Start:     w[0],
			End:       w[1],
			LinkCount: len(links),
			Metrics:   a.windowMetrics(links),
		})
	}

	done(nil)
	return result
}

// windowBounds returns the [start, end] pairs covering min..max. The last
// window always ends at maxTime, whatever the rounding of the width.
func windowBounds(minTime, maxTime time.Time, windowSize time.Duration, maxWindows int) [][2]time.Time {
	span := maxTime.Sub(minTime)
	if span <= windowSize {
		return [][2]time.Time{{minTime, maxTime}}
	}
	n := min(maxWindows, int(span/windowSize)+1)
	if n <= 0 {
		return nil
	}
	width := span / time.Duration(n)
	bounds := make([][2]time.Time, n)
	for i := range bounds {
		bounds[i] = [2]time.Time{
			minTime.Add(time.Duration(i) * width),
			minTime.Add(time.Duration(i+1) * width),
		}
	}
	bounds[n-1][1] = maxTime
	return bounds
}

// windowMetrics builds an independent graph from every node and the
// window's links and measures it
func (a *Analyzer) windowMetrics(links []*graph.Attributes) Outcome[*BasicMetrics] {
	return attempt(a, "window_metrics", func() (*BasicMetrics, error) {
		g, _ := graph.Build(a.nodes, links, a.directed, a.logger)
		return computeBasicMetrics(a, g), nil
	})
}

// isoformat renders t as ISO 8601 with a numeric zone offset, adding
// microseconds only when they are non-zero
func isoformat(t time.Time) string {
	if t.Nanosecond()/1000 == 0 {
		return t.Format("2006-01-02T15:04:05-07:00")
	}
	return t.Format("2006-01-02T15:04:05.000000-07:00")
}
