package source

import (
	"time"

	"github.com/dd0wney/cluso-chaingraph/pkg/analysis"
	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
)

// Filter applies q to in-memory links, preserving order. Links without a
// parsable timestamp are excluded only when a time bound is set.
func Filter(edges []*graph.Attributes, q Query) []*graph.Attributes {
	var addresses map[string]bool
	if len(q.Addresses) > 0 {
		addresses = make(map[string]bool, len(q.Addresses))
		for _, a := range q.Addresses {
			addresses[a] = true
		}
	}

	out := make([]*graph.Attributes, 0, len(edges))
	for _, e := range edges {
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
		if (q.Start != nil || q.End != nil) && !inRange(e, q.Start, q.End) {
			continue
		}
		if q.Chain != "" && stringAttr(e, KeyChain) != q.Chain {
			continue
		}
		if q.MinValue > 0 {
			v, ok := e.Get(KeyValue)
			f, isNum := v.AsFloat()
			if !ok || !isNum || f < q.MinValue {
				continue
			}
		}
		if addresses != nil && !touches(e, addresses) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func inRange(e *graph.Attributes, start, end *time.Time) bool {
	v, ok := e.Get(KeyTimestamp)
	if !ok {
		return false
	}
	ts, err := analysis.ParseTimestamp(v)
	if err != nil {
		return false
	}
	if start != nil && ts.Before(*start) {
		return false
	}
	if end != nil && ts.After(*end) {
		return false
	}
	return true
}

func touches(e *graph.Attributes, addresses map[string]bool) bool {
	for _, key := range []string{graph.KeySource, graph.KeyFrom, graph.KeyTarget, graph.KeyTo} {
		if v, ok := e.Get(key); ok {
			if id, ok := v.Key(); ok && addresses[id] {
				return true
			}
		}
	}
	return false
}

func stringAttr(a *graph.Attributes, key string) string {
	if v, ok := a.Get(key); ok {
		s, _ := v.AsString()
		return s
	}
	return ""
}
