package graph

import (
	"github.com/dd0wney/cluso-chaingraph/pkg/logging"
)

// Record keys consumed during construction
const (
	KeyID     = "id"
	KeySource = "source"
	KeyFrom   = "from"
	KeyTarget = "target"
	KeyTo     = "to"
)

// BuildReport counts the records dropped while building a graph
type BuildReport struct {
	NodesAccepted    int `json:"nodes_accepted"`
	NodesDropped     int `json:"nodes_dropped"`
	EdgesAccepted    int `json:"edges_accepted"`
	EdgesDropped     int `json:"edges_dropped"`
	SelfLoopsDropped int `json:"self_loops_dropped"`
}

// NodeKey resolves the identifier of a node record
func NodeKey(rec *Attributes) (string, bool) {
	v, ok := rec.Get(KeyID)
	if !ok {
		return "", false
	}
	return v.Key()
}

// endpoint pops the first present key. A present key holding null still
// wins over the fallback spelling.
func endpoint(rec *Attributes, primary, fallback string) (Value, bool) {
	if v, ok := rec.Delete(primary); ok {
		return v, true
	}
	return rec.Delete(fallback)
}

// Build constructs a graph from raw node and edge records. The records are
// never mutated: each one is shallow-copied before the identifier and
// endpoint keys are stripped. Malformed records are dropped and logged.
func Build(nodes, edges []*Attributes, directed bool, logger logging.Logger) (*Graph, BuildReport) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	g := New(directed)
	var report BuildReport

	for pos, rec := range nodes {
		attrs := rec.Clone()
		idVal, ok := attrs.Delete(KeyID)
		if !ok {
			report.NodesDropped++
			logger.Warn("node missing id field, skipping",
				logging.Int("position", pos), logging.Any("record", attrs))
			continue
		}
		id, ok := idVal.Key()
		if !ok {
			report.NodesDropped++
			logger.Warn("node id is not a scalar, skipping",
				logging.Int("position", pos), logging.String("id_kind", idVal.Kind().String()))
			continue
		}
		g.AddNode(id, attrs)
		report.NodesAccepted++
	}

	for pos, rec := range edges {
		attrs := rec.Clone()
		srcVal, _ := endpoint(attrs, KeySource, KeyFrom)
		dstVal, _ := endpoint(attrs, KeyTarget, KeyTo)
		src, srcOK := srcVal.Key()
		dst, dstOK := dstVal.Key()
		if !srcOK || !dstOK {
			report.EdgesDropped++
			logger.Warn("skipping link with missing source or target",
				logging.Int("position", pos), logging.Any("record", attrs))
			continue
		}
		if src == dst {
			report.SelfLoopsDropped++
			logger.Warn("skipping self-loop link",
				logging.Int("position", pos), logging.NodeID(src))
			continue
		}
		if err := g.AddEdge(src, dst, attrs); err != nil {
			report.EdgesDropped++
			logger.Warn("skipping link", logging.Int("position", pos), logging.Error(err))
			continue
		}
		report.EdgesAccepted++
	}

	return g, report
}
