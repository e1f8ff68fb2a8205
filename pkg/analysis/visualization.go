package analysis

import (
	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
	"github.com/dd0wney/cluso-chaingraph/pkg/logging"
)

// NodesWithPositions returns a copy of every input node record with x, y
// (and z in 3D) from the layout and, when includeMetrics is set, a metrics
// object holding each centrality score of the node. Records whose id did
// not make it into the graph are copied unchanged.
func (a *Analyzer) NodesWithPositions(layout string, opts LayoutOptions, includeMetrics bool) []*graph.Attributes {
	positions := a.LayoutPositions(layout, opts)

	type metricIndex struct {
		name   string
		scores Scores
		index  map[string]int
	}
	var lookups []metricIndex
	if includeMetrics {
		centrality := a.CentralityMetrics(0, true)
		for _, name := range centrality.Names() {
			scores, _ := centrality.Get(name)
			lookups = append(lookups, metricIndex{name, scores, scores.Index()})
		}
	}

	out := make([]*graph.Attributes, 0, len(a.nodes))
	for _, rec := range a.nodes {
		node := rec.Clone()
		out = append(out, node)

		id, ok := graph.NodeKey(rec)
		if !ok {
			continue
		}
		if i, ok := a.graph.Index(id); ok {
			coords := positions.Coords[i]
			node.Set("x", graph.FloatValue(coords[0]))
			node.Set("y", graph.FloatValue(coords[1]))
			if len(coords) > 2 {
				node.Set("z", graph.FloatValue(coords[2]))
			}
		}
		if !includeMetrics {
			continue
		}
		values := graph.NewAttributes()
		for _, m := range lookups {
			if j, ok := m.index[id]; ok {
				values.Set(m.name, graph.FloatValue(m.scores.Values[j]))
			}
		}
		if values.Len() > 0 {
			node.Set("metrics", graph.MapValue(values))
		}
	}
	return out
}

// VisualizationOptions selects what VisualizationData includes
type VisualizationOptions struct {
	Layout             string
	LayoutOptions      LayoutOptions
	IncludeCommunities bool
	IncludeMetrics     bool
	CommunityAlgorithm string
}

// DefaultVisualizationOptions returns the spring layout without extras
func DefaultVisualizationOptions() VisualizationOptions {
	return VisualizationOptions{
		Layout:             "spring",
		LayoutOptions:      DefaultLayoutOptions(),
		CommunityAlgorithm: AlgorithmLouvain,
	}
}

// Visualization is the combined payload for rendering a graph
type Visualization struct {
	Nodes        []*graph.Attributes `json:"nodes"`
	Links        []*graph.Attributes `json:"links"`
	Layout       string              `json:"layout"`
	GraphMetrics *BasicMetrics       `json:"graph_metrics"`
	Communities  *CommunityResult    `json:"communities,omitempty"`
}

// VisualizationData assembles positioned nodes, the raw links and the basic
// metrics, plus community detection when requested. With a non-empty
// partition every node gets a community index, -1 when unassigned.
func (a *Analyzer) VisualizationData(opts VisualizationOptions) *Visualization {
	v := &Visualization{
		Nodes:        a.NodesWithPositions(opts.Layout, opts.LayoutOptions, opts.IncludeMetrics),
		Links:        a.edges,
		Layout:       opts.Layout,
		GraphMetrics: a.BasicMetrics(),
	}
	if v.Links == nil {
		v.Links = []*graph.Attributes{}
	}

	if opts.IncludeCommunities {
		v.Communities = a.DetectCommunities(opts.CommunityAlgorithm)
		if v.Communities.CommunityCount() > 0 {
			assignment := v.Communities.Assignment()
			for _, node := range v.Nodes {
				index := -1
				if id, ok := graph.NodeKey(node); ok {
					if c, ok := assignment[id]; ok {
						index = c
					}
				}
				node.Set("community", graph.IntValue(int64(index)))
			}
		}
	}

	a.logger.Debug("visualization assembled",
		logging.Layout(opts.Layout), logging.Count(len(v.Nodes)))
	return v
}
