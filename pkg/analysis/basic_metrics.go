package analysis

import (
	"fmt"

	"github.com/dd0wney/cluso-chaingraph/pkg/algorithms"
	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
)

// PathScope says which part of the graph the path metrics describe
type PathScope int

const (
	// PathScopeGraph: the graph is connected and was measured whole
	PathScopeGraph PathScope = iota
	// PathScopeLargestComponent: only the largest component was measured
	PathScopeLargestComponent
	// PathScopeNone: the largest component is a single node
	PathScopeNone
)

// PathMetrics holds diameter and average shortest path length
type PathMetrics struct {
	Scope               PathScope
	Diameter            int
	AverageShortestPath float64
	ComponentSize       int
	ComponentFraction   float64
}

// BasicMetrics summarises the structure of a graph. Connectivity fields
// are strong connectivity for directed graphs.
type BasicMetrics struct {
	NodeCount     int
	EdgeCount     int
	Density       float64
	AverageDegree float64
	Directed      bool

	Connected       bool
	Components      int
	WeaklyConnected bool
	WeakComponents  int

	AverageClustering Outcome[float64]
	Paths             Outcome[PathMetrics]
}

// BasicMetrics computes counts, density, connectivity, clustering and
// path metrics. Clustering and path metrics are best-effort and become
// null on failure.
func (a *Analyzer) BasicMetrics() *BasicMetrics {
	done := a.timed("basic_metrics")
	m := computeBasicMetrics(a, a.graph)
	done(nil)
	return m
}

func computeBasicMetrics(a *Analyzer, g *graph.Graph) *BasicMetrics {
	n := g.NodeCount()
	m := &BasicMetrics{
		NodeCount: n,
		EdgeCount: g.EdgeCount(),
		Density:   density(g),
		Directed:  g.Directed(),
	}
	if n > 0 {
		m.AverageDegree = float64(2*g.EdgeCount()) / float64(n)
	}

	weak := algorithms.ConnectedComponents(g)
	if g.Directed() {
		strong := algorithms.StronglyConnectedComponents(g)
		m.Components = len(strong.Communities)
		m.Connected = m.Components == 1
		m.WeakComponents = len(weak.Communities)
		m.WeaklyConnected = m.WeakComponents == 1
	} else {
		m.Components = len(weak.Communities)
		m.Connected = m.Components == 1
	}

	m.AverageClustering = attempt(a, "average_clustering", func() (float64, error) {
		return algorithms.AverageClusteringCoefficient(g)
	})
	m.Paths = attempt(a, "path_metrics", func() (PathMetrics, error) {
		return pathMetrics(g, m.Connected)
	})
	return m
}

func density(g *graph.Graph) float64 {
	n := float64(g.NodeCount())
	if n <= 1 {
		return 0
	}
	d := float64(g.EdgeCount()) / (n * (n - 1))
	if !g.Directed() {
		d *= 2
	}
	return d
}

func pathMetrics(g *graph.Graph, connected bool) (PathMetrics, error) {
	if g.NodeCount() == 0 {
		return PathMetrics{}, algorithms.ErrEmptyGraph
	}
	if connected {
		stats, err := algorithms.AllPairsPathStats(g)
		if err != nil {
			return PathMetrics{}, err
		}
		return PathMetrics{
			Scope:               PathScopeGraph,
			Diameter:            stats.Diameter,
			AverageShortestPath: stats.AverageShortestPath,
		}, nil
	}

	var largest []int
	if g.Directed() {
		largest = algorithms.StronglyConnectedComponents(g).LargestSCC.Nodes
	} else {
		largest = algorithms.LargestGroup(algorithms.ConnectedComponents(g).Groups())
	}
	if len(largest) <= 1 {
		return PathMetrics{Scope: PathScopeNone}, nil
	}

	stats, err := algorithms.AllPairsPathStats(g.Subgraph(largest))
	if err != nil {
		return PathMetrics{}, fmt.Errorf("largest component: %w", err)
	}
	return PathMetrics{
		Scope:               PathScopeLargestComponent,
		Diameter:            stats.Diameter,
		AverageShortestPath: stats.AverageShortestPath,
		ComponentSize:       len(largest),
		ComponentFraction:   float64(len(largest)) / float64(g.NodeCount()),
	}, nil
}

// MarshalJSON writes the metrics with the key set of the selected
// directedness and path scope
func (m *BasicMetrics) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	w.field("node_count", m.NodeCount)
	w.field("edge_count", m.EdgeCount)
	w.field("density", m.Density)
	w.field("average_degree", m.AverageDegree)
	if m.Directed {
		w.field("is_strongly_connected", m.Connected)
		w.field("strongly_connected_components", m.Components)
		w.field("is_weakly_connected", m.WeaklyConnected)
		w.field("weakly_connected_components", m.WeakComponents)
	} else {
		w.field("is_connected", m.Connected)
		w.field("connected_components", m.Components)
	}
	w.field("average_clustering", m.AverageClustering)

	paths, ok := m.Paths.Get()
	switch {
	case !ok:
		w.field("diameter", nil)
		w.field("average_shortest_path_length", nil)
	case paths.Scope == PathScopeGraph:
		w.field("diameter", paths.Diameter)
		w.field("average_shortest_path_length", paths.AverageShortestPath)
	case paths.Scope == PathScopeLargestComponent:
		w.field("diameter_largest_component", paths.Diameter)
		w.field("average_shortest_path_length_largest_component", paths.AverageShortestPath)
		w.field("largest_component_size", paths.ComponentSize)
		w.field("largest_component_percentage", paths.ComponentFraction)
	}
	return w.bytes()
}
