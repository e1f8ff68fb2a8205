package algorithms

import (
	"fmt"

	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
)

// Modularity computes Newman's modularity of a partition of an undirected
// graph. Directed graphs are measured on their undirected projection. The
// groups must cover every node exactly once.
func Modularity(g *graph.Graph, groups [][]int) (float64, error) {
	if g.Directed() {
		g = g.ToUndirected()
	}
	if err := checkPartition(g, groups); err != nil {
		return 0, err
	}
	m := float64(g.EdgeCount())
	if m == 0 {
		return 0, fmt.Errorf("modularity: %w", ErrNoEdges)
	}

	assign := make([]int, g.NodeCount())
	for id, nodes := range groups {
		for _, u := range nodes {
			assign[u] = id
		}
	}

	internal := make([]float64, len(groups))
	degreeSum := make([]float64, len(groups))
	for _, e := range g.Edges() {
		if assign[e.From] == assign[e.To] {
			internal[assign[e.From]]++
		}
	}
	for u := 0; u < g.NodeCount(); u++ {
		degreeSum[assign[u]] += float64(g.Degree(u))
	}

	q := 0.0
	for c := range groups {
		q += internal[c]/m - (degreeSum[c]*degreeSum[c])/(4*m*m)
	}
	return q, nil
}

func checkPartition(g *graph.Graph, groups [][]int) error {
	seen := make([]bool, g.NodeCount())
	count := 0
	for _, nodes := range groups {
		for _, u := range nodes {
			if u < 0 || u >= len(seen) || seen[u] {
				return ErrNotPartition
			}
			seen[u] = true
			count++
		}
	}
	if count != g.NodeCount() {
		return ErrNotPartition
	}
	return nil
}
