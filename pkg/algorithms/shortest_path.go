package algorithms

import (
	"fmt"

	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
)

// bfsDistances fills dist with hop counts from source along successor
// edges (-1 when unreachable) and returns how many nodes were reached,
// source included.
func bfsDistances(g *graph.Graph, source int, dist []int, queue []int) (reached int, sum int, farthest int) {
	for i := range dist {
		dist[i] = -1
	}
	dist[source] = 0
	queue = append(queue[:0], source)
	reached = 1

	for head := 0; head < len(queue); head++ {
		v := queue[head]
		for _, w := range g.Successors(v) {
			if dist[w] < 0 {
				dist[w] = dist[v] + 1
				sum += dist[w]
				reached++
				if dist[w] > farthest {
					farthest = dist[w]
				}
				queue = append(queue, w)
			}
		}
	}
	return reached, sum, farthest
}

// ShortestPathLengths returns the hop distance from source to every node
// along edge direction, -1 for unreachable nodes.
func ShortestPathLengths(g *graph.Graph, source int) []int {
	dist := make([]int, g.NodeCount())
	bfsDistances(g, source, dist, make([]int, 0, len(dist)))
	return dist
}

// PathStats holds all-pairs shortest path summaries
type PathStats struct {
	Diameter            int     `json:"diameter"`
	AverageShortestPath float64 `json:"average_shortest_path_length"`
}

// AllPairsPathStats computes the diameter (maximum eccentricity) and the
// average shortest path length over all ordered pairs. The graph must be
// connected (strongly, when directed); otherwise ErrDisconnected is
// returned. A single node has diameter 0 and average length 0.
func AllPairsPathStats(g *graph.Graph) (PathStats, error) {
	n := g.NodeCount()
	if n == 0 {
		return PathStats{}, ErrEmptyGraph
	}
	if n == 1 {
		return PathStats{}, nil
	}

	dist := make([]int, n)
	queue := make([]int, 0, n)
	var stats PathStats
	total := 0

	for source := 0; source < n; source++ {
		reached, sum, farthest := bfsDistances(g, source, dist, queue)
		if reached != n {
			return PathStats{}, fmt.Errorf("node %q reaches %d of %d nodes: %w", g.ID(source), reached, n, ErrDisconnected)
		}
		total += sum
		if farthest > stats.Diameter {
			stats.Diameter = farthest
		}
	}

	stats.AverageShortestPath = float64(total) / float64(n*(n-1))
	return stats, nil
}
