package algorithms

import "github.com/dd0wney/cluso-chaingraph/pkg/graph"

// TriangleCountResult holds per-node and global triangle counts, treating
// all edges as undirected.
type TriangleCountResult struct {
	PerNode     []int
	GlobalCount int
}

// CountTriangles counts triangles in the graph, treating all edges as undirected.
// For each node u, it iterates over pairs (v,w) in u's neighbor set; if v and w
// are also neighbors, that's a triangle. Each triangle is counted once per
// participating node, so GlobalCount = sum(PerNode) / 3.
func CountTriangles(g *graph.Graph) *TriangleCountResult {
	n := g.NodeCount()
	neighborSets := undirectedNeighborSets(g)

	perNode := make([]int, n)
	total := 0
	for u := 0; u < n; u++ {
		neighbors := g.Neighbors(u)
		count := 0
		for i := 0; i < len(neighbors); i++ {
			v := neighbors[i]
			for j := i + 1; j < len(neighbors); j++ {
				if _, ok := neighborSets[v][neighbors[j]]; ok {
					count++
				}
			}
		}
		perNode[u] = count
		total += count
	}

	return &TriangleCountResult{PerNode: perNode, GlobalCount: total / 3}
}

func undirectedNeighborSets(g *graph.Graph) []map[int]struct{} {
	sets := make([]map[int]struct{}, g.NodeCount())
	for u := range sets {
		nbrs := g.Neighbors(u)
		set := make(map[int]struct{}, len(nbrs))
		for _, v := range nbrs {
			set[v] = struct{}{}
		}
		sets[u] = set
	}
	return sets
}
