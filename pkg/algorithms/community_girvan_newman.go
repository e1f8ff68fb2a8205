package algorithms

import "github.com/dd0wney/cluso-chaingraph/pkg/graph"

// GirvanNewmanFirstSplit returns the first level of the Girvan-Newman
// hierarchy: edges of highest betweenness are removed one at a time,
// recomputing betweenness after each removal, until the graph splits into
// more components than it started with. Ties go to the first edge in
// adjacency order.
//
// Directed graphs are treated as their undirected projection. A graph with
// no edges returns its components unchanged.
func GirvanNewmanFirstSplit(g *graph.Graph) *CommunityDetectionResult {
	work := g.ToUndirected()
	if work.EdgeCount() == 0 {
		return newCommunityResult(work, componentGroups(work))
	}

	original := len(componentGroups(work))
	for work.EdgeCount() > 0 {
		u, v := mostCentralEdge(work)
		work.RemoveEdge(u, v)
		if groups := componentGroups(work); len(groups) > original {
			return newCommunityResult(work, groups)
		}
	}
	return newCommunityResult(work, componentGroups(work))
}

// mostCentralEdge walks edges in adjacency order (each node's neighbours,
// skipping nodes already visited) and returns the first edge of maximal
// betweenness.
func mostCentralEdge(g *graph.Graph) (int, int) {
	scores := EdgeBetweennessCentrality(g)
	seen := make([]bool, g.NodeCount())
	bu, bv := -1, -1
	best := 0.0
	for u := 0; u < g.NodeCount(); u++ {
		for _, v := range g.Successors(u) {
			if seen[v] {
				continue
			}
			ei, _ := g.EdgeIndex(u, v)
			if bu < 0 || scores[ei] > best {
				bu, bv, best = u, v, scores[ei]
			}
		}
		seen[u] = true
	}
	return bu, bv
}
