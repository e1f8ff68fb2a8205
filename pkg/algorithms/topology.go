package algorithms

import (
	"fmt"

	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
)

// IsDAG checks if the graph is a Directed Acyclic Graph.
// Undirected graphs with any edge are never DAGs.
func IsDAG(g *graph.Graph) bool {
	if !g.Directed() {
		return g.EdgeCount() == 0
	}
	_, err := TopologicalSort(g)
	return err == nil
}

// TopologicalSort returns nodes in topological order using Kahn's algorithm.
// The ordering ensures that for every directed edge u->v, u comes before v;
// ties keep insertion order.
func TopologicalSort(g *graph.Graph) ([]int, error) {
	n := g.NodeCount()
	inDegree := make([]int, n)
	for u := 0; u < n; u++ {
		inDegree[u] = g.InDegree(u)
	}

	queue := make([]int, 0, n)
	for u := 0; u < n; u++ {
		if inDegree[u] == 0 {
			queue = append(queue, u)
		}
	}

	sorted := make([]int, 0, n)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		sorted = append(sorted, current)

		for _, v := range g.Successors(current) {
			inDegree[v]--
			if inDegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}

	if len(sorted) != n {
		return nil, fmt.Errorf("topological sort: %d of %d nodes on cycles: %w", n-len(sorted), n, ErrCycle)
	}
	return sorted, nil
}

// Levels assigns every node a depth by breadth-first search from the root
// nodes. Roots are nodes without predecessors (every node when the graph is
// undirected); a component with no root starts from its first node. The
// result lists the nodes of each level in visiting order.
func Levels(g *graph.Graph) [][]int {
	n := g.NodeCount()
	depth := make([]int, n)
	for i := range depth {
		depth[i] = -1
	}

	var levels [][]int
	queue := make([]int, 0, n)
	visit := func(root int) {
		if depth[root] >= 0 {
			return
		}
		depth[root] = 0
		queue = append(queue[:0], root)
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			if depth[u] == len(levels) {
				levels = append(levels, nil)
			}
			levels[depth[u]] = append(levels[depth[u]], u)
			for _, v := range g.Successors(u) {
				if depth[v] < 0 {
					depth[v] = depth[u] + 1
					queue = append(queue, v)
				}
			}
		}
	}

	if g.Directed() {
		for u := 0; u < n; u++ {
			if g.InDegree(u) == 0 {
				visit(u)
			}
		}
	}
	for u := 0; u < n; u++ {
		visit(u)
	}
	return levels
}

// IsBipartite checks if the graph can be colored with two colors such that
// no two adjacent nodes share a color, ignoring edge direction. It returns
// both color classes; each component starts in the first class from its
// lowest index node.
func IsBipartite(g *graph.Graph) (bool, []int, []int) {
	n := g.NodeCount()
	color := make([]int, n)
	for i := range color {
		color[i] = -1
	}

	var first, second []int
	for start := 0; start < n; start++ {
		if color[start] != -1 {
			continue
		}
		color[start] = 0
		queue := []int{start}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			for _, neighbor := range g.Neighbors(current) {
				switch color[neighbor] {
				case -1:
					color[neighbor] = 1 - color[current]
					queue = append(queue, neighbor)
				case color[current]:
					return false, nil, nil
				}
			}
		}
	}

	for u, c := range color {
		if c == 0 {
			first = append(first, u)
		} else {
			second = append(second, u)
		}
	}
	return true, first, second
}
