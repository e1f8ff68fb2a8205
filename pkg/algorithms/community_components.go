package algorithms

import (
	"container/list"

	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
)

// ConnectedComponents finds components ignoring edge direction (weak
// components of a directed graph). Components are ordered by their lowest
// node index.
func ConnectedComponents(g *graph.Graph) *CommunityDetectionResult {
	return newCommunityResult(g, componentGroups(g))
}

func componentGroups(g *graph.Graph) [][]int {
	n := g.NodeCount()
	visited := make([]bool, n)
	var groups [][]int

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		component := make([]int, 0)
		queue := list.New()
		queue.PushBack(start)
		visited[start] = true

		for queue.Len() > 0 {
			u := queue.Remove(queue.Front()).(int)
			component = append(component, u)
			for _, v := range g.Neighbors(u) {
				if !visited[v] {
					visited[v] = true
					queue.PushBack(v)
				}
			}
		}
		groups = append(groups, component)
	}
	return groups
}

// IsConnected reports whether the graph is connected ignoring direction.
// A graph with no nodes is not connected.
func IsConnected(g *graph.Graph) bool {
	if g.NodeCount() == 0 {
		return false
	}
	return len(componentGroups(g)) == 1
}

// LargestGroup returns the first group of maximum size
func LargestGroup(groups [][]int) []int {
	var best []int
	for _, c := range groups {
		if len(c) > len(best) {
			best = c
		}
	}
	return best
}
