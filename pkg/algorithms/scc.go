package algorithms

import "github.com/dd0wney/cluso-chaingraph/pkg/graph"

// SCCResult holds the result of Tarjan's strongly connected components
// algorithm. Components appear in completion order.
type SCCResult struct {
	*CommunityDetectionResult
	LargestSCC     *Community
	SingletonCount int
}

// tarjanState holds per-node state during Tarjan's DFS.
type tarjanState struct {
	index   int
	lowlink int
	onStack bool
	visited bool
}

// StronglyConnectedComponents finds all SCCs using Tarjan's algorithm in
// O(V+E) time. On an undirected graph this equals ConnectedComponents.
func StronglyConnectedComponents(g *graph.Graph) *SCCResult {
	n := g.NodeCount()
	state := make([]tarjanState, n)
	var stack []int
	indexCounter := 0
	var groups [][]int

	var strongconnect func(u int)
	strongconnect = func(u int) {
		state[u] = tarjanState{
			index:   indexCounter,
			lowlink: indexCounter,
			onStack: true,
			visited: true,
		}
		indexCounter++
		stack = append(stack, u)

		for _, v := range g.Successors(u) {
			if !state[v].visited {
				strongconnect(v)
				state[u].lowlink = min(state[u].lowlink, state[v].lowlink)
			} else if state[v].onStack {
				state[u].lowlink = min(state[u].lowlink, state[v].index)
			}
		}

		if state[u].lowlink == state[u].index {
			var members []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				state[w].onStack = false
				members = append(members, w)
				if w == u {
					break
				}
			}
			groups = append(groups, members)
		}
	}

	for u := 0; u < n; u++ {
		if !state[u].visited {
			strongconnect(u)
		}
	}

	result := &SCCResult{CommunityDetectionResult: newCommunityResult(g, groups)}
	for _, c := range result.Communities {
		if c.Size == 1 {
			result.SingletonCount++
		}
		if result.LargestSCC == nil || c.Size > result.LargestSCC.Size {
			result.LargestSCC = c
		}
	}
	return result
}

// IsStronglyConnected reports whether every node reaches every other.
// A graph with no nodes is not strongly connected.
func IsStronglyConnected(g *graph.Graph) bool {
	if g.NodeCount() == 0 {
		return false
	}
	return len(StronglyConnectedComponents(g).Communities) == 1
}
