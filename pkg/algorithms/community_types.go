package algorithms

import "github.com/dd0wney/cluso-chaingraph/pkg/graph"

// Community represents a detected community of node indices
type Community struct {
	ID      int
	Nodes   []int
	Size    int
	Density float64 // Edge density within community
}

// CommunityDetectionResult contains detected communities
type CommunityDetectionResult struct {
	Communities   []*Community
	NodeCommunity []int // node index -> community ID, -1 if unassigned
}

// Groups returns the node lists of every community in order
func (r *CommunityDetectionResult) Groups() [][]int {
	out := make([][]int, len(r.Communities))
	for i, c := range r.Communities {
		out[i] = c.Nodes
	}
	return out
}

// Sizes returns the size of every community in order
func (r *CommunityDetectionResult) Sizes() []int {
	out := make([]int, len(r.Communities))
	for i, c := range r.Communities {
		out[i] = c.Size
	}
	return out
}

// newCommunityResult numbers groups in the given order and sorts each
// group's members by graph insertion order.
func newCommunityResult(g *graph.Graph, groups [][]int) *CommunityDetectionResult {
	assign := make([]int, g.NodeCount())
	for i := range assign {
		assign[i] = -1
	}
	result := &CommunityDetectionResult{
		Communities:   make([]*Community, 0, len(groups)),
		NodeCommunity: assign,
	}
	for id, nodes := range groups {
		members := sortedCopy(nodes)
		for _, n := range members {
			assign[n] = id
		}
		result.Communities = append(result.Communities, &Community{
			ID:      id,
			Nodes:   members,
			Size:    len(members),
			Density: internalDensity(g, members, assign, id),
		})
	}
	return result
}

func internalDensity(g *graph.Graph, members []int, assign []int, id int) float64 {
	n := len(members)
	if n < 2 {
		return 0
	}
	internal := 0
	for _, u := range members {
		for _, v := range g.Successors(u) {
			if assign[v] == id {
				internal++
			}
		}
	}
	// Undirected edges are seen from both ends, which matches the 2m
	// numerator of undirected density.
	return float64(internal) / float64(n*(n-1))
}
