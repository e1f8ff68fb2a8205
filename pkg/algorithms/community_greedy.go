package algorithms

import (
	"sort"

	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
)

// GreedyModularityCommunities finds communities by Clauset-Newman-Moore
// agglomeration: starting from singletons, repeatedly merge the pair of
// adjacent communities with the largest modularity gain until every
// remaining merge would lower modularity. Ties go to the pair with the
// lowest node indices. Communities are returned largest first.
//
// Directed graphs are treated as their undirected projection. A graph with
// no edges yields one singleton community per node.
func GreedyModularityCommunities(g *graph.Graph) *CommunityDetectionResult {
	if g.Directed() {
		g = g.ToUndirected()
	}
	n := g.NodeCount()
	members := make([][]int, n)
	for u := range members {
		members[u] = []int{u}
	}
	if g.EdgeCount() == 0 {
		return newCommunityResult(g, members)
	}

	m := float64(g.EdgeCount())
	a := make([]float64, n)
	for u := 0; u < n; u++ {
		a[u] = float64(g.Degree(u)) / (2 * m)
	}

	// dq[u][v] is the modularity change from merging communities u and v
	dq := make([]map[int]float64, n)
	for u := 0; u < n; u++ {
		dq[u] = make(map[int]float64, g.Degree(u))
	}
	for _, e := range g.Edges() {
		gain := 1/m - 2*a[e.From]*a[e.To]
		dq[e.From][e.To] = gain
		dq[e.To][e.From] = gain
	}

	active := make([]bool, n)
	for u := range active {
		active[u] = true
	}

	for {
		bu, bv := -1, -1
		best := 0.0
		for u := 0; u < n; u++ {
			if !active[u] {
				continue
			}
			for v, gain := range dq[u] {
				if bu < 0 || gain > best || (gain == best && (u < bu || (u == bu && v < bv))) {
					bu, bv, best = u, v, gain
				}
			}
		}
		if bu < 0 || best < 0 {
			break
		}

		// merge the lower index community into the higher one
		u, v := bu, bv
		if u > v {
			u, v = v, u
		}
		for w := range unionKeys(dq[u], dq[v]) {
			if w == u || w == v {
				continue
			}
			duw, inU := dq[u][w]
			dvw, inV := dq[v][w]
			var gain float64
			switch {
			case inU && inV:
				gain = dvw + duw
			case inV:
				gain = dvw - 2*a[u]*a[w]
			default:
				gain = duw - 2*a[v]*a[w]
			}
			dq[v][w] = gain
			dq[w][v] = gain
		}
		for w := range dq[u] {
			delete(dq[w], u)
		}
		delete(dq[v], u)
		dq[u] = nil
		active[u] = false

		members[v] = append(members[v], members[u]...)
		members[u] = nil
		a[v] += a[u]
		a[u] = 0
	}

	groups := make([][]int, 0)
	for u := 0; u < n; u++ {
		if active[u] {
			groups = append(groups, members[u])
		}
	}
	sort.SliceStable(groups, func(i, j int) bool { return len(groups[i]) > len(groups[j]) })
	return newCommunityResult(g, groups)
}

func unionKeys(a, b map[int]float64) map[int]struct{} {
	out := make(map[int]struct{}, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}
