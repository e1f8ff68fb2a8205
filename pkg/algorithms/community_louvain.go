package algorithms

import (
	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
)

// LouvainOptions configures the Louvain method
type LouvainOptions struct {
	Resolution float64
	// MinGain stops a level once modularity improves by less than this
	MinGain float64
	// MaxLevels bounds the number of aggregation rounds
	MaxLevels int
}

// DefaultLouvainOptions returns standard Louvain settings
func DefaultLouvainOptions() LouvainOptions {
	return LouvainOptions{
		Resolution: 1.0,
		MinGain:    1e-7,
		MaxLevels:  32,
	}
}

// weightedGraph is the aggregated graph Louvain works on between levels.
// loops[i] holds the weight of the self-loop created by collapsing a
// community; degree counts it twice.
type weightedGraph struct {
	adj    []map[int]float64
	order  [][]int // neighbour order per node, for deterministic sweeps
	loops  []float64
	degree []float64
	total  float64 // sum of edge weights
}

func newWeightedGraph(g *graph.Graph) *weightedGraph {
	n := g.NodeCount()
	wg := &weightedGraph{
		adj:    make([]map[int]float64, n),
		order:  make([][]int, n),
		loops:  make([]float64, n),
		degree: make([]float64, n),
	}
	for u := 0; u < n; u++ {
		wg.adj[u] = make(map[int]float64)
	}
	for _, e := range g.Edges() {
		wg.addEdge(e.From, e.To, 1)
	}
	return wg
}

func (wg *weightedGraph) addEdge(u, v int, w float64) {
	wg.total += w
	if u == v {
		wg.loops[u] += w
		wg.degree[u] += 2 * w
		return
	}
	if _, ok := wg.adj[u][v]; !ok {
		wg.order[u] = append(wg.order[u], v)
		wg.order[v] = append(wg.order[v], u)
	}
	wg.adj[u][v] += w
	wg.adj[v][u] += w
	wg.degree[u] += w
	wg.degree[v] += w
}

type louvainState struct {
	node2com  []int
	totDegree []float64 // per community
	internal  []float64 // per community
}

func newLouvainState(wg *weightedGraph) *louvainState {
	n := len(wg.adj)
	s := &louvainState{
		node2com:  make([]int, n),
		totDegree: make([]float64, n),
		internal:  make([]float64, n),
	}
	for u := 0; u < n; u++ {
		s.node2com[u] = u
		s.totDegree[u] = wg.degree[u]
		s.internal[u] = wg.loops[u]
	}
	return s
}

func (s *louvainState) modularity(wg *weightedGraph, resolution float64) float64 {
	if wg.total == 0 {
		return 0
	}
	q := 0.0
	for c := range s.totDegree {
		if s.totDegree[c] == 0 && s.internal[c] == 0 {
			continue
		}
		share := s.totDegree[c] / (2 * wg.total)
		q += resolution*s.internal[c]/wg.total - share*share
	}
	return q
}

// oneLevel moves single nodes between communities until no move improves
// modularity by at least minGain over a full sweep.
func (s *louvainState) oneLevel(wg *weightedGraph, opts LouvainOptions) {
	n := len(wg.adj)
	current := s.modularity(wg, opts.Resolution)
	for {
		moved := false
		for u := 0; u < n; u++ {
			com := s.node2com[u]
			share := wg.degree[u] / (2 * wg.total)

			// weight from u to each neighbouring community, in first-seen order
			weights := make(map[int]float64)
			var comOrder []int
			for _, v := range wg.order[u] {
				c := s.node2com[v]
				if _, ok := weights[c]; !ok {
					comOrder = append(comOrder, c)
				}
				weights[c] += wg.adj[u][v]
			}

			removeCost := -weights[com] + opts.Resolution*(s.totDegree[com]-wg.degree[u])*share
			s.totDegree[com] -= wg.degree[u]
			s.internal[com] -= weights[com] + wg.loops[u]

			bestCom := com
			bestGain := 0.0
			for _, c := range comOrder {
				gain := removeCost + weights[c] - opts.Resolution*s.totDegree[c]*share
				if gain > bestGain {
					bestGain = gain
					bestCom = c
				}
			}

			s.totDegree[bestCom] += wg.degree[u]
			s.internal[bestCom] += weights[bestCom] + wg.loops[u]
			s.node2com[u] = bestCom
			if bestCom != com {
				moved = true
			}
		}
		next := s.modularity(wg, opts.Resolution)
		if !moved || next-current < opts.MinGain {
			return
		}
		current = next
	}
}

// renumber maps community labels to 0..k-1 in order of first appearance
func renumber(node2com []int) ([]int, int) {
	ids := make(map[int]int)
	out := make([]int, len(node2com))
	for u, c := range node2com {
		id, ok := ids[c]
		if !ok {
			id = len(ids)
			ids[c] = id
		}
		out[u] = id
	}
	return out, len(ids)
}

// induce collapses every community into one node
func (wg *weightedGraph) induce(partition []int, k int) *weightedGraph {
	out := &weightedGraph{
		adj:    make([]map[int]float64, k),
		order:  make([][]int, k),
		loops:  make([]float64, k),
		degree: make([]float64, k),
	}
	for c := 0; c < k; c++ {
		out.adj[c] = make(map[int]float64)
	}
	for u := range wg.adj {
		cu := partition[u]
		if wg.loops[u] > 0 {
			out.addEdge(cu, cu, wg.loops[u])
		}
		for _, v := range wg.order[u] {
			if v < u {
				continue
			}
			out.addEdge(cu, partition[v], wg.adj[u][v])
		}
	}
	return out
}

// LouvainCommunities finds communities with the Louvain method: local node
// moves that greedily raise modularity, followed by collapsing each
// community into a single node, repeated while modularity still improves.
// Sweeps visit nodes in index order so results are deterministic.
// Communities are ordered by their lowest node index.
//
// Directed graphs are treated as their undirected projection. A graph with
// no edges yields one singleton community per node.
func LouvainCommunities(g *graph.Graph, opts LouvainOptions) *CommunityDetectionResult {
	if g.Directed() {
		g = g.ToUndirected()
	}
	n := g.NodeCount()
	assignment := make([]int, n)
	for u := range assignment {
		assignment[u] = u
	}

	if g.EdgeCount() > 0 {
		wg := newWeightedGraph(g)
		state := newLouvainState(wg)
		state.oneLevel(wg, opts)
		partition, k := renumber(state.node2com)
		for u := range assignment {
			assignment[u] = partition[u]
		}
		mod := state.modularity(wg, opts.Resolution)

		for level := 1; level < opts.MaxLevels; level++ {
			wg = wg.induce(partition, k)
			state = newLouvainState(wg)
			state.oneLevel(wg, opts)
			next := state.modularity(wg, opts.Resolution)
			if next-mod < opts.MinGain {
				break
			}
			partition, k = renumber(state.node2com)
			for u := range assignment {
				assignment[u] = partition[assignment[u]]
			}
			mod = next
		}
	}

	// group nodes by final community in order of first appearance
	var groups [][]int
	index := make(map[int]int)
	for u, c := range assignment {
		gi, ok := index[c]
		if !ok {
			gi = len(groups)
			index[c] = gi
			groups = append(groups, nil)
		}
		groups[gi] = append(groups[gi], u)
	}
	return newCommunityResult(g, groups)
}
