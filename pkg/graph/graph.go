// Package graph holds the in-memory graph that every analysis runs on.
//
// Nodes are identified by string keys and addressed internally by a dense
// index in insertion order. Algorithms work on indices; the public surface
// speaks node ids. Adjacency lists keep neighbour insertion order so that
// every traversal, and therefore every result, is deterministic.
package graph

import "fmt"

// Edge is a stored edge between two node indices
type Edge struct {
	From  int
	To    int
	Attrs *Attributes
}

type edgeKey struct{ u, v int }

// Graph is a simple graph (no self-loops, no parallel edges), directed or
// undirected.
type Graph struct {
	directed bool
	ids      []string
	index    map[string]int
	attrs    []*Attributes
	succ     [][]int
	pred     [][]int
	edges    []Edge
	edgeIdx  map[edgeKey]int
}

// New creates an empty graph
func New(directed bool) *Graph {
	return &Graph{
		directed: directed,
		index:    make(map[string]int),
		edgeIdx:  make(map[edgeKey]int),
	}
}

// Directed reports whether edges have a direction
func (g *Graph) Directed() bool { return g.directed }

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int { return len(g.ids) }

// EdgeCount returns the number of edges
func (g *Graph) EdgeCount() int { return len(g.edges) }

// AddNode inserts a node or merges attrs into an existing one, returning
// its index.
func (g *Graph) AddNode(id string, attrs *Attributes) int {
	if i, ok := g.index[id]; ok {
		if attrs != nil {
			g.attrs[i].Merge(attrs)
		}
		return i
	}
	i := len(g.ids)
	g.ids = append(g.ids, id)
	g.index[id] = i
	if attrs == nil {
		attrs = NewAttributes()
	}
	g.attrs = append(g.attrs, attrs)
	g.succ = append(g.succ, nil)
	if g.directed {
		g.pred = append(g.pred, nil)
	}
	return i
}

func (g *Graph) key(u, v int) edgeKey {
	if !g.directed && v < u {
		u, v = v, u
	}
	return edgeKey{u, v}
}

// AddEdge connects from and to, creating missing endpoints. Adding an
// existing edge merges attrs into it. Self-loops are rejected.
func (g *Graph) AddEdge(from, to string, attrs *Attributes) error {
	if from == to {
		return fmt.Errorf("graph: self-loop on %q", from)
	}
	u := g.AddNode(from, nil)
	v := g.AddNode(to, nil)
	g.addEdgeIndex(u, v, attrs)
	return nil
}

func (g *Graph) addEdgeIndex(u, v int, attrs *Attributes) {
	k := g.key(u, v)
	if ei, ok := g.edgeIdx[k]; ok {
		if attrs != nil {
			g.edges[ei].Attrs.Merge(attrs)
		}
		return
	}
	if attrs == nil {
		attrs = NewAttributes()
	}
	g.edgeIdx[k] = len(g.edges)
	g.edges = append(g.edges, Edge{From: u, To: v, Attrs: attrs})
	g.succ[u] = append(g.succ[u], v)
	if g.directed {
		g.pred[v] = append(g.pred[v], u)
	} else {
		g.succ[v] = append(g.succ[v], u)
	}
}

// ID returns the identifier of node i
func (g *Graph) ID(i int) string { return g.ids[i] }

// IDs returns all node identifiers in insertion order
func (g *Graph) IDs() []string {
	out := make([]string, len(g.ids))
	copy(out, g.ids)
	return out
}

// Index returns the index of id
func (g *Graph) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// NodeAttrs returns the attributes of node i
func (g *Graph) NodeAttrs(i int) *Attributes { return g.attrs[i] }

// Edges returns the stored edges in insertion order
func (g *Graph) Edges() []Edge { return g.edges }

// HasEdge reports whether u and v are adjacent (u -> v when directed)
func (g *Graph) HasEdge(u, v int) bool {
	_, ok := g.edgeIdx[g.key(u, v)]
	return ok
}

// EdgeIndex returns the position of the u-v edge in Edges()
func (g *Graph) EdgeIndex(u, v int) (int, bool) {
	ei, ok := g.edgeIdx[g.key(u, v)]
	return ei, ok
}

// Successors returns out-neighbours of i (all neighbours when undirected)
func (g *Graph) Successors(i int) []int { return g.succ[i] }

// Predecessors returns in-neighbours of i (all neighbours when undirected)
func (g *Graph) Predecessors(i int) []int {
	if !g.directed {
		return g.succ[i]
	}
	return g.pred[i]
}

// Neighbors returns the distinct nodes adjacent to i ignoring direction
func (g *Graph) Neighbors(i int) []int {
	if !g.directed {
		return g.succ[i]
	}
	seen := make(map[int]struct{}, len(g.succ[i])+len(g.pred[i]))
	out := make([]int, 0, len(g.succ[i])+len(g.pred[i]))
	for _, list := range [][]int{g.succ[i], g.pred[i]} {
		for _, j := range list {
			if _, ok := seen[j]; ok {
				continue
			}
			seen[j] = struct{}{}
			out = append(out, j)
		}
	}
	return out
}

// OutDegree returns the number of edges leaving i
func (g *Graph) OutDegree(i int) int { return len(g.succ[i]) }

// InDegree returns the number of edges entering i
func (g *Graph) InDegree(i int) int { return len(g.Predecessors(i)) }

// Degree returns in+out degree for directed graphs, neighbour count otherwise
func (g *Graph) Degree(i int) int {
	if g.directed {
		return len(g.succ[i]) + len(g.pred[i])
	}
	return len(g.succ[i])
}

// ToUndirected returns an undirected copy. Reciprocal directed edges
// collapse into one edge carrying the attributes of the later one.
func (g *Graph) ToUndirected() *Graph {
	if !g.directed {
		return g.Clone()
	}
	out := New(false)
	for i, id := range g.ids {
		out.AddNode(id, g.attrs[i].Clone())
	}
	for u := range g.ids {
		for _, v := range g.succ[u] {
			e := g.edges[g.edgeIdx[edgeKey{u, v}]]
			out.addEdgeIndex(u, v, e.Attrs.Clone())
		}
	}
	return out
}

// Clone returns a structural copy with cloned attribute maps
func (g *Graph) Clone() *Graph {
	out := New(g.directed)
	for i, id := range g.ids {
		out.AddNode(id, g.attrs[i].Clone())
	}
	for _, e := range g.edges {
		out.addEdgeIndex(e.From, e.To, e.Attrs.Clone())
	}
	return out
}

// Subgraph returns the subgraph induced by the given node indices. Node
// order follows the parent graph, not the order of nodes.
func (g *Graph) Subgraph(nodes []int) *Graph {
	keep := make([]bool, len(g.ids))
	for _, i := range nodes {
		keep[i] = true
	}
	remap := make([]int, len(g.ids))
	out := New(g.directed)
	for i, id := range g.ids {
		if keep[i] {
			remap[i] = out.AddNode(id, g.attrs[i])
		}
	}
	for _, e := range g.edges {
		if keep[e.From] && keep[e.To] {
			out.addEdgeIndex(remap[e.From], remap[e.To], e.Attrs)
		}
	}
	return out
}

// RemoveEdge deletes the edge between u and v if present
func (g *Graph) RemoveEdge(u, v int) bool {
	k := g.key(u, v)
	ei, ok := g.edgeIdx[k]
	if !ok {
		return false
	}
	delete(g.edgeIdx, k)
	g.edges = append(g.edges[:ei:ei], g.edges[ei+1:]...)
	for j := ei; j < len(g.edges); j++ {
		g.edgeIdx[g.key(g.edges[j].From, g.edges[j].To)] = j
	}
	g.succ[u] = removeInt(g.succ[u], v)
	if g.directed {
		g.pred[v] = removeInt(g.pred[v], u)
	} else {
		g.succ[v] = removeInt(g.succ[v], u)
	}
	return true
}

func removeInt(list []int, x int) []int {
	for i, y := range list {
		if y == x {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}
