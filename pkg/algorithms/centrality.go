package algorithms

import (
	"container/list"

	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
)

// predEdge tracks a predecessor node and the edge used to reach it during BFS.
// This allows the back-propagation phase to accumulate flow onto specific edges.
type predEdge struct {
	node int
	edge int
}

// brandesCentrality runs a single O(VE) Brandes pass and returns both node and
// edge betweenness (raw, unnormalised). On undirected graphs every pair is
// counted from both ends; callers apply the scaling.
func brandesCentrality(g *graph.Graph) (nodeBetweenness []float64, edgeBetweenness []float64) {
	n := g.NodeCount()
	nodeBetweenness = make([]float64, n)
	edgeBetweenness = make([]float64, g.EdgeCount())

	stack := make([]int, 0, n)
	predecessors := make([][]predEdge, n)
	sigma := make([]float64, n)
	distance := make([]int, n)
	delta := make([]float64, n)

	for source := 0; source < n; source++ {
		stack = stack[:0]
		for i := 0; i < n; i++ {
			predecessors[i] = predecessors[i][:0]
			sigma[i] = 0
			distance[i] = -1
			delta[i] = 0
		}
		sigma[source] = 1
		distance[source] = 0

		queue := list.New()
		queue.PushBack(source)

		for queue.Len() > 0 {
			v := queue.Remove(queue.Front()).(int)
			stack = append(stack, v)

			for _, w := range g.Successors(v) {
				if distance[w] < 0 {
					queue.PushBack(w)
					distance[w] = distance[v] + 1
				}
				if distance[w] == distance[v]+1 {
					sigma[w] += sigma[v]
					ei, _ := g.EdgeIndex(v, w)
					predecessors[w] = append(predecessors[w], predEdge{node: v, edge: ei})
				}
			}
		}

		// Back-propagation: accumulate onto both nodes and edges
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, pred := range predecessors[w] {
				contribution := (sigma[pred.node] / sigma[w]) * (1.0 + delta[w])
				delta[pred.node] += contribution
				edgeBetweenness[pred.edge] += contribution
			}
			if w != source {
				nodeBetweenness[w] += delta[w]
			}
		}
	}

	return nodeBetweenness, edgeBetweenness
}

// BetweennessCentrality computes betweenness centrality for all nodes.
// Measures how often a node appears on shortest paths between other nodes.
// Normalised scores are divided by (n-1)(n-2); unnormalised undirected
// scores are halved so each pair counts once.
func BetweennessCentrality(g *graph.Graph, normalized bool) []float64 {
	nodeBetweenness, _ := brandesCentrality(g)
	n := len(nodeBetweenness)

	scale := 1.0
	switch {
	case normalized && n > 2:
		scale = 1.0 / float64((n-1)*(n-2))
	case !normalized && !g.Directed():
		scale = 0.5
	}
	if scale != 1.0 {
		for i := range nodeBetweenness {
			nodeBetweenness[i] *= scale
		}
	}
	return nodeBetweenness
}

// EdgeBetweennessCentrality computes betweenness for every edge, indexed
// like g.Edges(). Scores are normalised by n(n-1), halved again for
// undirected graphs.
func EdgeBetweennessCentrality(g *graph.Graph) []float64 {
	_, edgeBetweenness := brandesCentrality(g)
	n := g.NodeCount()

	if n > 1 {
		scale := 1.0 / float64(n*(n-1))
		if !g.Directed() {
			scale *= 0.5
		}
		for i := range edgeBetweenness {
			edgeBetweenness[i] *= scale
		}
	}
	return edgeBetweenness
}

// ClosenessCentrality computes closeness centrality for all nodes using
// incoming distances on directed graphs. Nodes that only reach part of the
// graph are scaled by the fraction reached (Wasserman and Faust).
func ClosenessCentrality(g *graph.Graph) []float64 {
	n := g.NodeCount()
	closeness := make([]float64, n)
	distance := make([]int, n)

	for source := 0; source < n; source++ {
		for i := range distance {
			distance[i] = -1
		}
		distance[source] = 0

		queue := list.New()
		queue.PushBack(source)
		totalDistance := 0
		reachable := 1

		for queue.Len() > 0 {
			v := queue.Remove(queue.Front()).(int)
			for _, w := range g.Predecessors(v) {
				if distance[w] < 0 {
					distance[w] = distance[v] + 1
					totalDistance += distance[w]
					reachable++
					queue.PushBack(w)
				}
			}
		}

		if totalDistance > 0 && n > 1 {
			r := float64(reachable - 1)
			closeness[source] = (r / float64(totalDistance)) * (r / float64(n-1))
		}
	}

	return closeness
}

// DegreeCentrality computes degree / (n-1) for all nodes. On directed
// graphs degree is in+out, so scores can exceed 1. Graphs with fewer than
// two nodes score 0.
func DegreeCentrality(g *graph.Graph) []float64 {
	return degreeScores(g, g.Degree)
}

// InDegreeCentrality computes in-degree / (n-1) for all nodes
func InDegreeCentrality(g *graph.Graph) []float64 {
	return degreeScores(g, g.InDegree)
}

// OutDegreeCentrality computes out-degree / (n-1) for all nodes
func OutDegreeCentrality(g *graph.Graph) []float64 {
	return degreeScores(g, g.OutDegree)
}

func degreeScores(g *graph.Graph, degree func(int) int) []float64 {
	n := g.NodeCount()
	scores := make([]float64, n)
	if n <= 1 {
		return scores
	}
	s := 1.0 / float64(n-1)
	for i := range scores {
		scores[i] = float64(degree(i)) * s
	}
	return scores
}
