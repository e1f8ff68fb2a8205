package algorithms

import "github.com/dd0wney/cluso-chaingraph/pkg/graph"

// ClusteringCoefficient computes the local clustering coefficient of every
// node. Undirected graphs use the fraction of neighbour pairs that are
// linked. Directed graphs count directed triangles through each node over
// the number possible given its in, out and reciprocal degree (Fagiolo).
func ClusteringCoefficient(g *graph.Graph) []float64 {
	if g.Directed() {
		return directedClustering(g)
	}

	triangles := CountTriangles(g)
	coefficients := make([]float64, g.NodeCount())
	for u := range coefficients {
		k := g.Degree(u)
		if k < 2 || triangles.PerNode[u] == 0 {
			continue
		}
		coefficients[u] = 2 * float64(triangles.PerNode[u]) / float64(k*(k-1))
	}
	return coefficients
}

func directedClustering(g *graph.Graph) []float64 {
	n := g.NodeCount()
	coefficients := make([]float64, n)
	succSets := make([]map[int]struct{}, n)
	predSets := make([]map[int]struct{}, n)
	for u := 0; u < n; u++ {
		succSets[u] = toSet(g.Successors(u))
		predSets[u] = toSet(g.Predecessors(u))
	}

	for i := 0; i < n; i++ {
		ipreds, isuccs := predSets[i], succSets[i]
		triangles := 0
		for _, list := range [][]int{g.Predecessors(i), g.Successors(i)} {
			for _, j := range list {
				jpreds, jsuccs := predSets[j], succSets[j]
				triangles += intersectCount(ipreds, jpreds) +
					intersectCount(ipreds, jsuccs) +
					intersectCount(isuccs, jpreds) +
					intersectCount(isuccs, jsuccs)
			}
		}
		if triangles == 0 {
			continue
		}
		total := len(ipreds) + len(isuccs)
		reciprocal := intersectCount(ipreds, isuccs)
		coefficients[i] = float64(triangles) / float64((total*(total-1)-2*reciprocal)*2)
	}
	return coefficients
}

// AverageClusteringCoefficient computes the mean local clustering
// coefficient over all nodes
func AverageClusteringCoefficient(g *graph.Graph) (float64, error) {
	if g.NodeCount() == 0 {
		return 0, ErrEmptyGraph
	}
	sum := 0.0
	for _, c := range ClusteringCoefficient(g) {
		sum += c
	}
	return sum / float64(g.NodeCount()), nil
}

func toSet(list []int) map[int]struct{} {
	set := make(map[int]struct{}, len(list))
	for _, v := range list {
		set[v] = struct{}{}
	}
	return set
}

func intersectCount(a, b map[int]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	count := 0
	for k := range a {
		if _, ok := b[k]; ok {
			count++
		}
	}
	return count
}
