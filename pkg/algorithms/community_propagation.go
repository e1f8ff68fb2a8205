package algorithms

import (
	"sort"

	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
)

// maxPropagationSweeps bounds label propagation on pathological inputs
const maxPropagationSweeps = 1000

// LabelPropagation detects communities by semi-synchronous label
// propagation. Nodes are greedily coloured (largest degree first); each
// sweep updates one colour class at a time, so no two adjacent nodes change
// label in the same step. A node takes the most frequent label among its
// neighbours, keeping its own label when that label is among the most
// frequent and otherwise taking the highest. The process stops once every
// node holds a most-frequent label, which makes the result deterministic.
//
// Communities are ordered by the lowest node index carrying each label.
func LabelPropagation(g *graph.Graph) *CommunityDetectionResult {
	if g.Directed() {
		g = g.ToUndirected()
	}
	n := g.NodeCount()
	labels := make([]int, n)
	for u := range labels {
		labels[u] = u
	}

	classes := greedyColorClasses(g)
	counts := make(map[int]int)

	for sweep := 0; sweep < maxPropagationSweeps && !labelingComplete(g, labels, counts); sweep++ {
		for _, class := range classes {
			for _, u := range class {
				best := mostFrequentLabels(g, u, labels, counts)
				switch {
				case len(best) == 1:
					labels[u] = best[0]
				case len(best) > 1 && !containsInt(best, labels[u]):
					labels[u] = best[len(best)-1]
				}
			}
		}
	}

	var groups [][]int
	index := make(map[int]int)
	for u, l := range labels {
		gi, ok := index[l]
		if !ok {
			gi = len(groups)
			index[l] = gi
			groups = append(groups, nil)
		}
		groups[gi] = append(groups[gi], u)
	}
	return newCommunityResult(g, groups)
}

// greedyColorClasses colours nodes largest degree first with the smallest
// colour unused by their neighbours and returns the colour classes in
// order of first use.
func greedyColorClasses(g *graph.Graph) [][]int {
	n := g.NodeCount()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return g.Degree(order[i]) > g.Degree(order[j]) })

	color := make([]int, n)
	for i := range color {
		color[i] = -1
	}
	var classes [][]int
	used := make(map[int]bool)
	for _, u := range order {
		clear(used)
		for _, v := range g.Neighbors(u) {
			if color[v] >= 0 {
				used[color[v]] = true
			}
		}
		c := 0
		for used[c] {
			c++
		}
		color[u] = c
		if c == len(classes) {
			classes = append(classes, nil)
		}
		classes[c] = append(classes[c], u)
	}
	return classes
}

// mostFrequentLabels returns the labels that occur most often among the
// neighbours of u, sorted ascending
func mostFrequentLabels(g *graph.Graph, u int, labels []int, counts map[int]int) []int {
	neighbors := g.Neighbors(u)
	if len(neighbors) == 0 {
		return []int{labels[u]}
	}
	clear(counts)
	top := 0
	for _, v := range neighbors {
		counts[labels[v]]++
		top = max(top, counts[labels[v]])
	}
	best := make([]int, 0, 1)
	for l, c := range counts {
		if c == top {
			best = append(best, l)
		}
	}
	sort.Ints(best)
	return best
}

func labelingComplete(g *graph.Graph, labels []int, counts map[int]int) bool {
	for u := range labels {
		if len(g.Neighbors(u)) == 0 {
			continue
		}
		if !containsInt(mostFrequentLabels(g, u, labels, counts), labels[u]) {
			return false
		}
	}
	return true
}

func containsInt(list []int, x int) bool {
	for _, y := range list {
		if y == x {
			return true
		}
	}
	return false
}
