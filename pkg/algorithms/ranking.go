package algorithms

import (
	"container/heap"
	"slices"
	"sort"

	"golang.org/x/exp/constraints"
)

// Score is any numeric type a ranking can be built from
type Score interface {
	constraints.Integer | constraints.Float
}

// RankedNode is a node index with its score
type RankedNode[T Score] struct {
	Index int
	Score T
}

// better orders by descending score, then ascending index, so that equal
// scores keep insertion order.
func better[T Score](a, b RankedNode[T]) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Index < b.Index
}

// rankedHeap keeps the worst retained entry at the root
type rankedHeap[T Score] []RankedNode[T]

func (h rankedHeap[T]) Len() int           { return len(h) }
func (h rankedHeap[T]) Less(i, j int) bool { return better(h[j], h[i]) }
func (h rankedHeap[T]) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *rankedHeap[T]) Push(x any) {
	*h = append(*h, x.(RankedNode[T]))
}

func (h *rankedHeap[T]) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// TopN returns the n best entries of scores (indexed by node) in
// descending order. Ties keep ascending index order. n <= 0 or n >= len
// returns every entry ranked.
func TopN[T Score](scores []T, n int) []RankedNode[T] {
	if n <= 0 || n > len(scores) {
		n = len(scores)
	}
	if n == 0 {
		return nil
	}

	h := make(rankedHeap[T], 0, n)
	for i, s := range scores {
		rn := RankedNode[T]{Index: i, Score: s}
		if h.Len() < n {
			heap.Push(&h, rn)
		} else if better(rn, h[0]) {
			h[0] = rn
			heap.Fix(&h, 0)
		}
	}

	result := []RankedNode[T](h)
	sort.SliceStable(result, func(i, j int) bool { return better(result[i], result[j]) })
	return result
}

func sortedCopy(nodes []int) []int {
	out := slices.Clone(nodes)
	slices.Sort(out)
	return out
}
