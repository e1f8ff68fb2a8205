package algorithms

import (
	"fmt"
	"math"

	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
)

// PageRankOptions configures PageRank algorithm
type PageRankOptions struct {
	DampingFactor float64 // Usually 0.85
	MaxIterations int
	Tolerance     float64 // per-node L1 change threshold
}

// DefaultPageRankOptions returns default PageRank configuration
func DefaultPageRankOptions() PageRankOptions {
	return PageRankOptions{
		DampingFactor: 0.85,
		MaxIterations: 100,
		Tolerance:     1e-6,
	}
}

// PageRankResult contains PageRank scores for all nodes
type PageRankResult struct {
	Scores     []float64 // indexed by node
	Iterations int
	Converged  bool
}

// PageRank computes PageRank scores for all nodes. Rank held by nodes with
// no outgoing edges is spread uniformly over all nodes each round, so the
// scores always sum to 1. Undirected edges count in both directions.
// Failing to converge within MaxIterations returns ErrNotConverged along
// with the partial result.
func PageRank(g *graph.Graph, opts PageRankOptions) (*PageRankResult, error) {
	n := g.NodeCount()
	if n == 0 {
		return &PageRankResult{Scores: []float64{}, Converged: true}, nil
	}

	uniform := 1.0 / float64(n)
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = uniform
	}
	next := make([]float64, n)

	result := &PageRankResult{}
	for result.Iterations < opts.MaxIterations {
		result.Iterations++

		dangling := 0.0
		for u := 0; u < n; u++ {
			if g.OutDegree(u) == 0 {
				dangling += scores[u]
			}
		}
		base := opts.DampingFactor*dangling*uniform + (1.0-opts.DampingFactor)*uniform
		for i := range next {
			next[i] = base
		}
		for u := 0; u < n; u++ {
			out := g.OutDegree(u)
			if out == 0 {
				continue
			}
			share := opts.DampingFactor * scores[u] / float64(out)
			for _, v := range g.Successors(u) {
				next[v] += share
			}
		}

		diff := 0.0
		for i := range next {
			diff += math.Abs(next[i] - scores[i])
		}
		scores, next = next, scores

		if diff < float64(n)*opts.Tolerance {
			result.Converged = true
			break
		}
	}

	result.Scores = scores
	if !result.Converged {
		return result, fmt.Errorf("pagerank after %d iterations: %w", result.Iterations, ErrNotConverged)
	}
	return result, nil
}
