package algorithms

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
)

// EigenvectorOptions configures the power iteration
type EigenvectorOptions struct {
	MaxIterations int
	Tolerance     float64 // per-node L1 change threshold
}

// DefaultEigenvectorOptions returns the power iteration defaults
func DefaultEigenvectorOptions() EigenvectorOptions {
	return EigenvectorOptions{
		MaxIterations: 1000,
		Tolerance:     1e-6,
	}
}

// EigenvectorCentrality scores nodes by the principal eigenvector of the
// transposed adjacency matrix, so a node is central when central nodes
// point at it. It iterates on A^T + I, which shares A^T's eigenvectors and
// converges on bipartite graphs, and returns ErrNotConverged when the L1
// change is still above n*Tolerance after MaxIterations rounds. Scores have
// unit Euclidean norm.
func EigenvectorCentrality(g *graph.Graph, opts EigenvectorOptions) ([]float64, int, error) {
	n := g.NodeCount()
	if n == 0 {
		return nil, 0, ErrEmptyGraph
	}

	x := make([]float64, n)
	for i := range x {
		x[i] = 1.0 / float64(n)
	}
	last := make([]float64, n)

	for iter := 1; iter <= opts.MaxIterations; iter++ {
		copy(last, x)
		for u := 0; u < n; u++ {
			for _, v := range g.Successors(u) {
				x[v] += last[u]
			}
		}

		norm := 0.0
		for _, v := range x {
			norm += v * v
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			norm = 1
		}
		diff := 0.0
		for i := range x {
			x[i] /= norm
			diff += math.Abs(x[i] - last[i])
		}
		if diff < float64(n)*opts.Tolerance {
			return x, iter, nil
		}
	}
	return nil, opts.MaxIterations, fmt.Errorf("eigenvector power iteration after %d rounds: %w", opts.MaxIterations, ErrNotConverged)
}

// EigenvectorCentralityDense computes the same scores from a full eigen
// decomposition of A^T. It costs O(n^3) and serves as the fallback when
// power iteration does not converge.
func EigenvectorCentralityDense(g *graph.Graph) ([]float64, error) {
	n := g.NodeCount()
	if n == 0 {
		return nil, ErrEmptyGraph
	}

	at := mat.NewDense(n, n, nil)
	for _, e := range g.Edges() {
		at.Set(e.To, e.From, 1)
		if !g.Directed() {
			at.Set(e.From, e.To, 1)
		}
	}

	var eig mat.Eigen
	if ok := eig.Factorize(at, mat.EigenRight); !ok {
		return nil, fmt.Errorf("eigen decomposition did not converge: %w", ErrNotConverged)
	}
	values := eig.Values(nil)

	best := 0
	for i := range values {
		if real(values[i]) > real(values[best]) {
			best = i
		}
	}

	var vectors mat.CDense
	eig.VectorsTo(&vectors)

	scores := make([]float64, n)
	sum, norm := 0.0, 0.0
	for i := 0; i < n; i++ {
		c := vectors.At(i, best)
		if cmplx.IsNaN(c) {
			return nil, fmt.Errorf("eigenvector contains NaN")
		}
		scores[i] = real(c)
		sum += scores[i]
		norm += scores[i] * scores[i]
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return nil, fmt.Errorf("principal eigenvector is zero")
	}
	if sum < 0 {
		norm = -norm
	}
	for i := range scores {
		scores[i] /= norm
	}
	return scores, nil
}
