package visualization

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/dd0wney/cluso-chaingraph/pkg/algorithms"
	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
)

// SpectralLayout positions nodes by the eigenvectors of the graph
// Laplacian belonging to the smallest non-zero eigenvalues
type SpectralLayout struct {
	config *LayoutConfig
}

// NewSpectralLayout creates a new spectral layout
func NewSpectralLayout(config *LayoutConfig) *SpectralLayout {
	return &SpectralLayout{config: withDefaults(config)}
}

// ComputeLayout computes the Laplacian eigenvectors with a dense symmetric
// eigensolver. Directed edges count in both directions.
func (sl *SpectralLayout) ComputeLayout(g *graph.Graph) ([]Position, error) {
	c := sl.config
	n := g.NodeCount()
	switch n {
	case 0:
		return []Position{}, nil
	case 1:
		return centered(1, c), nil
	case 2:
		positions := newPositions(2, c.Dimensions)
		for d := range positions[1] {
			positions[1][d] = 1
		}
		return rescale(positions, c), nil
	}

	laplacian := mat.NewSymDense(n, nil)
	for _, e := range g.Edges() {
		u, v := e.From, e.To
		laplacian.SetSym(u, v, laplacian.At(u, v)-1)
		laplacian.SetSym(u, u, laplacian.At(u, u)+1)
		laplacian.SetSym(v, v, laplacian.At(v, v)+1)
	}

	var eig mat.EigenSym
	if !eig.Factorize(laplacian, true) {
		return nil, errors.New("spectral layout: eigendecomposition failed")
	}
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	// Eigenvalues come back ascending; skip the constant vector
	positions := newPositions(n, c.Dimensions)
	for d := 0; d < c.Dimensions && d+1 < n; d++ {
		for u := 0; u < n; u++ {
			positions[u][d] = vectors.At(u, d+1)
		}
	}
	return rescale(positions, c), nil
}

// kamadaKawaiMeanWeight pulls the centroid towards the origin
const kamadaKawaiMeanWeight = 1e-3

// KamadaKawaiLayout minimises the stress between layout distances and
// shortest path lengths
type KamadaKawaiLayout struct {
	config *LayoutConfig
}

// NewKamadaKawaiLayout creates a new Kamada-Kawai layout
func NewKamadaKawaiLayout(config *LayoutConfig) *KamadaKawaiLayout {
	return &KamadaKawaiLayout{config: withDefaults(config)}
}

// ComputeLayout starts from the circular layout in 2D (random in 3D) and
// runs L-BFGS on the stress energy. Unreachable pairs get a distance of
// 1e6 so they barely contribute.
func (kk *KamadaKawaiLayout) ComputeLayout(g *graph.Graph) ([]Position, error) {
	c := kk.config
	n := g.NodeCount()
	if n == 0 {
		return []Position{}, nil
	}
	if n == 1 {
		return centered(1, c), nil
	}

	invdist := make([]float64, n*n)
	for u := 0; u < n; u++ {
		for v, d := range algorithms.ShortestPathLengths(g, u) {
			dist := 1e6
			if d >= 0 {
				dist = float64(d)
			}
			if u == v {
				dist += 1e-3
			}
			invdist[u*n+v] = 1 / dist
		}
	}

	unit := &LayoutConfig{Scale: 1, Dimensions: c.Dimensions, Seed: c.Seed}
	var start []Position
	var err error
	if c.Dimensions >= 3 {
		start, err = NewRandomLayout(unit).ComputeLayout(g)
	} else {
		start, err = NewCircularLayout(unit).ComputeLayout(g)
	}
	if err != nil {
		return nil, err
	}

	dim := c.Dimensions
	x := make([]float64, 0, n*dim)
	for _, p := range start {
		x = append(x, p...)
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return kamadaKawaiStress(x, nil, invdist, n, dim)
		},
		Grad: func(grad, x []float64) {
			kamadaKawaiStress(x, grad, invdist, n, dim)
		},
	}
	result, err := optimize.Minimize(problem, x, nil, &optimize.LBFGS{})
	if result == nil {
		return nil, fmt.Errorf("kamada-kawai layout: %w", err)
	}

	positions := newPositions(n, dim)
	for u, p := range positions {
		copy(p, result.X[u*dim:(u+1)*dim])
	}
	return rescale(positions, c), nil
}

// kamadaKawaiStress returns the stress energy of the flattened positions
// x and, when grad is non-nil, writes its gradient
func kamadaKawaiStress(x, grad, invdist []float64, n, dim int) float64 {
	if grad != nil {
		clear(grad)
	}
	cost := 0.0
	delta := make([]float64, dim)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			sep := 0.0
			for d := 0; d < dim; d++ {
				delta[d] = x[i*dim+d] - x[j*dim+d]
				sep += delta[d] * delta[d]
			}
			sep = math.Sqrt(sep)
			inv := invdist[i*n+j]
			offset := sep*inv - 1
			cost += 0.5 * offset * offset
			if grad == nil || sep == 0 {
				continue
			}
			for d := 0; d < dim; d++ {
				gd := inv * offset * delta[d] / sep
				grad[i*dim+d] += gd
				grad[j*dim+d] -= gd
			}
		}
	}

	for d := 0; d < dim; d++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += x[i*dim+d]
		}
		cost += 0.5 * kamadaKawaiMeanWeight * sum * sum
		if grad != nil {
			for i := 0; i < n; i++ {
				grad[i*dim+d] += kamadaKawaiMeanWeight * sum
			}
		}
	}
	return cost
}
