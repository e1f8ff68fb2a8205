package visualization

import (
	"math"

	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
)

// ForceDirectedLayout implements the Fruchterman-Reingold spring layout
type ForceDirectedLayout struct {
	config *LayoutConfig
}

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout(config *LayoutConfig) *ForceDirectedLayout {
	return &ForceDirectedLayout{config: withDefaults(config)}
}

// ComputeLayout computes positions using force-directed algorithm. Nodes
// start at random points in the unit cube; every iteration moves each node
// along its net force by at most the current temperature, which cools
// linearly to zero.
func (fdl *ForceDirectedLayout) ComputeLayout(g *graph.Graph) ([]Position, error) {
	c := fdl.config
	n := g.NodeCount()
	if n == 0 {
		return []Position{}, nil
	}
	if n == 1 {
		return centered(1, c), nil
	}

	rng := c.rng()
	positions := newPositions(n, c.Dimensions)
	for _, p := range positions {
		for d := range p {
			p[d] = rng.Float64()
		}
	}

	k := c.K
	if k == 0 {
		k = 2 / math.Sqrt(float64(n))
	}

	// Initial temperature is a tenth of the widest extent of the start positions
	temperature := 0.1 * maxExtent(positions)
	cooling := temperature / float64(c.Iterations+1)

	disp := newPositions(n, c.Dimensions)
	delta := make([]float64, c.Dimensions)
	for iter := 0; iter < c.Iterations; iter++ {
		for i := range disp {
			clear(disp[i])
		}

		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				dist := 0.0
				for d := range delta {
					delta[d] = positions[i][d] - positions[j][d]
					dist += delta[d] * delta[d]
				}
				dist = math.Max(math.Sqrt(dist), 0.01)

				// Repulsion from every node, attraction along out-edges
				force := k * k / (dist * dist)
				if g.HasEdge(i, j) {
					force -= dist / k
				}
				for d := range delta {
					disp[i][d] += delta[d] * force
				}
			}
		}

		moved := 0.0
		for i := 0; i < n; i++ {
			length := 0.0
			for _, v := range disp[i] {
				length += v * v
			}
			length = math.Max(math.Sqrt(length), 0.01)
			step := 0.0
			for d := range disp[i] {
				dx := disp[i][d] * temperature / length
				positions[i][d] += dx
				step += dx * dx
			}
			moved += math.Sqrt(step)
		}

		temperature -= cooling
		if moved/float64(n) < 1e-4 {
			break
		}
	}

	return rescale(positions, c), nil
}

func maxExtent(positions []Position) float64 {
	extent := 0.0
	for d := range positions[0] {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, p := range positions {
			lo = math.Min(lo, p[d])
			hi = math.Max(hi, p[d])
		}
		extent = math.Max(extent, hi-lo)
	}
	return extent
}
