package visualization

import (
	"math"

	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
)

// CircularLayout arranges nodes in a circle of radius Scale. Extra
// dimensions beyond the first two are zero before the center offset.
type CircularLayout struct {
	config *LayoutConfig
}

// NewCircularLayout creates a new circular layout
func NewCircularLayout(config *LayoutConfig) *CircularLayout {
	return &CircularLayout{config: withDefaults(config)}
}

// ComputeLayout arranges nodes in a circle
func (cl *CircularLayout) ComputeLayout(g *graph.Graph) ([]Position, error) {
	n := g.NodeCount()
	if n == 0 {
		return []Position{}, nil
	}
	if n == 1 {
		return centered(1, cl.config), nil
	}

	positions := newPositions(n, cl.config.Dimensions)
	angleStep := 2 * math.Pi / float64(n)
	for i, p := range positions {
		angle := float64(i) * angleStep
		p[0] = math.Cos(angle)
		p[1] = math.Sin(angle)
	}
	return rescale(positions, cl.config), nil
}

// ShellLayout places all nodes on one shell, rotated half a turn
type ShellLayout struct {
	config *LayoutConfig
}

// NewShellLayout creates a new shell layout
func NewShellLayout(config *LayoutConfig) *ShellLayout {
	return &ShellLayout{config: withDefaults(config)}
}

// ComputeLayout arranges nodes on a single shell of radius Scale
func (sl *ShellLayout) ComputeLayout(g *graph.Graph) ([]Position, error) {
	c := sl.config
	if err := require2D("shell", c); err != nil {
		return nil, err
	}
	n := g.NodeCount()
	if n == 0 {
		return []Position{}, nil
	}
	if n == 1 {
		return centered(1, c), nil
	}

	positions := newPositions(n, 2)
	angleStep := 2 * math.Pi / float64(n)
	for i, p := range positions {
		angle := float64(i)*angleStep + math.Pi
		p[0] = c.Scale*math.Cos(angle) + c.center(0)
		p[1] = c.Scale*math.Sin(angle) + c.center(1)
	}
	return positions, nil
}

// SpiralLayout places nodes along an Archimedean spiral
type SpiralLayout struct {
	config *LayoutConfig
	// Resolution is the angle in radians between consecutive nodes
	Resolution float64
}

// NewSpiralLayout creates a new spiral layout
func NewSpiralLayout(config *LayoutConfig) *SpiralLayout {
	return &SpiralLayout{config: withDefaults(config), Resolution: 0.35}
}

// ComputeLayout arranges nodes outward from the center by insertion order
func (sl *SpiralLayout) ComputeLayout(g *graph.Graph) ([]Position, error) {
	if err := require2D("spiral", sl.config); err != nil {
		return nil, err
	}
	n := g.NodeCount()
	if n == 0 {
		return []Position{}, nil
	}
	if n == 1 {
		return centered(1, sl.config), nil
	}

	positions := newPositions(n, 2)
	for i, p := range positions {
		dist := float64(i)
		angle := sl.Resolution * dist
		p[0] = math.Cos(angle) * dist
		p[1] = math.Sin(angle) * dist
	}
	return rescale(positions, sl.config), nil
}

// RandomLayout draws every coordinate uniformly from [0, Scale)
type RandomLayout struct {
	config *LayoutConfig
}

// NewRandomLayout creates a new random layout
func NewRandomLayout(config *LayoutConfig) *RandomLayout {
	return &RandomLayout{config: withDefaults(config)}
}

// ComputeLayout places nodes at random
func (rl *RandomLayout) ComputeLayout(g *graph.Graph) ([]Position, error) {
	c := rl.config
	rng := c.rng()
	positions := newPositions(g.NodeCount(), c.Dimensions)
	for _, p := range positions {
		for d := range p {
			p[d] = rng.Float64()*c.Scale + c.center(d)
		}
	}
	return positions, nil
}
