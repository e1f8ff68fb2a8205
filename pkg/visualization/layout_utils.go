package visualization

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// withDefaults fills zero fields of a config copy
func withDefaults(config *LayoutConfig) *LayoutConfig {
	c := DefaultLayoutConfig()
	if config != nil {
		*c = *config
	}
	if c.Scale == 0 {
		c.Scale = 100
	}
	if c.Dimensions == 0 {
		c.Dimensions = 2
	}
	if c.Iterations == 0 {
		c.Iterations = 100
	}
	return c
}

// center returns the offset for axis i
func (c *LayoutConfig) center(i int) float64 {
	if i < len(c.Center) {
		return c.Center[i]
	}
	return 0
}

func (c *LayoutConfig) rng() *rand.Rand {
	seed := c.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func require2D(name string, c *LayoutConfig) error {
	if c.Dimensions != 2 {
		return fmt.Errorf("%s layout with %d dimensions: %w", name, c.Dimensions, ErrUnsupportedDimensions)
	}
	return nil
}

func newPositions(n, dim int) []Position {
	out := make([]Position, n)
	for i := range out {
		out[i] = make(Position, dim)
	}
	return out
}

// centered places every node on the configured center
func centered(n int, c *LayoutConfig) []Position {
	out := newPositions(n, c.Dimensions)
	for _, p := range out {
		for d := range p {
			p[d] = c.center(d)
		}
	}
	return out
}

// rescale shifts positions to zero mean, scales them so the largest
// absolute coordinate equals scale, and adds the center offset.
func rescale(pos []Position, c *LayoutConfig) []Position {
	if len(pos) == 0 {
		return pos
	}
	dim := len(pos[0])
	for d := 0; d < dim; d++ {
		mean := 0.0
		for _, p := range pos {
			mean += p[d]
		}
		mean /= float64(len(pos))
		for _, p := range pos {
			p[d] -= mean
		}
	}

	lim := 0.0
	for _, p := range pos {
		for _, v := range p {
			lim = math.Max(lim, math.Abs(v))
		}
	}
	for _, p := range pos {
		for d := range p {
			if lim > 0 {
				p[d] *= c.Scale / lim
			}
			p[d] += c.center(d)
		}
	}
	return pos
}

// linspace returns n evenly spaced values over [start, stop]
func linspace(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func distance(a, b Position) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
