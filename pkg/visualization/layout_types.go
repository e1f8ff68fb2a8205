package visualization

import (
	"errors"

	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
)

var (
	// ErrUnknownLayout is returned by New for an unregistered layout name
	ErrUnknownLayout = errors.New("unknown layout")
	// ErrUnsupportedDimensions is returned by layouts that only place nodes in 2D
	ErrUnsupportedDimensions = errors.New("layout does not support the requested dimensions")
)

// Position is a node coordinate with one entry per dimension
type Position []float64

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Scale      float64   // Largest absolute coordinate after rescaling
	Center     []float64 // Offset added to every coordinate; nil means origin
	Dimensions int       // 2 or 3
	Iterations int       // Number of iterations for iterative algorithms
	K          float64   // Optimal distance for spring; 0 means 2/sqrt(n)
	Seed       uint64    // Seed for random initial positions; 0 picks one
}

// DefaultLayoutConfig returns the configuration used by the analysis API
func DefaultLayoutConfig() *LayoutConfig {
	return &LayoutConfig{
		Scale:      100,
		Dimensions: 2,
		Iterations: 100,
	}
}

// Layout computes one position per node, indexed like the graph's nodes
type Layout interface {
	ComputeLayout(g *graph.Graph) ([]Position, error)
}
