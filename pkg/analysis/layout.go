package analysis

import (
	"strings"

	"github.com/dd0wney/cluso-chaingraph/pkg/logging"
	"github.com/dd0wney/cluso-chaingraph/pkg/visualization"
)

// LayoutOptions configures LayoutPositions
type LayoutOptions struct {
	Scale      float64
	Center     []float64
	Dimensions int
	// Seed fixes the random initial positions; 0 draws a fresh seed
	Seed uint64
}

// DefaultLayoutOptions returns scale 100 in two dimensions
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{Scale: 100, Dimensions: 2}
}

// Positions maps node ids to coordinates in graph order
type Positions struct {
	IDs    []string
	Coords []visualization.Position
}

// Len returns the number of positioned nodes
func (p *Positions) Len() int { return len(p.IDs) }

// Get returns the coordinates of a node
func (p *Positions) Get(id string) (visualization.Position, bool) {
	for i, x := range p.IDs {
		if x == id {
			return p.Coords[i], true
		}
	}
	return nil, false
}

// MarshalJSON writes an object of coordinate arrays keyed by node id
func (p *Positions) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	for i, id := range p.IDs {
		w.field(id, []float64(p.Coords[i]))
	}
	return w.bytes()
}

// LayoutPositions computes node coordinates. Unknown layout names use the
// spring layout and dimensions other than 2 or 3 are treated as 2. Any
// failure falls back to a random layout, so this never fails.
func (a *Analyzer) LayoutPositions(layout string, opts LayoutOptions) *Positions {
	name := strings.ToLower(layout)
	if !visualization.Known(name) {
		a.logger.Warn("unknown layout, using spring", logging.Layout(layout))
		name = visualization.LayoutSpring
	}
	if opts.Dimensions != 2 && opts.Dimensions != 3 {
		a.logger.Warn("unsupported dimensions, using 2", logging.Int("dimensions", opts.Dimensions))
		opts.Dimensions = 2
	}
	if opts.Scale == 0 {
		opts.Scale = DefaultLayoutOptions().Scale
	}
	done := a.timed("layout_positions", logging.Layout(name))

	config := &visualization.LayoutConfig{
		Scale:      opts.Scale,
		Center:     opts.Center,
		Dimensions: opts.Dimensions,
		Iterations: 100,
		Seed:       opts.Seed,
	}
	out := attempt(a, "layout", func() ([]visualization.Position, error) {
		l, err := visualization.New(name, config)
		if err != nil {
			return nil, err
		}
		return l.ComputeLayout(a.graph)
	})

	coords, ok := out.Get()
	if !ok {
		a.logger.Error("error generating layout, falling back to random",
			logging.Layout(name), logging.Error(out.Reason()))
		a.recorder.RecordLayoutFallback(name)
		coords, _ = visualization.NewRandomLayout(config).ComputeLayout(a.graph)
	}
	done(nil)
	return &Positions{IDs: a.graph.IDs(), Coords: coords}
}
