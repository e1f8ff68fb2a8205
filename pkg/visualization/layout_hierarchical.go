package visualization

import (
	"github.com/dd0wney/cluso-chaingraph/pkg/algorithms"
	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
)

// HierarchicalLayout arranges nodes in rows by BFS depth from the roots
type HierarchicalLayout struct {
	config *LayoutConfig
}

// NewHierarchicalLayout creates a new hierarchical layout
func NewHierarchicalLayout(config *LayoutConfig) *HierarchicalLayout {
	return &HierarchicalLayout{config: withDefaults(config)}
}

// ComputeLayout arranges nodes hierarchically. Roots sit on the top row;
// each row is centred horizontally.
func (hl *HierarchicalLayout) ComputeLayout(g *graph.Graph) ([]Position, error) {
	if err := require2D("hierarchical", hl.config); err != nil {
		return nil, err
	}
	n := g.NodeCount()
	if n == 0 {
		return []Position{}, nil
	}
	if n == 1 {
		return centered(1, hl.config), nil
	}

	positions := make([]Position, n)
	for depth, level := range algorithms.Levels(g) {
		xs := linspace(-float64(len(level)-1)/2, float64(len(level)-1)/2, len(level))
		for i, u := range level {
			positions[u] = Position{xs[i], -float64(depth)}
		}
	}
	return rescale(positions, hl.config), nil
}

// BipartiteLayout places the two colour classes of a bipartite graph on
// two vertical lines. Graphs that are not bipartite fall back to the
// spring layout.
type BipartiteLayout struct {
	config *LayoutConfig
	// AspectRatio is the width of the layout relative to its height
	AspectRatio float64
}

// NewBipartiteLayout creates a new bipartite layout
func NewBipartiteLayout(config *LayoutConfig) *BipartiteLayout {
	return &BipartiteLayout{config: withDefaults(config), AspectRatio: 4.0 / 3.0}
}

// ComputeLayout arranges nodes in two columns
func (bl *BipartiteLayout) ComputeLayout(g *graph.Graph) ([]Position, error) {
	ok, left, right := algorithms.IsBipartite(g)
	if !ok {
		return NewForceDirectedLayout(bl.config).ComputeLayout(g)
	}
	if err := require2D("bipartite", bl.config); err != nil {
		return nil, err
	}
	n := g.NodeCount()
	if n == 0 {
		return []Position{}, nil
	}
	if n == 1 {
		return centered(1, bl.config), nil
	}

	width := bl.AspectRatio
	positions := make([]Position, n)
	place := func(side []int, x float64) {
		for i, y := range linspace(0, 1, len(side)) {
			positions[side[i]] = Position{x - width/2, y - 0.5}
		}
	}
	place(left, 0)
	place(right, width)
	return rescale(positions, bl.config), nil
}
