package visualization

import (
	"errors"
	"math"
	"testing"

	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
)

func buildGraph(t *testing.T, directed bool, edges [][2]string, isolated ...string) *graph.Graph {
	t.Helper()
	g := graph.New(directed)
	for _, id := range isolated {
		g.AddNode(id, nil)
	}
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1], nil); err != nil {
			t.Fatalf("AddEdge failed: %v", err)
		}
	}
	return g
}

func pathGraph(t *testing.T) *graph.Graph {
	return buildGraph(t, false, [][2]string{{"a", "b"}, {"b", "c"}})
}

func maxAbs(positions []Position, center []float64) float64 {
	m := 0.0
	for _, p := range positions {
		for d, v := range p {
			if d < len(center) {
				v -= center[d]
			}
			m = math.Max(m, math.Abs(v))
		}
	}
	return m
}

// TestForceDirectedLayout tests the force-directed layout algorithm
func TestForceDirectedLayout(t *testing.T) {
	layout := NewForceDirectedLayout(&LayoutConfig{Scale: 100, Dimensions: 2, Seed: 7})
	positions, err := layout.ComputeLayout(pathGraph(t))
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}

	if len(positions) != 3 {
		t.Fatalf("Expected 3 positions, got %d", len(positions))
	}
	if m := maxAbs(positions, nil); math.Abs(m-100) > 1e-9 {
		t.Errorf("Expected largest coordinate 100, got %f", m)
	}

	// a and c are not directly connected, should be furthest apart
	dist12 := distance(positions[0], positions[1])
	dist23 := distance(positions[1], positions[2])
	dist13 := distance(positions[0], positions[2])
	if dist13 < dist12 || dist13 < dist23 {
		t.Error("Force-directed layout did not separate unconnected nodes properly")
	}
}

// TestForceDirectedLayout_Seeded tests that a fixed seed is reproducible
func TestForceDirectedLayout_Seeded(t *testing.T) {
	g := pathGraph(t)
	config := &LayoutConfig{Scale: 10, Dimensions: 3, Seed: 42}
	first, _ := NewForceDirectedLayout(config).ComputeLayout(g)
	second, _ := NewForceDirectedLayout(config).ComputeLayout(g)
	for i := range first {
		if len(first[i]) != 3 {
			t.Fatalf("Expected 3 coordinates, got %d", len(first[i]))
		}
		if distance(first[i], second[i]) > 1e-12 {
			t.Errorf("Node %d moved between seeded runs", i)
		}
	}
}

// TestCircularLayout tests circular layout algorithm
func TestCircularLayout(t *testing.T) {
	g := buildGraph(t, false, nil, "a", "b", "c", "d", "e")
	center := []float64{200, 200}
	positions, err := NewCircularLayout(&LayoutConfig{Scale: 150, Center: center}).ComputeLayout(g)
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}

	for i, p := range positions {
		r := distance(p, Position(center))
		if math.Abs(r-150) > 1e-6 {
			t.Errorf("Node %d at radius %f, want 150", i, r)
		}
	}
}

// TestCircularLayout_ThreeDimensions tests zero padding of the third axis
func TestCircularLayout_ThreeDimensions(t *testing.T) {
	positions, err := NewCircularLayout(&LayoutConfig{Scale: 1, Dimensions: 3}).ComputeLayout(pathGraph(t))
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}
	for _, p := range positions {
		if len(p) != 3 || p[2] != 0 {
			t.Errorf("Expected z = 0, got %v", p)
		}
	}
}

// TestShellLayout tests radius and the 2D restriction
func TestShellLayout(t *testing.T) {
	g := buildGraph(t, false, nil, "a", "b", "c", "d")
	positions, err := NewShellLayout(&LayoutConfig{Scale: 50}).ComputeLayout(g)
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}
	if math.Abs(positions[0][0]+50) > 1e-9 || math.Abs(positions[0][1]) > 1e-9 {
		t.Errorf("Expected first node at (-50, 0), got %v", positions[0])
	}

	_, err = NewShellLayout(&LayoutConfig{Dimensions: 3}).ComputeLayout(g)
	if !errors.Is(err, ErrUnsupportedDimensions) {
		t.Errorf("Expected ErrUnsupportedDimensions, got %v", err)
	}
}

// TestSpiralLayout tests that spiral positions are rescaled
func TestSpiralLayout(t *testing.T) {
	g := buildGraph(t, false, nil, "a", "b", "c", "d", "e", "f")
	positions, err := NewSpiralLayout(&LayoutConfig{Scale: 100}).ComputeLayout(g)
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}
	if m := maxAbs(positions, nil); math.Abs(m-100) > 1e-9 {
		t.Errorf("Expected largest coordinate 100, got %f", m)
	}
}

// TestRandomLayout tests the coordinate range
func TestRandomLayout(t *testing.T) {
	g := buildGraph(t, false, nil, "a", "b", "c", "d")
	positions, err := NewRandomLayout(&LayoutConfig{Scale: 10, Center: []float64{5, 5}, Dimensions: 3}).ComputeLayout(g)
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}
	for _, p := range positions {
		for _, v := range p {
			if v < 5 || v >= 15 {
				t.Errorf("Coordinate %f outside [5, 15)", v)
			}
		}
	}
}

// TestSpectralLayout tests that a path is laid out monotonically
func TestSpectralLayout(t *testing.T) {
	g := buildGraph(t, false, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}})
	positions, err := NewSpectralLayout(&LayoutConfig{Scale: 1}).ComputeLayout(g)
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}

	// The Fiedler vector of a path is monotone along the path
	increasing := positions[0][0] < positions[3][0]
	for i := 0; i < 3; i++ {
		if (positions[i][0] < positions[i+1][0]) != increasing {
			t.Fatalf("Fiedler coordinate not monotone: %v", positions)
		}
	}
}

// TestKamadaKawaiLayout tests that graph distance is reflected in layout distance
func TestKamadaKawaiLayout(t *testing.T) {
	g := buildGraph(t, false, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}})
	positions, err := NewKamadaKawaiLayout(&LayoutConfig{Scale: 100}).ComputeLayout(g)
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}
	if distance(positions[0], positions[3]) <= distance(positions[0], positions[1]) {
		t.Error("Path ends should be further apart than neighbours")
	}
	if m := maxAbs(positions, nil); math.Abs(m-100) > 1e-6 {
		t.Errorf("Expected largest coordinate 100, got %f", m)
	}
}

// TestBipartiteLayout tests the two-column placement
func TestBipartiteLayout(t *testing.T) {
	g := buildGraph(t, false, [][2]string{{"u1", "v1"}, {"u1", "v2"}, {"u2", "v1"}})
	positions, err := NewBipartiteLayout(&LayoutConfig{Scale: 1}).ComputeLayout(g)
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}

	u1, _ := g.Index("u1")
	u2, _ := g.Index("u2")
	v1, _ := g.Index("v1")
	v2, _ := g.Index("v2")
	if positions[u1][0] != positions[u2][0] || positions[v1][0] != positions[v2][0] {
		t.Errorf("Sides not aligned: %v", positions)
	}
	if positions[u1][0] >= positions[v1][0] {
		t.Error("First colour class should be on the left")
	}
}

// TestBipartiteLayout_FallsBackToSpring tests odd cycles
func TestBipartiteLayout_FallsBackToSpring(t *testing.T) {
	g := buildGraph(t, false, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}})
	positions, err := NewBipartiteLayout(&LayoutConfig{Scale: 1, Dimensions: 3, Seed: 3}).ComputeLayout(g)
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}
	if len(positions) != 3 || len(positions[0]) != 3 {
		t.Errorf("Expected 3 spring positions in 3D, got %v", positions)
	}
}

// TestHierarchicalLayout tests row placement by depth
func TestHierarchicalLayout(t *testing.T) {
	g := buildGraph(t, true, [][2]string{{"root", "l"}, {"root", "r"}, {"l", "leaf"}})
	positions, err := NewHierarchicalLayout(&LayoutConfig{Scale: 100}).ComputeLayout(g)
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}

	root, _ := g.Index("root")
	l, _ := g.Index("l")
	r, _ := g.Index("r")
	leaf, _ := g.Index("leaf")
	if !(positions[root][1] > positions[l][1] && positions[l][1] > positions[leaf][1]) {
		t.Errorf("Rows not ordered by depth: %v", positions)
	}
	if positions[l][1] != positions[r][1] {
		t.Error("Siblings should share a row")
	}

	if _, err := NewHierarchicalLayout(&LayoutConfig{Dimensions: 3}).ComputeLayout(g); !errors.Is(err, ErrUnsupportedDimensions) {
		t.Errorf("Expected ErrUnsupportedDimensions, got %v", err)
	}
}

// TestLayouts_TrivialGraphs tests empty and single-node graphs for every layout
func TestLayouts_TrivialGraphs(t *testing.T) {
	center := []float64{3, 4}
	for _, name := range Names() {
		layout, err := New(name, &LayoutConfig{Scale: 10, Center: center})
		if err != nil {
			t.Fatalf("New(%s) failed: %v", name, err)
		}

		empty, err := layout.ComputeLayout(graph.New(false))
		if err != nil || len(empty) != 0 {
			t.Errorf("%s: expected no positions for empty graph, got %v (%v)", name, empty, err)
		}

		if name == LayoutRandom {
			continue
		}
		single, err := layout.ComputeLayout(buildGraph(t, false, nil, "solo"))
		if err != nil {
			t.Fatalf("%s: single node failed: %v", name, err)
		}
		if single[0][0] != 3 || single[0][1] != 4 {
			t.Errorf("%s: expected single node at center, got %v", name, single[0])
		}
	}
}

// TestNew_Registry tests name lookup and dimension validation
func TestNew_Registry(t *testing.T) {
	if _, err := New("SPRING", nil); err != nil {
		t.Errorf("Expected case-insensitive lookup, got %v", err)
	}
	if _, err := New("force-atlas", nil); !errors.Is(err, ErrUnknownLayout) {
		t.Errorf("Expected ErrUnknownLayout, got %v", err)
	}
	if _, err := New("circular", &LayoutConfig{Dimensions: 4}); !errors.Is(err, ErrUnsupportedDimensions) {
		t.Errorf("Expected ErrUnsupportedDimensions, got %v", err)
	}
	if !Known("kamada_kawai") || Known("nope") {
		t.Error("Known reported wrong membership")
	}
	if len(Names()) != 9 {
		t.Errorf("Expected 9 layouts, got %d", len(Names()))
	}
}
