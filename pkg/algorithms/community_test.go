package algorithms

import (
	"errors"
	"math"
	"testing"

	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
)

var twoTriangleGroups = [][]string{{"a", "b", "c"}, {"d", "e", "f"}}

func indexGroups(t *testing.T, g *graph.Graph, groups [][]string) [][]int {
	t.Helper()
	out := make([][]int, len(groups))
	for i, ids := range groups {
		for _, id := range ids {
			u, ok := g.Index(id)
			if !ok {
				t.Fatalf("Node %s not in graph", id)
			}
			out[i] = append(out[i], u)
		}
	}
	return out
}

// TestModularity_TwoTriangles tests Newman modularity of the natural split
func TestModularity_TwoTriangles(t *testing.T) {
	g := twoTriangles(t)
	q, err := Modularity(g, indexGroups(t, g, twoTriangleGroups))
	if err != nil {
		t.Fatalf("Modularity failed: %v", err)
	}
	if math.Abs(q-0.357143) > epsilon {
		t.Errorf("Expected modularity 0.357143, got %f", q)
	}

	whole, err := Modularity(g, indexGroups(t, g, [][]string{{"a", "b", "c", "d", "e", "f"}}))
	if err != nil {
		t.Fatalf("Modularity failed: %v", err)
	}
	if math.Abs(whole) > epsilon {
		t.Errorf("Expected modularity 0 for a single community, got %f", whole)
	}
}

// TestModularity_Errors tests invalid partitions and edgeless graphs
func TestModularity_Errors(t *testing.T) {
	g := twoTriangles(t)
	if _, err := Modularity(g, indexGroups(t, g, [][]string{{"a", "b"}, {"c"}})); !errors.Is(err, ErrNotPartition) {
		t.Errorf("Expected ErrNotPartition for missing nodes, got %v", err)
	}
	if _, err := Modularity(g, indexGroups(t, g, [][]string{{"a", "b", "c"}, {"c", "d", "e", "f"}})); !errors.Is(err, ErrNotPartition) {
		t.Errorf("Expected ErrNotPartition for overlap, got %v", err)
	}

	empty := setupTestGraph(t, false, nil, "x", "y")
	if _, err := Modularity(empty, indexGroups(t, empty, [][]string{{"x"}, {"y"}})); !errors.Is(err, ErrNoEdges) {
		t.Errorf("Expected ErrNoEdges, got %v", err)
	}
}

// TestCommunityDetection_TwoTriangles tests every detector on the bridged triangles
func TestCommunityDetection_TwoTriangles(t *testing.T) {
	detectors := map[string]func(*graph.Graph) *CommunityDetectionResult{
		"greedy": GreedyModularityCommunities,
		"louvain": func(g *graph.Graph) *CommunityDetectionResult {
			return LouvainCommunities(g, DefaultLouvainOptions())
		},
		"label_propagation": LabelPropagation,
		"girvan_newman":     GirvanNewmanFirstSplit,
	}

	for name, detect := range detectors {
		t.Run(name, func(t *testing.T) {
			g := twoTriangles(t)
			result := detect(g)
			if got := groupIDs(g, result); !sameGroups(got, twoTriangleGroups) {
				t.Errorf("Expected %v, got %v", twoTriangleGroups, got)
			}
			for _, c := range result.Communities {
				if c.Density != 1 {
					t.Errorf("Expected triangle density 1, got %f", c.Density)
				}
			}
		})
	}
}

// TestCommunityDetection_Deterministic tests repeated runs agree
func TestCommunityDetection_Deterministic(t *testing.T) {
	g := setupTestGraph(t, false, [][2]string{
		{"a", "b"}, {"b", "c"}, {"c", "a"}, {"c", "d"}, {"d", "e"},
		{"e", "f"}, {"f", "d"}, {"f", "g"}, {"g", "h"}, {"h", "f"},
	})
	first := groupIDs(g, LabelPropagation(g))
	for i := 0; i < 5; i++ {
		if got := groupIDs(g, LabelPropagation(g)); !sameGroups(got, first) {
			t.Fatalf("Run %d differs: %v vs %v", i, got, first)
		}
	}
	louvain := groupIDs(g, LouvainCommunities(g, DefaultLouvainOptions()))
	if got := groupIDs(g, LouvainCommunities(g, DefaultLouvainOptions())); !sameGroups(got, louvain) {
		t.Errorf("Louvain runs differ: %v vs %v", got, louvain)
	}
}

// TestCommunityDetection_NoEdges tests that edgeless graphs give singletons
func TestCommunityDetection_NoEdges(t *testing.T) {
	g := setupTestGraph(t, false, nil, "x", "y", "z")
	for name, result := range map[string]*CommunityDetectionResult{
		"greedy":  GreedyModularityCommunities(g),
		"louvain": LouvainCommunities(g, DefaultLouvainOptions()),
		"girvan":  GirvanNewmanFirstSplit(g),
	} {
		if len(result.Communities) != 3 {
			t.Errorf("%s: expected 3 singletons, got %d", name, len(result.Communities))
		}
	}
}

// TestCommunityDetection_Partition tests that results cover every node once
func TestCommunityDetection_Partition(t *testing.T) {
	g := setupTestGraph(t, true, [][2]string{
		{"w1", "c1"}, {"w2", "c2"}, {"c1", "w3"}, {"w3", "c2"}, {"c2", "w2"}, {"w1", "w3"},
	})
	for name, result := range map[string]*CommunityDetectionResult{
		"greedy":            GreedyModularityCommunities(g),
		"louvain":           LouvainCommunities(g, DefaultLouvainOptions()),
		"label_propagation": LabelPropagation(g),
		"girvan_newman":     GirvanNewmanFirstSplit(g),
	} {
		if err := checkPartition(g, result.Groups()); err != nil {
			t.Errorf("%s: result is not a partition: %v", name, err)
		}
		sum := 0
		for _, s := range result.Sizes() {
			sum += s
		}
		if sum != g.NodeCount() {
			t.Errorf("%s: sizes sum to %d, want %d", name, sum, g.NodeCount())
		}
	}
}

// TestGreedyModularity_SortedBySize tests largest-first ordering
func TestGreedyModularity_SortedBySize(t *testing.T) {
	g := setupTestGraph(t, false, [][2]string{
		{"a", "b"},
		{"c", "d"}, {"d", "e"}, {"e", "c"}, {"e", "f"}, {"f", "c"},
	})
	sizes := GreedyModularityCommunities(g).Sizes()
	for i := 1; i < len(sizes); i++ {
		if sizes[i] > sizes[i-1] {
			t.Fatalf("Sizes not descending: %v", sizes)
		}
	}
}
