package algorithms

import (
	"errors"
	"math"
	"testing"

	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
)

// TestCountTriangles_TwoTriangles tests per-node and global counts
func TestCountTriangles_TwoTriangles(t *testing.T) {
	g := twoTriangles(t)
	result := CountTriangles(g)

	if result.GlobalCount != 2 {
		t.Errorf("Expected 2 triangles, got %d", result.GlobalCount)
	}
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		i, _ := g.Index(id)
		if result.PerNode[i] != 1 {
			t.Errorf("Expected node %s in 1 triangle, got %d", id, result.PerNode[i])
		}
	}
}

// TestCountTriangles_Directed tests that direction is ignored
func TestCountTriangles_Directed(t *testing.T) {
	g := setupTestGraph(t, true, [][2]string{{"a", "b"}, {"b", "c"}, {"a", "c"}})
	if got := CountTriangles(g).GlobalCount; got != 1 {
		t.Errorf("Expected 1 triangle, got %d", got)
	}
}

// TestClusteringCoefficient_Pendant tests a triangle with a pendant node
func TestClusteringCoefficient_Pendant(t *testing.T) {
	g := setupTestGraph(t, false, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}, {"c", "d"}})
	scores := ClusteringCoefficient(g)
	assertScore(t, g, scores, "a", 1)
	assertScore(t, g, scores, "b", 1)
	assertScore(t, g, scores, "c", 1.0/3.0)
	assertScore(t, g, scores, "d", 0)

	avg, err := AverageClusteringCoefficient(g)
	if err != nil {
		t.Fatalf("AverageClusteringCoefficient failed: %v", err)
	}
	if math.Abs(avg-7.0/12.0) > epsilon {
		t.Errorf("Expected average 0.583333, got %f", avg)
	}
}

// TestClusteringCoefficient_DirectedTriad tests the directed formula on a transitive triad
func TestClusteringCoefficient_DirectedTriad(t *testing.T) {
	g := setupTestGraph(t, true, [][2]string{{"a", "b"}, {"b", "c"}, {"a", "c"}})
	scores := ClusteringCoefficient(g)
	for _, id := range []string{"a", "b", "c"} {
		assertScore(t, g, scores, id, 0.5)
	}
}

// TestAverageClusteringCoefficient_EmptyGraph tests the empty graph error
func TestAverageClusteringCoefficient_EmptyGraph(t *testing.T) {
	if _, err := AverageClusteringCoefficient(graph.New(false)); !errors.Is(err, ErrEmptyGraph) {
		t.Errorf("Expected ErrEmptyGraph, got %v", err)
	}
}
