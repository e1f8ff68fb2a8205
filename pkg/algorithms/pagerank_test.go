package algorithms

import (
	"errors"
	"math"
	"testing"

	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
)

// TestPageRank_EmptyGraph tests PageRank on empty graph
func TestPageRank_EmptyGraph(t *testing.T) {
	result, err := PageRank(graph.New(true), DefaultPageRankOptions())
	if err != nil {
		t.Fatalf("PageRank failed: %v", err)
	}
	if len(result.Scores) != 0 || !result.Converged {
		t.Errorf("Expected empty converged result, got %+v", result)
	}
}

// TestPageRank_Cycle tests uniform scores on a directed cycle
func TestPageRank_Cycle(t *testing.T) {
	g := setupTestGraph(t, true, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}})
	result, err := PageRank(g, DefaultPageRankOptions())
	if err != nil {
		t.Fatalf("PageRank failed: %v", err)
	}
	for _, id := range []string{"a", "b", "c"} {
		assertScore(t, g, result.Scores, id, 1.0/3.0)
	}
}

// TestPageRank_DanglingNode tests redistribution of rank from sinks
func TestPageRank_DanglingNode(t *testing.T) {
	g := setupTestGraph(t, true, [][2]string{{"a", "b"}})
	result, err := PageRank(g, DefaultPageRankOptions())
	if err != nil {
		t.Fatalf("PageRank failed: %v", err)
	}

	a := scoreOf(t, g, result.Scores, "a")
	b := scoreOf(t, g, result.Scores, "b")
	if math.Abs(a-0.350877) > 1e-4 || math.Abs(b-0.649123) > 1e-4 {
		t.Errorf("Expected a=0.3509 b=0.6491, got a=%f b=%f", a, b)
	}
	if math.Abs(a+b-1) > epsilon {
		t.Errorf("Scores should sum to 1, got %f", a+b)
	}
}

// TestPageRank_SumsToOne tests normalisation on the wallet fixture
func TestPageRank_SumsToOne(t *testing.T) {
	g := setupTestGraph(t, true, [][2]string{
		{"wallet1", "contract1"}, {"wallet2", "contract2"}, {"contract1", "wallet3"},
		{"wallet3", "contract2"}, {"contract2", "wallet2"}, {"wallet1", "wallet3"},
	})
	result, err := PageRank(g, DefaultPageRankOptions())
	if err != nil {
		t.Fatalf("PageRank failed: %v", err)
	}
	sum := 0.0
	for _, s := range result.Scores {
		sum += s
	}
	if math.Abs(sum-1) > 1e-6 {
		t.Errorf("Expected scores to sum to 1, got %f", sum)
	}
	if scoreOf(t, g, result.Scores, "wallet1") >= scoreOf(t, g, result.Scores, "contract2") {
		t.Error("Source node wallet1 should rank below contract2")
	}
}

// TestPageRank_NotConverged tests the iteration budget
func TestPageRank_NotConverged(t *testing.T) {
	g := setupTestGraph(t, true, [][2]string{{"a", "b"}, {"b", "c"}})
	opts := DefaultPageRankOptions()
	opts.MaxIterations = 1
	opts.Tolerance = 1e-15

	result, err := PageRank(g, opts)
	if !errors.Is(err, ErrNotConverged) {
		t.Fatalf("Expected ErrNotConverged, got %v", err)
	}
	if result.Converged || result.Iterations != 1 {
		t.Errorf("Unexpected partial result %+v", result)
	}
}
