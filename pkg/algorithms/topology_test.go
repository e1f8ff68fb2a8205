package algorithms

import (
	"errors"
	"testing"

	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
)

// TestIsDAG_EmptyGraph tests DAG check on empty graph
func TestIsDAG_EmptyGraph(t *testing.T) {
	if !IsDAG(graph.New(true)) {
		t.Error("Empty graph should be a DAG")
	}
}

// TestIsDAG_LinearChain tests DAG check on linear directed chain
func TestIsDAG_LinearChain(t *testing.T) {
	g := setupTestGraph(t, true, [][2]string{{"a", "b"}, {"b", "c"}})
	if !IsDAG(g) {
		t.Error("Linear chain should be a DAG")
	}
}

// TestIsDAG_SimpleCycle tests DAG check with simple cycle
func TestIsDAG_SimpleCycle(t *testing.T) {
	g := setupTestGraph(t, true, [][2]string{{"a", "b"}, {"b", "a"}})
	if IsDAG(g) {
		t.Error("Cycle should not be a DAG")
	}
	if IsDAG(setupTestGraph(t, false, [][2]string{{"a", "b"}})) {
		t.Error("Undirected graph with edges should not be a DAG")
	}
}

// TestTopologicalSort_Diamond tests ordering constraints on a diamond
func TestTopologicalSort_Diamond(t *testing.T) {
	g := setupTestGraph(t, true, [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}})
	order, err := TopologicalSort(g)
	if err != nil {
		t.Fatalf("TopologicalSort failed: %v", err)
	}

	position := make(map[int]int, len(order))
	for i, u := range order {
		position[u] = i
	}
	for _, e := range g.Edges() {
		if position[e.From] >= position[e.To] {
			t.Errorf("Edge %s->%s violates order %v", g.ID(e.From), g.ID(e.To), order)
		}
	}
}

// TestTopologicalSort_Cycle tests the cycle error
func TestTopologicalSort_Cycle(t *testing.T) {
	g := setupTestGraph(t, true, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}})
	if _, err := TopologicalSort(g); !errors.Is(err, ErrCycle) {
		t.Errorf("Expected ErrCycle, got %v", err)
	}
}

// TestLevels_Directed tests BFS depth from roots
func TestLevels_Directed(t *testing.T) {
	g := setupTestGraph(t, true, [][2]string{{"b", "c"}, {"a", "b"}, {"a", "d"}})
	levels := Levels(g)

	want := [][]string{{"a"}, {"b", "d"}, {"c"}}
	if len(levels) != len(want) {
		t.Fatalf("Expected %d levels, got %d", len(want), len(levels))
	}
	for depth, ids := range want {
		for i, id := range ids {
			if g.ID(levels[depth][i]) != id {
				t.Errorf("Level %d position %d: expected %s, got %s", depth, i, id, g.ID(levels[depth][i]))
			}
		}
	}
}

// TestLevels_RootlessCycle tests that cyclic components still get levels
func TestLevels_RootlessCycle(t *testing.T) {
	g := setupTestGraph(t, true, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}})
	levels := Levels(g)
	total := 0
	for _, l := range levels {
		total += len(l)
	}
	if len(levels) != 3 || total != 3 {
		t.Errorf("Expected 3 levels covering 3 nodes, got %v", levels)
	}
}

// TestIsBipartite_EvenCycle tests two-colouring of a square
func TestIsBipartite_EvenCycle(t *testing.T) {
	g := setupTestGraph(t, false, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "a"}})
	ok, first, second := IsBipartite(g)
	if !ok {
		t.Fatal("Square should be bipartite")
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("Expected 2+2 split, got %v / %v", first, second)
	}
	if g.ID(first[0]) != "a" || g.ID(first[1]) != "c" {
		t.Errorf("Expected first class [a c], got %v", first)
	}
}

// TestIsBipartite_Triangle tests that odd cycles are rejected
func TestIsBipartite_Triangle(t *testing.T) {
	g := setupTestGraph(t, true, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}})
	if ok, _, _ := IsBipartite(g); ok {
		t.Error("Triangle should not be bipartite")
	}
}
