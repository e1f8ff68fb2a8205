package algorithms

import (
	"testing"

	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
)

// TestStronglyConnectedComponents_EmptyGraph tests SCC on empty graph
func TestStronglyConnectedComponents_EmptyGraph(t *testing.T) {
	result := StronglyConnectedComponents(graph.New(true))
	if len(result.Communities) != 0 {
		t.Errorf("Expected 0 components, got %d", len(result.Communities))
	}
	if result.LargestSCC != nil {
		t.Error("Expected no largest component for empty graph")
	}
	if IsStronglyConnected(graph.New(true)) {
		t.Error("Empty graph should not be strongly connected")
	}
}

// TestStronglyConnectedComponents_CompletionOrder tests component order and summary fields
func TestStronglyConnectedComponents_CompletionOrder(t *testing.T) {
	g := setupTestGraph(t, true, [][2]string{{"a", "b"}, {"b", "a"}, {"b", "c"}}, "d")
	result := StronglyConnectedComponents(g)

	want := [][]string{{"d"}, {"c"}, {"a", "b"}}
	if got := groupIDs(g, result.CommunityDetectionResult); !sameGroups(got, want) {
		t.Fatalf("Expected components %v, got %v", want, got)
	}
	if result.SingletonCount != 2 {
		t.Errorf("Expected 2 singleton components, got %d", result.SingletonCount)
	}
	if result.LargestSCC.Size != 2 {
		t.Errorf("Expected largest component of size 2, got %d", result.LargestSCC.Size)
	}
	if IsStronglyConnected(g) {
		t.Error("Graph should not be strongly connected")
	}
}

// TestStronglyConnectedComponents_Cycle tests a single cycle
func TestStronglyConnectedComponents_Cycle(t *testing.T) {
	g := setupTestGraph(t, true, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}})
	if !IsStronglyConnected(g) {
		t.Error("Directed cycle should be strongly connected")
	}
	result := StronglyConnectedComponents(g)
	if result.SingletonCount != 0 || result.LargestSCC.Size != 3 {
		t.Errorf("Unexpected result: singletons=%d largest=%d", result.SingletonCount, result.LargestSCC.Size)
	}
}

// TestStronglyConnectedComponents_NodeCommunity tests the node to component mapping
func TestStronglyConnectedComponents_NodeCommunity(t *testing.T) {
	g := setupTestGraph(t, true, [][2]string{{"a", "b"}, {"b", "a"}, {"b", "c"}})
	result := StronglyConnectedComponents(g)
	a, _ := g.Index("a")
	b, _ := g.Index("b")
	c, _ := g.Index("c")
	if result.NodeCommunity[a] != result.NodeCommunity[b] {
		t.Error("a and b should share a component")
	}
	if result.NodeCommunity[a] == result.NodeCommunity[c] {
		t.Error("c should be in its own component")
	}
}

// TestConnectedComponents_Weak tests weak components of a directed graph
func TestConnectedComponents_Weak(t *testing.T) {
	g := setupTestGraph(t, true, [][2]string{{"a", "b"}, {"b", "a"}, {"b", "c"}}, "d")
	result := ConnectedComponents(g)
	if len(result.Communities) != 2 {
		t.Fatalf("Expected 2 weak components, got %d", len(result.Communities))
	}
	if IsConnected(g) {
		t.Error("Graph with isolated node should not be connected")
	}
	largest := LargestGroup(result.Groups())
	if len(largest) != 3 {
		t.Errorf("Expected largest component of size 3, got %d", len(largest))
	}
}

// TestConnectedComponents_EmptyGraph tests that an empty graph is not connected
func TestConnectedComponents_EmptyGraph(t *testing.T) {
	g := graph.New(false)
	if IsConnected(g) {
		t.Error("Empty graph should not be connected")
	}
	if result := ConnectedComponents(g); len(result.Communities) != 0 {
		t.Errorf("Expected 0 components, got %d", len(result.Communities))
	}
}

// TestLargestGroup_FirstWins tests that ties keep the first group
func TestLargestGroup_FirstWins(t *testing.T) {
	got := LargestGroup([][]int{{0}, {1, 2}, {3, 4}})
	if len(got) != 2 || got[0] != 1 {
		t.Errorf("Expected first largest group [1 2], got %v", got)
	}
	if LargestGroup(nil) != nil {
		t.Error("Expected nil for no groups")
	}
}
