package algorithms

import (
	"math"
	"testing"

	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
)

const epsilon = 1e-6

// setupTestGraph builds a graph from "from>to" edge pairs plus any
// isolated nodes
func setupTestGraph(t *testing.T, directed bool, edges [][2]string, isolated ...string) *graph.Graph {
	t.Helper()
	g := graph.New(directed)
	for _, id := range isolated {
		g.AddNode(id, nil)
	}
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1], nil); err != nil {
			t.Fatalf("AddEdge(%s, %s) failed: %v", e[0], e[1], err)
		}
	}
	return g
}

// twoTriangles is two triangles joined by the bridge c-d
func twoTriangles(t *testing.T) *graph.Graph {
	t.Helper()
	return setupTestGraph(t, false, [][2]string{
		{"a", "b"}, {"b", "c"}, {"c", "a"},
		{"d", "e"}, {"e", "f"}, {"f", "d"},
		{"c", "d"},
	})
}

func scoreOf(t *testing.T, g *graph.Graph, scores []float64, id string) float64 {
	t.Helper()
	i, ok := g.Index(id)
	if !ok {
		t.Fatalf("Node %s not in graph", id)
	}
	return scores[i]
}

func assertScore(t *testing.T, g *graph.Graph, scores []float64, id string, want float64) {
	t.Helper()
	if got := scoreOf(t, g, scores, id); math.Abs(got-want) > epsilon {
		t.Errorf("Expected %s score %.6f, got %.6f", id, want, got)
	}
}

func groupIDs(g *graph.Graph, r *CommunityDetectionResult) [][]string {
	out := make([][]string, len(r.Communities))
	for i, c := range r.Communities {
		for _, n := range c.Nodes {
			out[i] = append(out[i], g.ID(n))
		}
	}
	return out
}

func sameGroups(got [][]string, want [][]string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			return false
		}
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				return false
			}
		}
	}
	return true
}
