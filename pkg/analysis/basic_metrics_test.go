package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-chaingraph/pkg/logging"
)

func TestBasicMetrics_ConnectedUndirected(t *testing.T) {
	m := trianglesAnalyzer(t).BasicMetrics()

	assert.True(t, m.Connected)
	assert.Equal(t, 1, m.Components)
	assert.InDelta(t, 7.0/15.0, m.Density, 1e-9)

	paths, ok := m.Paths.Get()
	require.True(t, ok)
	assert.Equal(t, PathScopeGraph, paths.Scope)
	assert.Equal(t, 3, paths.Diameter)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"node_count", "edge_count", "density", "average_degree",
		"is_connected", "connected_components", "average_clustering",
		"diameter", "average_shortest_path_length",
	}, topLevelKeys(t, data))
}

func TestBasicMetrics_DirectedLargestComponentKeys(t *testing.T) {
	data, err := json.Marshal(walletAnalyzer(t).BasicMetrics())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"node_count", "edge_count", "density", "average_degree",
		"is_strongly_connected", "strongly_connected_components",
		"is_weakly_connected", "weakly_connected_components",
		"average_clustering",
		"diameter_largest_component", "average_shortest_path_length_largest_component",
		"largest_component_size", "largest_component_percentage",
	}, topLevelKeys(t, data))
}

func TestBasicMetrics_UndirectedLargestComponent(t *testing.T) {
	nodes := nodeRecords("a", "b", "c", "d", "x", "y")
	links := linkRecords([2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"c", "d"}, [2]string{"x", "y"})
	m := New(nodes, links, false, WithLogger(logging.NewNopLogger())).BasicMetrics()

	paths, ok := m.Paths.Get()
	require.True(t, ok)
	assert.Equal(t, PathScopeLargestComponent, paths.Scope)
	assert.Equal(t, 3, paths.Diameter)
	assert.InDelta(t, 5.0/3.0, paths.AverageShortestPath, 1e-9)
	assert.Equal(t, 4, paths.ComponentSize)
	assert.InDelta(t, 4.0/6.0, paths.ComponentFraction, 1e-9)
}

func TestBasicMetrics_SingleNode(t *testing.T) {
	m := New(nodeRecords("solo"), nil, false, WithLogger(logging.NewNopLogger())).BasicMetrics()
	assert.True(t, m.Connected)
	assert.Zero(t, m.Density)

	paths, ok := m.Paths.Get()
	require.True(t, ok)
	assert.Equal(t, 0, paths.Diameter)

	out := decodeObject(t, m)
	assert.Equal(t, 0.0, out["diameter"])
}
