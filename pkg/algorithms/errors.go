package algorithms

import "errors"

var (
	// ErrEmptyGraph is returned by measures undefined on a graph with no nodes
	ErrEmptyGraph = errors.New("graph has no nodes")
	// ErrNoEdges is returned by measures undefined on a graph with no edges
	ErrNoEdges = errors.New("graph has no edges")
	// ErrNotConverged is returned when an iterative method exhausts its budget
	ErrNotConverged = errors.New("iteration failed to converge")
	// ErrNotPartition is returned when communities do not partition the node set
	ErrNotPartition = errors.New("communities are not a partition of the graph")
	// ErrDisconnected is returned by path measures on a disconnected graph
	ErrDisconnected = errors.New("graph is not connected")
	// ErrCycle is returned when an ordering requires an acyclic graph
	ErrCycle = errors.New("graph contains cycles")
)
