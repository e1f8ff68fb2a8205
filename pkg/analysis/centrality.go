package analysis

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-chaingraph/pkg/algorithms"
	"github.com/dd0wney/cluso-chaingraph/pkg/logging"
)

// Centrality metric names
const (
	MetricDegree      = "degree"
	MetricInDegree    = "in_degree"
	MetricOutDegree   = "out_degree"
	MetricCloseness   = "closeness"
	MetricBetweenness = "betweenness"
	MetricEigenvector = "eigenvector"
	MetricPageRank    = "pagerank"
)

// Scores maps node ids to values, in graph order or ranking order after
// truncation
type Scores struct {
	IDs    []string
	Values []float64
}

// Len returns the number of entries
func (s Scores) Len() int { return len(s.IDs) }

// Get returns the score of a node
func (s Scores) Get(id string) (float64, bool) {
	for i, x := range s.IDs {
		if x == id {
			return s.Values[i], true
		}
	}
	return 0, false
}

// Index maps every id to its position in IDs
func (s Scores) Index() map[string]int {
	index := make(map[string]int, len(s.IDs))
	for i, id := range s.IDs {
		index[id] = i
	}
	return index
}

// MarshalJSON writes an object keyed by node id
func (s Scores) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	for i, id := range s.IDs {
		w.field(id, s.Values[i])
	}
	return w.bytes()
}

// Centrality holds every successfully computed centrality metric in
// computation order
type Centrality struct {
	names  []string
	scores map[string]Scores
}

func (c *Centrality) add(name string, s Scores) {
	if c.scores == nil {
		c.scores = make(map[string]Scores)
	}
	c.names = append(c.names, name)
	c.scores[name] = s
}

// Names lists the computed metrics
func (c *Centrality) Names() []string { return c.names }

// Get returns one metric's scores
func (c *Centrality) Get(name string) (Scores, bool) {
	s, ok := c.scores[name]
	return s, ok
}

// MarshalJSON writes an object keyed by metric name
func (c *Centrality) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	for _, name := range c.names {
		w.field(name, c.scores[name])
	}
	return w.bytes()
}

// CentralityMetrics computes degree (in/out when directed), closeness,
// betweenness, eigenvector and, for directed graphs, PageRank. Every
// metric except degree is best-effort and omitted on failure. A positive
// topN keeps the topN highest scores of each metric; ties keep graph
// order.
func (a *Analyzer) CentralityMetrics(topN int, normalized bool) *Centrality {
	done := a.timed("centrality_metrics", logging.Int("top_n", topN))
	g := a.graph
	c := &Centrality{}
	add := func(name string, out Outcome[[]float64]) {
		if values, ok := out.Get(); ok {
			c.add(name, a.scores(values, topN))
		}
	}

	if a.directed {
		add(MetricInDegree, Ok(algorithms.InDegreeCentrality(g)))
		add(MetricOutDegree, Ok(algorithms.OutDegreeCentrality(g)))
	} else {
		add(MetricDegree, Ok(algorithms.DegreeCentrality(g)))
	}
	add(MetricCloseness, attempt(a, MetricCloseness, func() ([]float64, error) {
		return algorithms.ClosenessCentrality(g), nil
	}))
	add(MetricBetweenness, attempt(a, MetricBetweenness, func() ([]float64, error) {
		return algorithms.BetweennessCentrality(g, normalized), nil
	}))
	add(MetricEigenvector, attempt(a, MetricEigenvector, func() ([]float64, error) {
		return a.eigenvector()
	}))
	if a.directed {
		add(MetricPageRank, attempt(a, MetricPageRank, func() ([]float64, error) {
			result, err := algorithms.PageRank(g, algorithms.DefaultPageRankOptions())
			if err != nil {
				return nil, err
			}
			return result.Scores, nil
		}))
	}

	done(nil)
	return c
}

// eigenvector tries power iteration and falls back to the dense solver
func (a *Analyzer) eigenvector() ([]float64, error) {
	scores, _, err := algorithms.EigenvectorCentrality(a.graph, algorithms.DefaultEigenvectorOptions())
	if err == nil {
		return scores, nil
	}
	a.logger.Warn("eigenvector power iteration failed, using dense solver",
		logging.Metric(MetricEigenvector), logging.Error(err))

	scores, denseErr := algorithms.EigenvectorCentralityDense(a.graph)
	if denseErr != nil {
		return nil, fmt.Errorf("power iteration and dense solver failed: %w", errors.Join(err, denseErr))
	}
	return scores, nil
}

func (a *Analyzer) scores(values []float64, topN int) Scores {
	if topN <= 0 {
		return Scores{IDs: a.graph.IDs(), Values: values}
	}
	ranked := algorithms.TopN(values, topN)
	s := Scores{IDs: make([]string, len(ranked)), Values: make([]float64, len(ranked))}
	for i, r := range ranked {
		s.IDs[i] = a.graph.ID(r.Index)
		s.Values[i] = r.Score
	}
	return s
}

// Degrees maps node ids to raw degree counts in graph order
type Degrees struct {
	IDs    []string
	Counts []int
}

// MarshalJSON writes an object keyed by node id
func (d Degrees) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	for i, id := range d.IDs {
		w.field(id, d.Counts[i])
	}
	return w.bytes()
}

// NodeDegrees returns the in-degree of every node of a directed graph, or
// the degree of an undirected one, as unnormalised counts
func (a *Analyzer) NodeDegrees() Degrees {
	g := a.graph
	d := Degrees{IDs: g.IDs(), Counts: make([]int, g.NodeCount())}
	for i := range d.Counts {
		if a.directed {
			d.Counts[i] = g.InDegree(i)
		} else {
			d.Counts[i] = g.Degree(i)
		}
	}
	return d
}
