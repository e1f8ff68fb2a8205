// Package analysis turns node and link records into graph metrics,
// centrality rankings, community partitions, layouts and sliding-window
// views. An Analyzer owns one graph built from a single snapshot and
// recomputes every result on demand.
package analysis

import (
	"time"

	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
	"github.com/dd0wney/cluso-chaingraph/pkg/logging"
)

// Recorder receives analysis instrumentation. Calls are made on the
// goroutine running the analysis, never concurrently by one Analyzer.
type Recorder interface {
	RecordAnalysis(operation string, duration time.Duration, err error)
	RecordSkip(metric string)
	RecordDroppedRecords(kind string, count int)
	RecordLayoutFallback(layout string)
}

type nopRecorder struct{}

func (nopRecorder) RecordAnalysis(string, time.Duration, error) {}
func (nopRecorder) RecordSkip(string)                          {}
func (nopRecorder) RecordDroppedRecords(string, int)           {}
func (nopRecorder) RecordLayoutFallback(string)                {}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithLogger sets the logger; nil keeps the default
func WithLogger(logger logging.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithRecorder sets the instrumentation sink; nil keeps the no-op recorder
func WithRecorder(r Recorder) Option {
	return func(a *Analyzer) {
		if r != nil {
			a.recorder = r
		}
	}
}

// WithCommunityRegistry sets the community detection strategies
func WithCommunityRegistry(r *CommunityRegistry) Option {
	return func(a *Analyzer) {
		if r != nil {
			a.communities = r
		}
	}
}

// Analyzer computes analyses over one immutable graph. It is not safe for
// concurrent use with mutation of the records it was built from; each
// request should build its own Analyzer.
type Analyzer struct {
	nodes    []*graph.Attributes
	edges    []*graph.Attributes
	directed bool
	graph    *graph.Graph
	report   graph.BuildReport

	logger      logging.Logger
	recorder    Recorder
	communities *CommunityRegistry
}

// New builds the graph from node and link records. The records are never
// modified; malformed ones are dropped and logged.
func New(nodes, edges []*graph.Attributes, directed bool, opts ...Option) *Analyzer {
	a := &Analyzer{
		nodes:       nodes,
		edges:       edges,
		directed:    directed,
		logger:      logging.DefaultLogger(),
		recorder:    nopRecorder{},
		communities: DefaultCommunityRegistry(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With(logging.Component("analysis"))

	a.graph, a.report = graph.Build(nodes, edges, directed, a.logger)
	a.recorder.RecordDroppedRecords("node", a.report.NodesDropped)
	a.recorder.RecordDroppedRecords("link", a.report.EdgesDropped)
	a.recorder.RecordDroppedRecords("self_loop", a.report.SelfLoopsDropped)
	return a
}

// Graph returns the constructed graph
func (a *Analyzer) Graph() *graph.Graph { return a.graph }

// BuildReport returns how many records were accepted and dropped
func (a *Analyzer) BuildReport() graph.BuildReport { return a.report }

// Directed reports whether the graph is directed
func (a *Analyzer) Directed() bool { return a.directed }

// timed logs and records the duration of one public operation
func (a *Analyzer) timed(operation string, fields ...logging.Field) func(err error) {
	timer := logging.StartTimer(a.logger, operation, append(fields, logging.Operation(operation))...)
	return func(err error) {
		a.recorder.RecordAnalysis(operation, timer.Elapsed(), err)
		if err != nil {
			timer.EndError(err)
			return
		}
		timer.EndWithLevel(logging.DebugLevel, operation+" completed")
	}
}
