package source

import (
	"context"
	"time"

	"github.com/dd0wney/cluso-chaingraph/pkg/logging"
)

// FetchRecorder receives snapshot fetch measurements
type FetchRecorder interface {
	RecordSnapshotFetch(source string, duration time.Duration, nodes, links int, err error)
}

// InstrumentOptions configures Instrument
type InstrumentOptions struct {
	Recorder FetchRecorder
	Logger   logging.Logger
	// Timeout bounds each fetch; zero leaves the caller's deadline alone
	Timeout time.Duration
}

type instrumented struct {
	Source
	recorder FetchRecorder
	logger   logging.Logger
	timeout  time.Duration
}

// Instrument wraps src so every fetch is timed, logged and recorded
func Instrument(src Source, opts InstrumentOptions) Source {
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	return &instrumented{
		Source:   src,
		recorder: opts.Recorder,
		logger:   opts.Logger.With(logging.Component("source"), logging.String("source", src.Kind())),
		timeout:  opts.Timeout,
	}
}

func (s *instrumented) Snapshot(ctx context.Context, q Query) (*Snapshot, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	snap, err := s.Source.Snapshot(ctx, q)
	elapsed := time.Since(start)

	var nodes, links int
	if snap != nil {
		nodes, links = len(snap.Nodes), len(snap.Edges)
	}
	if s.recorder != nil {
		s.recorder.RecordSnapshotFetch(s.Kind(), elapsed, nodes, links, err)
	}
	if err != nil {
		s.logger.Error("Snapshot fetch failed", logging.Latency(elapsed), logging.Error(err))
		return nil, err
	}
	s.logger.Debug("Snapshot fetched",
		logging.SnapshotID(snap.ID),
		logging.Int("nodes", nodes),
		logging.Int("links", links),
		logging.Latency(elapsed),
	)
	return snap, nil
}
