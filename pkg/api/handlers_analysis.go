package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dd0wney/cluso-chaingraph/pkg/analysis"
	"github.com/dd0wney/cluso-chaingraph/pkg/logging"
	"github.com/dd0wney/cluso-chaingraph/pkg/pubsub"
	"github.com/dd0wney/cluso-chaingraph/pkg/source"
	"github.com/dd0wney/cluso-chaingraph/pkg/validation"
)

// Event types published on the analysis topic
const (
	EventMetrics          = "metrics"
	EventCentrality       = "centrality"
	EventDegreeCentrality = "degree_centrality"
	EventCommunities      = "communities"
	EventLayout           = "layout"
	EventTemporal         = "temporal"
	EventVisualization    = "visualization"
)

// graphDefaults returns the shared parameters before the request is read.
// Community detection defaults to undirected; every other endpoint uses
// the configured default.
func (s *Server) graphDefaults(undirected bool) validation.GraphQuery {
	cfg := s.Config().Analysis
	return validation.GraphQuery{Directed: cfg.Directed && !undirected, LinkLimit: cfg.LinkLimit}
}

// decode runs fn over the request's parameters and validates q. On failure
// it writes a 400 and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, q any, fn func(d *queryDecoder)) bool {
	d := newQueryDecoder(r)
	fn(d)
	if err := d.Validate(q); err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// fetch loads the snapshot for q. On failure it writes the error response
// and returns nil.
func (s *Server) fetch(w http.ResponseWriter, r *http.Request, q validation.GraphQuery) *source.Snapshot {
	snap, err := s.source.Snapshot(r.Context(), sourceQuery(q))
	if err != nil {
		requestLogger(r).Error("Snapshot fetch failed", logging.Error(err))
		s.respondError(w, r, fetchError(err), err.Error())
		return nil
	}
	return snap
}

// analyzer builds a fresh analyzer for one request
func (s *Server) analyzer(r *http.Request, snap *source.Snapshot, directed bool) *analysis.Analyzer {
	return analysis.New(snap.Nodes, snap.Edges, directed,
		analysis.WithLogger(requestLogger(r).With(logging.SnapshotID(snap.ID))),
		analysis.WithRecorder(s.metrics),
		analysis.WithCommunityRegistry(s.communities.Load()),
	)
}

// publish announces a completed analysis to stream subscribers
func (s *Server) publish(r *http.Request, snap *source.Snapshot, kind string, summary map[string]any) {
	_, dropped := s.stream.Publish(pubsub.Event{
		Topic:      pubsub.TopicAnalysis,
		Type:       kind,
		RequestID:  requestID(r),
		SnapshotID: snap.ID,
		Summary:    summary,
	})
	s.metrics.RecordStreamEvent(pubsub.TopicAnalysis, dropped)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	q := s.graphDefaults(false)
	if !s.decode(w, r, &q, func(d *queryDecoder) { d.Graph(&q) }) {
		return
	}
	snap := s.fetch(w, r, q)
	if snap == nil {
		return
	}
	if snap.Empty() {
		s.respondEmpty(w, r, "metrics", struct{}{})
		return
	}

	m := s.analyzer(r, snap, q.Directed).BasicMetrics()
	s.publish(r, snap, EventMetrics, map[string]any{
		"node_count": m.NodeCount,
		"edge_count": m.EdgeCount,
		"density":    m.Density,
	})
	s.respondJSON(w, r, http.StatusOK, MetricsResponse{
		Message:   "Graph metrics calculated successfully",
		NodeCount: len(snap.Nodes),
		LinkCount: len(snap.Edges),
		Metrics:   m,
	})
}

func (s *Server) handleCentrality(w http.ResponseWriter, r *http.Request) {
	q := validation.CentralityQuery{
		GraphQuery: s.graphDefaults(false),
		TopN:       s.Config().Analysis.TopN,
		Normalized: true,
	}
	if !s.decode(w, r, &q, func(d *queryDecoder) {
		d.Graph(&q.GraphQuery).Int(&q.TopN, "top_n").Bool("normalized", &q.Normalized)
	}) {
		return
	}
	snap := s.fetch(w, r, q.GraphQuery)
	if snap == nil {
		return
	}
	if snap.Empty() {
		s.respondEmpty(w, r, "centrality", struct{}{})
		return
	}

	c := s.analyzer(r, snap, q.Directed).CentralityMetrics(q.TopN, q.Normalized)
	s.publish(r, snap, EventCentrality, map[string]any{
		"metrics": c.Names(),
		"top_n":   q.TopN,
	})
	s.respondJSON(w, r, http.StatusOK, CentralityResponse{
		Message:    "Node centrality calculated successfully",
		NodeCount:  len(snap.Nodes),
		Centrality: c,
	})
}

func (s *Server) handleDegreeCentrality(w http.ResponseWriter, r *http.Request) {
	q := s.graphDefaults(false)
	if !s.decode(w, r, &q, func(d *queryDecoder) { d.Graph(&q) }) {
		return
	}
	snap, err := s.source.Snapshot(r.Context(), sourceQuery(q))
	if err != nil {
		requestLogger(r).Error("Degree centrality failed", logging.Error(err))
		s.respondJSON(w, r, http.StatusOK, DegreeCentralityResponse{
			Message:     "Error calculating degree centrality",
			NodeDegrees: struct{}{},
			Error:       err.Error(),
		})
		return
	}
	if snap.Empty() {
		s.respondEmpty(w, r, "node_degrees", struct{}{})
		return
	}

	degrees := s.analyzer(r, snap, q.Directed).NodeDegrees()
	s.publish(r, snap, EventDegreeCentrality, map[string]any{"node_count": len(degrees.IDs)})
	s.respondJSON(w, r, http.StatusOK, DegreeCentralityResponse{
		Message:     "Degree centrality calculated successfully",
		NodeDegrees: degrees,
	})
}

func (s *Server) handleCommunities(w http.ResponseWriter, r *http.Request) {
	q := validation.CommunityQuery{
		GraphQuery: s.graphDefaults(true),
		Algorithm:  s.Config().Analysis.DefaultAlgorithm,
	}
	if !s.decode(w, r, &q, func(d *queryDecoder) {
		d.Graph(&q.GraphQuery).Lower("algorithm", &q.Algorithm)
	}) {
		return
	}
	snap := s.fetch(w, r, q.GraphQuery)
	if snap == nil {
		return
	}
	if snap.Empty() {
		s.respondEmpty(w, r, "communities", struct{}{})
		return
	}

	result := s.analyzer(r, snap, q.Directed).DetectCommunities(q.Algorithm)
	summary := map[string]any{
		"algorithm":       result.Algorithm,
		"community_count": result.CommunityCount(),
	}
	if mod, ok := result.Modularity.Get(); ok {
		summary["modularity"] = mod
	}
	s.publish(r, snap, EventCommunities, summary)
	s.respondJSON(w, r, http.StatusOK, CommunitiesResponse{
		Message:     "Communities detected successfully",
		NodeCount:   len(snap.Nodes),
		Algorithm:   q.Algorithm,
		Communities: result,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	cfg := s.Config().Analysis
	q := validation.LayoutQuery{
		GraphQuery: s.graphDefaults(false),
		Layout:     cfg.DefaultLayout,
		Dimensions: 2,
		Scale:      cfg.LayoutScale,
	}
	if !s.decode(w, r, &q, func(d *queryDecoder) {
		d.Graph(&q.GraphQuery).
			Lower("layout", &q.Layout).
			Int(&q.Dimensions, "dimensions").
			Float("scale", &q.Scale)
	}) {
		return
	}
	snap := s.fetch(w, r, q.GraphQuery)
	if snap == nil {
		return
	}
	if snap.Empty() {
		s.respondEmpty(w, r, "positions", struct{}{})
		return
	}

	opts := analysis.DefaultLayoutOptions()
	opts.Scale = q.Scale
	opts.Dimensions = q.Dimensions
	positions := s.analyzer(r, snap, q.Directed).LayoutPositions(q.Layout, opts)
	s.publish(r, snap, EventLayout, map[string]any{
		"layout":     q.Layout,
		"dimensions": q.Dimensions,
		"node_count": positions.Len(),
	})
	s.respondJSON(w, r, http.StatusOK, LayoutResponse{
		Message:    fmt.Sprintf("%s layout generated successfully", q.Layout),
		Layout:     q.Layout,
		Dimensions: q.Dimensions,
		Positions:  positions,
	})
}

func (s *Server) handleTemporal(w http.ResponseWriter, r *http.Request) {
	cfg := s.Config().Analysis
	q := validation.TemporalQuery{
		GraphQuery: validation.GraphQuery{Directed: cfg.Directed, LinkLimit: cfg.TemporalLinkLimit},
		WindowSize: cfg.WindowSize,
		MaxWindows: cfg.MaxWindows,
	}
	if !s.decode(w, r, &q, func(d *queryDecoder) {
		d.Graph(&q.GraphQuery).
			Int(&q.WindowSize, "window_size").
			Int(&q.MaxWindows, "max_windows")
	}) {
		return
	}
	snap := s.fetch(w, r, q.GraphQuery)
	if snap == nil {
		return
	}
	if snap.Empty() {
		s.respondEmpty(w, r, "temporal_metrics", struct{}{})
		return
	}

	result := s.analyzer(r, snap, q.Directed).TemporalMetrics(time.Duration(q.WindowSize)*time.Second, q.MaxWindows)
	s.publish(r, snap, EventTemporal, map[string]any{
		"window_size_seconds": q.WindowSize,
		"windows":             len(result.Windows),
	})
	s.respondJSON(w, r, http.StatusOK, TemporalResponse{
		Message:           "Temporal analysis completed successfully",
		WindowSizeSeconds: q.WindowSize,
		MaxWindows:        q.MaxWindows,
		TemporalMetrics:   result,
	})
}

func (s *Server) handleVisualization(w http.ResponseWriter, r *http.Request) {
	cfg := s.Config().Analysis
	q := validation.VisualizationQuery{
		GraphQuery:         s.graphDefaults(false),
		Layout:             cfg.DefaultLayout,
		CommunityAlgorithm: cfg.DefaultAlgorithm,
	}
	if !s.decode(w, r, &q, func(d *queryDecoder) {
		d.Graph(&q.GraphQuery).
			Lower("layout", &q.Layout).
			Bool("include_communities", &q.IncludeCommunities).
			Bool("include_metrics", &q.IncludeMetrics).
			Lower("community_algorithm", &q.CommunityAlgorithm)
	}) {
		return
	}
	snap := s.fetch(w, r, q.GraphQuery)
	if snap == nil {
		return
	}
	if snap.Empty() {
		s.respondEmpty(w, r, "visualization", struct {
			Nodes []any `json:"nodes"`
			Links []any `json:"links"`
		}{Nodes: []any{}, Links: []any{}})
		return
	}

	opts := analysis.DefaultVisualizationOptions()
	opts.Layout = q.Layout
	opts.LayoutOptions.Scale = cfg.LayoutScale
	opts.IncludeCommunities = q.IncludeCommunities
	opts.IncludeMetrics = q.IncludeMetrics
	opts.CommunityAlgorithm = q.CommunityAlgorithm
	v := s.analyzer(r, snap, q.Directed).VisualizationData(opts)

	summary := map[string]any{
		"layout":     v.Layout,
		"node_count": len(v.Nodes),
		"link_count": len(v.Links),
	}
	if v.Communities != nil {
		summary["community_count"] = v.Communities.CommunityCount()
	}
	s.publish(r, snap, EventVisualization, summary)
	s.respondJSON(w, r, http.StatusOK, VisualizationResponse{
		Message:       "Visualization data generated successfully",
		Visualization: v,
	})
}
