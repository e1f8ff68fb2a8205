package api

import (
	"encoding/json"

	"github.com/dd0wney/cluso-chaingraph/pkg/analysis"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// RootResponse describes the service
type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// MetricsResponse is returned by /analysis/metrics
type MetricsResponse struct {
	Message   string                 `json:"message"`
	NodeCount int                    `json:"node_count"`
	LinkCount int                    `json:"link_count"`
	Metrics   *analysis.BasicMetrics `json:"metrics"`
}

// CentralityResponse is returned by /analysis/centrality
type CentralityResponse struct {
	Message    string               `json:"message"`
	NodeCount  int                  `json:"node_count"`
	Centrality *analysis.Centrality `json:"centrality"`
}

// DegreeCentralityResponse is returned by /analysis/degree_centrality.
// Failures are reported in Error with a 200 status.
type DegreeCentralityResponse struct {
	Message     string `json:"message"`
	NodeDegrees any    `json:"node_degrees"`
	Error       string `json:"error,omitempty"`
}

// CommunitiesResponse is returned by /analysis/communities
type CommunitiesResponse struct {
	Message     string                    `json:"message"`
	NodeCount   int                       `json:"node_count"`
	Algorithm   string                    `json:"algorithm"`
	Communities *analysis.CommunityResult `json:"communities"`
}

// LayoutResponse is returned by /analysis/layout
type LayoutResponse struct {
	Message    string              `json:"message"`
	Layout     string              `json:"layout"`
	Dimensions int                 `json:"dimensions"`
	Positions  *analysis.Positions `json:"positions"`
}

// TemporalResponse is returned by /analysis/temporal
type TemporalResponse struct {
	Message           string                   `json:"message"`
	WindowSizeSeconds int                      `json:"window_size_seconds"`
	MaxWindows        int                      `json:"max_windows"`
	TemporalMetrics   *analysis.TemporalResult `json:"temporal_metrics"`
}

// VisualizationResponse is returned by /analysis/visualization
type VisualizationResponse struct {
	Message       string                  `json:"message"`
	Visualization *analysis.Visualization `json:"visualization"`
}

const emptyGraphMessage = "Graph is empty"

// emptyGraphResponse is {"message": "Graph is empty", <key>: <value>}
type emptyGraphResponse struct {
	key   string
	value any
}

func (e emptyGraphResponse) MarshalJSON() ([]byte, error) {
	msg, err := json.Marshal(emptyGraphMessage)
	if err != nil {
		return nil, err
	}
	key, err := json.Marshal(e.key)
	if err != nil {
		return nil, err
	}
	value, err := json.Marshal(e.value)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(msg)+len(key)+len(value)+16)
	out = append(out, `{"message":`...)
	out = append(out, msg...)
	out = append(out, ',')
	out = append(out, key...)
	out = append(out, ':')
	out = append(out, value...)
	out = append(out, '}')
	return out, nil
}
