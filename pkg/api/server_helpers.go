package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dd0wney/cluso-chaingraph/pkg/api/middleware"
	"github.com/dd0wney/cluso-chaingraph/pkg/logging"
	"github.com/dd0wney/cluso-chaingraph/pkg/source"
)

func (s *Server) respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		logging.FromContext(r.Context()).Error("Error encoding JSON response", logging.Error(err))
		status = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorResponse{
			Error:   http.StatusText(status),
			Message: "could not encode response",
			Code:    status,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.respondJSON(w, r, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

// respondEmpty writes the short-circuit reply for a graph without nodes
// or links
func (s *Server) respondEmpty(w http.ResponseWriter, r *http.Request, key string, value any) {
	s.respondJSON(w, r, http.StatusOK, emptyGraphResponse{key: key, value: value})
}

// fetchError maps a snapshot fetch failure to a status code
func fetchError(err error) int {
	switch {
	case errors.Is(err, source.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func requestLogger(r *http.Request) logging.Logger {
	return logging.FromContext(r.Context())
}

func requestID(r *http.Request) string {
	return middleware.GetRequestID(r)
}
