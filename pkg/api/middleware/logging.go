package middleware

import (
	"net/http"
	"time"

	"github.com/dd0wney/cluso-chaingraph/pkg/logging"
)

// Logging creates middleware that logs each request with its status and
// latency. Handlers find a logger carrying the request ID through
// logging.FromContext.
func Logging(logger logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLogger := logger
			if id := GetRequestID(r); id != "" {
				reqLogger = logger.With(logging.RequestID(id))
			}

			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r.WithContext(logging.NewContext(r.Context(), reqLogger)))

			fields := []logging.Field{
				logging.String("method", r.Method),
				logging.Path(r.URL.Path),
				logging.Int("status", sw.status),
				logging.Int("bytes", sw.bytesWritten),
				logging.Latency(time.Since(start)),
			}
			switch {
			case sw.status >= http.StatusInternalServerError:
				reqLogger.Error("HTTP request", fields...)
			case sw.status >= http.StatusBadRequest:
				reqLogger.Warn("HTTP request", fields...)
			default:
				reqLogger.Info("HTTP request", fields...)
			}
		})
	}
}
