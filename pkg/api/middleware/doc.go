// Package middleware provides the HTTP middleware used by the analysis API.
//
// Files are organized by concern:
//
//   - recovery.go: panic recovery
//   - request_id.go: request ID assignment and propagation
//   - logging.go: structured access logging
//   - cors.go: Cross-Origin Resource Sharing with reloadable origins
//   - metrics.go: Prometheus request metrics
//   - ratelimit.go: per-client token buckets
//   - client_ip.go: client address resolution behind trusted proxies
//
// Every middleware has the shape func(http.Handler) http.Handler, so a
// chain reads outermost first:
//
//	handler := middleware.PanicRecovery(logger)(mux)
//	handler = middleware.Logging(logger)(handler)
//	handler = middleware.RequestID()(handler)
package middleware
