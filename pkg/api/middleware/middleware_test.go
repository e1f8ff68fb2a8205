package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dd0wney/cluso-chaingraph/pkg/logging"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
}

// --- PanicRecovery Tests ---

func TestPanicRecovery_HandlesNormalRequest(t *testing.T) {
	handler := PanicRecovery(logging.NewNopLogger())(okHandler())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if rr.Code != http.StatusOK || rr.Body.String() != "OK" {
		t.Errorf("Expected 200 OK, got %d %q", rr.Code, rr.Body.String())
	}
}

func TestPanicRecovery_RecoversFromPanic(t *testing.T) {
	var buf bytes.Buffer
	handler := PanicRecovery(logging.NewJSONLogger(&buf, logging.DebugLevel))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/analysis/metrics", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	if strings.Contains(rr.Body.String(), "boom") {
		t.Error("Panic value leaked to the client")
	}
	if !strings.Contains(buf.String(), "boom") {
		t.Error("Panic value should be logged")
	}
}

// --- RequestID Tests ---

func TestRequestID_GeneratesID(t *testing.T) {
	var seen string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if len(seen) != 36 {
		t.Errorf("Expected a UUID request ID, got %q", seen)
	}
	if rr.Header().Get(RequestIDHeader) != seen {
		t.Errorf("Response header %q does not match context %q", rr.Header().Get(RequestIDHeader), seen)
	}
}

func TestRequestID_KeepsAndSanitizesClientID(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"plain", "abc-123", "abc-123"},
		{"strips unsafe characters", "abc<script>\n", "abcscript"},
		{"truncates", strings.Repeat("a", 100), strings.Repeat("a", maxRequestIDLength)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetRequestID(r)
			}))
			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set(RequestIDHeader, tt.header)
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if seen != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, seen)
			}
		})
	}
}

// --- Logging Tests ---

func TestLogging_WritesAccessLogWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewJSONLogger(&buf, logging.InfoLevel)

	var ctxLogger logging.Logger
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxLogger = logging.FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})
	handler := RequestID()(Logging(logger)(inner))

	req := httptest.NewRequest("GET", "/analysis/layout", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, want := range []string{`"request_id":"req-1"`, `"status":418`, `"path":"/analysis/layout"`, `"level":"WARN"`} {
		if !strings.Contains(out, want) {
			t.Errorf("Access log missing %s: %s", want, out)
		}
	}
	if ctxLogger == nil {
		t.Error("Handler should receive a logger through the context")
	}
}

// --- CORS Tests ---

func TestCORS_AllowedOrigin(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"https://app.example.com"}
	cfg.AllowCredentials = true
	handler := CORS(NewCORSPolicy(cfg))(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Expected origin echoed, got %q", got)
	}
	if rr.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("Expected credentials header")
	}
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	handler := CORS(NewCORSPolicy(nil))(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("Disallowed origin should not receive CORS headers")
	}
	if rr.Code != http.StatusOK {
		t.Errorf("Simple request should still be served, got %d", rr.Code)
	}
}

func TestCORS_Preflight(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"*"}
	policy := NewCORSPolicy(cfg)
	handler := CORS(policy)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Preflight should not reach the handler")
	}))

	preflight := func() int {
		req := httptest.NewRequest("OPTIONS", "/analysis/metrics", nil)
		req.Header.Set("Origin", "https://any.example.com")
		req.Header.Set("Access-Control-Request-Method", "GET")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := preflight(); code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", code)
	}

	policy.Store(nil)
	if code := preflight(); code != http.StatusForbidden {
		t.Errorf("Expected 403 after reload, got %d", code)
	}
}

// --- Metrics Tests ---

type recordedRequest struct {
	method, path, status string
	bytes                int
}

type fakeRecorder struct {
	mu       sync.Mutex
	requests []recordedRequest
	inFlight int
	peak     int
}

func (f *fakeRecorder) RecordHTTPRequest(method, path, status string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, recordedRequest{method: method, path: path, status: status})
}

func (f *fakeRecorder) RecordHTTPResponseSize(method, path string, bytes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[len(f.requests)-1].bytes = bytes
}

func (f *fakeRecorder) IncHTTPRequestsInFlight() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight++
	f.peak = max(f.peak, f.inFlight)
}

func (f *fakeRecorder) DecHTTPRequestsInFlight() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight--
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /analysis/{kind}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello"))
	})
	rec := &fakeRecorder{}
	handler := Metrics(rec)(mux)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/analysis/metrics", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/nowhere", nil))

	if len(rec.requests) != 2 {
		t.Fatalf("Expected 2 recorded requests, got %d", len(rec.requests))
	}
	first := rec.requests[0]
	if first.path != "GET /analysis/{kind}" || first.status != "200" || first.bytes != 5 {
		t.Errorf("Unexpected first record %+v", first)
	}
	second := rec.requests[1]
	if second.path != unmatchedRoute || second.status != "404" {
		t.Errorf("Unexpected second record %+v", second)
	}
	if rec.inFlight != 0 || rec.peak != 1 {
		t.Errorf("In-flight gauge unbalanced: now %d, peak %d", rec.inFlight, rec.peak)
	}
}

func TestMetrics_NilRecorder(t *testing.T) {
	handler := Metrics(nil)(okHandler())
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rr.Code)
	}
}

// --- RateLimit Tests ---

func TestRateLimiter_BurstThenLimited(t *testing.T) {
	rl := NewRateLimiter(&RateLimitConfig{RequestsPerSecond: 1, BurstSize: 2, ClientExpiration: time.Minute}, logging.NewNopLogger())
	defer rl.Stop()

	now := time.Unix(1700000000, 0)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("Burst of 2 should be allowed")
	}
	if rl.Allow("a") {
		t.Error("Third request within the same instant should be limited")
	}
	if !rl.Allow("b") {
		t.Error("Clients should have independent buckets")
	}

	now = now.Add(time.Second)
	if !rl.Allow("a") {
		t.Error("A token should be replenished after one second")
	}
}

func TestRateLimiter_MaxClients(t *testing.T) {
	rl := NewRateLimiter(&RateLimitConfig{RequestsPerSecond: 10, BurstSize: 10, MaxClients: 1}, logging.NewNopLogger())
	defer rl.Stop()

	if !rl.Allow("first") {
		t.Fatal("First client should be admitted")
	}
	if rl.Allow("second") {
		t.Error("Second client should be rejected at the cap")
	}
	if !rl.Allow("first") {
		t.Error("Known client should still be served")
	}
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(&RateLimitConfig{RequestsPerSecond: 10, BurstSize: 10, ClientExpiration: time.Minute}, logging.NewNopLogger())
	defer rl.Stop()

	now := time.Unix(1700000000, 0)
	rl.now = func() time.Time { return now }
	rl.Allow("old")
	now = now.Add(30 * time.Second)
	rl.Allow("new")
	now = now.Add(45 * time.Second)

	if removed := rl.cleanup(); removed != 1 {
		t.Errorf("Expected 1 expired client, got %d", removed)
	}
	if rl.ActiveClients() != 1 {
		t.Errorf("Expected 1 active client, got %d", rl.ActiveClients())
	}
	rl.Stop()
}

func TestRateLimit_Middleware(t *testing.T) {
	rl := NewRateLimiter(&RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1}, logging.NewNopLogger())
	defer rl.Stop()

	limited := 0
	handler := RateLimit(rl, ClientIP(nil), func(r *http.Request, clientID string) {
		limited++
	})(okHandler())

	serve := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "192.0.2.1:5000"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	if rr := serve(); rr.Code != http.StatusOK {
		t.Fatalf("First request should pass, got %d", rr.Code)
	}
	rr := serve()
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("Expected 429, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "1" || rr.Header().Get("X-RateLimit-Limit") != "1" {
		t.Errorf("Missing rate limit headers: %v", rr.Header())
	}
	if limited != 1 {
		t.Errorf("Expected onLimited to run once, got %d", limited)
	}
}

func TestRateLimit_NilLimiter(t *testing.T) {
	handler := RateLimit(nil, ClientIP(nil), nil)(okHandler())
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rr.Code)
	}
}
