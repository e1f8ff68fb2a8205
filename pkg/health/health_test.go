package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func statusCheck(s Status) CheckFunc {
	return func(context.Context) Check { return Check{Status: s} }
}

func TestNewHealthChecker(t *testing.T) {
	hc := NewHealthChecker()

	if hc == nil {
		t.Fatal("NewHealthChecker returned nil")
	}
	if hc.checks == nil || hc.readyChecks == nil || hc.liveChecks == nil {
		t.Error("check maps not initialized")
	}
	if hc.timeout != DefaultCheckTimeout {
		t.Errorf("timeout = %v, want %v", hc.timeout, DefaultCheckTimeout)
	}
}

func TestRegisterCheck(t *testing.T) {
	hc := NewHealthChecker()

	called := false
	hc.RegisterCheck("test", func(context.Context) Check {
		called = true
		return Check{Status: StatusHealthy}
	})

	resp := hc.Check(context.Background())
	if !called {
		t.Error("registered check was not called")
	}
	check, exists := resp.Checks["test"]
	if !exists {
		t.Fatal("check result not in response")
	}
	if check.Name != "test" {
		t.Errorf("unnamed check should take its registration name, got %q", check.Name)
	}
}

func TestReadinessAndLivenessAreSeparate(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterReadinessCheck("source", statusCheck(StatusUnhealthy))
	hc.RegisterLivenessCheck("process", statusCheck(StatusHealthy))

	if got := hc.CheckReadiness(context.Background()).Status; got != StatusUnhealthy {
		t.Errorf("readiness = %s, want unhealthy", got)
	}
	if got := hc.CheckLiveness(context.Background()).Status; got != StatusHealthy {
		t.Errorf("liveness = %s, want healthy", got)
	}
	if got := len(hc.Check(context.Background()).Checks); got != 0 {
		t.Errorf("general checks = %d, want 0", got)
	}
}

func TestCheckStatusAggregation(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"no checks", nil, StatusHealthy},
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy wins", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewHealthChecker()
			for i, s := range tt.statuses {
				hc.RegisterCheck(string(rune('a'+i)), statusCheck(s))
			}
			if got := hc.Check(context.Background()).Status; got != tt.want {
				t.Errorf("status = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCheckTimeout(t *testing.T) {
	hc := NewHealthChecker()
	hc.SetTimeout(10 * time.Millisecond)
	hc.RegisterReadinessCheck("source", SourceCheck("postgres", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))

	resp := hc.CheckReadiness(context.Background())
	check := resp.Checks["source"]
	if check.Status != StatusUnhealthy {
		t.Errorf("status = %s, want unhealthy", check.Status)
	}
	if check.Message != context.DeadlineExceeded.Error() {
		t.Errorf("message = %q", check.Message)
	}
	if check.DurationMS <= 0 {
		t.Error("duration not recorded")
	}
}

func TestSourceCheck(t *testing.T) {
	healthy := SourceCheck("file", func(context.Context) error { return nil })(context.Background())
	if healthy.Status != StatusHealthy || healthy.Details["kind"] != "file" {
		t.Errorf("unexpected check %+v", healthy)
	}

	failing := SourceCheck("s3", func(context.Context) error { return errors.New("no such bucket") })(context.Background())
	if failing.Status != StatusUnhealthy || failing.Message != "no such bucket" {
		t.Errorf("unexpected check %+v", failing)
	}
}

func TestSubscriberCheck(t *testing.T) {
	n := 3
	check := SubscriberCheck(func() int { return n }, 5)

	if got := check(context.Background()).Status; got != StatusHealthy {
		t.Errorf("status = %s, want healthy", got)
	}
	n = 5
	if got := check(context.Background()).Status; got != StatusDegraded {
		t.Errorf("status = %s, want degraded", got)
	}
	if got := SubscriberCheck(func() int { return 1000 }, 0)(context.Background()).Status; got != StatusHealthy {
		t.Errorf("unlimited subscribers should stay healthy, got %s", got)
	}
}

func TestMemoryCheck(t *testing.T) {
	tests := []struct {
		name       string
		alloc, sys uint64
		want       Status
	}{
		{"normal", 50, 100, StatusHealthy},
		{"high", 95, 100, StatusDegraded},
		{"no sys", 0, 0, StatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := MemoryCheck(func() (uint64, uint64) { return tt.alloc, tt.sys })(context.Background())
			if check.Status != tt.want {
				t.Errorf("status = %s, want %s", check.Status, tt.want)
			}
		})
	}

	if got := MemoryCheck(nil)(context.Background()); got.Details["sys_bytes"].(uint64) == 0 {
		t.Error("runtime memory stats not read")
	}
}

func TestHTTPHandler(t *testing.T) {
	tests := []struct {
		status Status
		code   int
	}{
		{StatusHealthy, http.StatusOK},
		{StatusDegraded, http.StatusOK},
		{StatusUnhealthy, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			hc := NewHealthChecker()
			hc.RegisterCheck("component", statusCheck(tt.status))

			rec := httptest.NewRecorder()
			hc.HTTPHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != tt.code {
				t.Errorf("code = %d, want %d", rec.Code, tt.code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}

			var resp Response
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tt.status {
				t.Errorf("status = %s, want %s", resp.Status, tt.status)
			}
		})
	}
}

func TestReadinessHandler_DegradedIsNotReady(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterReadinessCheck("stream", statusCheck(StatusDegraded))

	rec := httptest.NewRecorder()
	hc.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("code = %d, want 503", rec.Code)
	}
}

func TestLivenessHandler(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterLivenessCheck("process", SimpleCheck("process"))

	rec := httptest.NewRecorder()
	hc.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("code = %d, want 200", rec.Code)
	}
}

func TestConcurrentCheckRegistration(t *testing.T) {
	hc := NewHealthChecker()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			hc.RegisterCheck(string(rune('a'+i)), statusCheck(StatusHealthy))
		}(i)
		go func() {
			defer wg.Done()
			hc.Check(context.Background())
		}()
	}
	wg.Wait()

	if got := len(hc.Check(context.Background()).Checks); got != 20 {
		t.Errorf("checks = %d, want 20", got)
	}
}
