package middleware

import (
	"net/http/httptest"
	"testing"
)

func TestParseTrustedProxies(t *testing.T) {
	networks, err := ParseTrustedProxies([]string{"10.0.0.0/8", " 192.168.1.1 ", "::1", ""})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(networks) != 3 {
		t.Fatalf("Expected 3 networks, got %d", len(networks))
	}
	if networks[1].String() != "192.168.1.1/32" || networks[2].String() != "::1/128" {
		t.Errorf("Bare addresses should become host networks, got %v", networks)
	}

	networks, err = ParseTrustedProxies([]string{"10.0.0.0/8", "not-an-ip", "300.0.0.0/8"})
	if err == nil {
		t.Error("Expected an error for invalid entries")
	}
	if len(networks) != 1 {
		t.Errorf("Valid entries should still parse, got %d", len(networks))
	}
}

func TestClientIP(t *testing.T) {
	trusted, _ := ParseTrustedProxies([]string{"10.0.0.0/8"})

	tests := []struct {
		name       string
		trusted    bool
		remoteAddr string
		realIP     string
		forwarded  string
		want       string
	}{
		{"direct peer", true, "203.0.113.5:1234", "", "", "203.0.113.5"},
		{"untrusted peer ignores headers", true, "203.0.113.5:1234", "198.51.100.1", "198.51.100.2", "203.0.113.5"},
		{"trusted proxy with X-Real-IP", true, "10.1.2.3:80", "198.51.100.1", "198.51.100.2", "198.51.100.1"},
		{"trusted proxy with X-Forwarded-For", true, "10.1.2.3:80", "", "198.51.100.2, 10.1.2.3", "198.51.100.2"},
		{"trusted proxy with garbage headers", true, "10.1.2.3:80", "nope", "nope", "10.1.2.3"},
		{"no trusted networks", false, "10.1.2.3:80", "198.51.100.1", "", "10.1.2.3"},
		{"address without port", true, "203.0.113.5", "", "", "203.0.113.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}

			networks := trusted
			if !tt.trusted {
				networks = nil
			}
			if got := ClientIP(networks)(req); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
