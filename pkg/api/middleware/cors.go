package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
)

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string // exact origins, or "*" for any
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int // preflight cache duration in seconds
}

// DefaultCORSConfig returns a configuration that allows no origins
func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		AllowedOrigins: []string{},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         86400,
	}
}

// CORSPolicy holds a CORS configuration that can be swapped while serving,
// e.g. on configuration reload
type CORSPolicy struct {
	current atomic.Pointer[CORSConfig]
}

// NewCORSPolicy creates a policy; nil means DefaultCORSConfig
func NewCORSPolicy(cfg *CORSConfig) *CORSPolicy {
	p := &CORSPolicy{}
	p.Store(cfg)
	return p
}

// Store replaces the active configuration
func (p *CORSPolicy) Store(cfg *CORSConfig) {
	if cfg == nil {
		cfg = DefaultCORSConfig()
	}
	p.current.Store(cfg)
}

// Load returns the active configuration
func (p *CORSPolicy) Load() *CORSConfig { return p.current.Load() }

func (c *CORSConfig) allows(origin string) bool {
	if origin == "" {
		return false
	}
	return slices.Contains(c.AllowedOrigins, "*") || slices.Contains(c.AllowedOrigins, origin)
}

// CORS creates middleware that handles Cross-Origin Resource Sharing.
// Preflight requests from disallowed origins get 403.
func CORS(policy *CORSPolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			config := policy.Load()
			origin := r.Header.Get("Origin")
			allowed := config.allows(origin)

			if allowed {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
				h.Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
				h.Set("Access-Control-Allow-Headers", strings.Join(config.AllowedHeaders, ", "))
				if config.AllowCredentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
				if config.MaxAge > 0 {
					h.Set("Access-Control-Max-Age", strconv.Itoa(config.MaxAge))
				}
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				if allowed {
					w.WriteHeader(http.StatusNoContent)
				} else {
					w.WriteHeader(http.StatusForbidden)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
