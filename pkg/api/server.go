// Package api serves graph analyses of blockchain snapshots over HTTP and
// streams a summary of every completed analysis to websocket clients.
package api

import (
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dd0wney/cluso-chaingraph/pkg/analysis"
	"github.com/dd0wney/cluso-chaingraph/pkg/api/middleware"
	"github.com/dd0wney/cluso-chaingraph/pkg/config"
	"github.com/dd0wney/cluso-chaingraph/pkg/health"
	"github.com/dd0wney/cluso-chaingraph/pkg/logging"
	"github.com/dd0wney/cluso-chaingraph/pkg/metrics"
	"github.com/dd0wney/cluso-chaingraph/pkg/pubsub"
	"github.com/dd0wney/cluso-chaingraph/pkg/source"
)

// Options wires a Server. Source is required; everything else has a
// default.
type Options struct {
	Config  *config.Config
	Source  source.Source
	Metrics *metrics.Registry
	PubSub  *pubsub.PubSub
	Health  *health.HealthChecker
	Logger  logging.Logger
	Version string
}

// Server represents the HTTP API server
type Server struct {
	source  source.Source
	metrics *metrics.Registry
	stream  *pubsub.PubSub
	health  *health.HealthChecker
	logger  logging.Logger
	version string

	cfg         atomic.Pointer[config.Config]
	communities atomic.Pointer[analysis.CommunityRegistry]
	cors        *middleware.CORSPolicy
	limiter     *middleware.RateLimiter
	clientIP    middleware.ClientIDFunc
	upgrader    websocket.Upgrader
	subscribers atomic.Int64

	startTime time.Time
}

// NewServer creates a new API server
func NewServer(opts Options) (*Server, error) {
	if opts.Source == nil {
		return nil, errors.New("api: a snapshot source is required")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{
		source:    opts.Source,
		metrics:   opts.Metrics,
		stream:    opts.PubSub,
		health:    opts.Health,
		logger:    opts.Logger,
		version:   opts.Version,
		cors:      middleware.NewCORSPolicy(corsConfig(cfg)),
		startTime: time.Now(),
	}
	if s.metrics == nil {
		s.metrics = metrics.NewRegistry()
	}
	if s.stream == nil {
		s.stream = pubsub.NewPubSub(cfg.Server.StreamBufferSize)
	}
	if s.health == nil {
		s.health = health.NewHealthChecker()
	}
	if s.logger == nil {
		s.logger = logging.DefaultLogger()
	}
	if s.version == "" {
		s.version = "dev"
	}

	trusted, err := middleware.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return nil, err
	}
	s.clientIP = middleware.ClientIP(trusted)

	if cfg.Server.RateLimit > 0 {
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.Server.RateLimit
		rl.BurstSize = cfg.Server.RateBurst
		s.limiter = middleware.NewRateLimiter(rl, s.logger)
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 16 * 1024,
		CheckOrigin:     s.checkOrigin,
	}

	s.cfg.Store(cfg)
	s.communities.Store(analysis.NewCommunityRegistry(cfg.Analysis.EnableLouvain))

	s.health.RegisterLivenessCheck("server", health.SimpleCheck("server"))
	s.health.RegisterReadinessCheck("source", health.SourceCheck(s.source.Kind(), s.source.Ping))
	s.health.RegisterCheck("source", health.SourceCheck(s.source.Kind(), s.source.Ping))
	s.health.RegisterCheck("stream", health.SubscriberCheck(s.subscriberCount, cfg.Server.StreamMaxSubscribers))
	s.health.RegisterCheck("memory", health.MemoryCheck(nil))

	return s, nil
}

func corsConfig(cfg *config.Config) *middleware.CORSConfig {
	c := middleware.DefaultCORSConfig()
	c.AllowedOrigins = cfg.Server.CORSAllowedOrigins
	c.AllowCredentials = cfg.Server.CORSAllowCredentials
	return c
}

// Handler returns the routed handler with the middleware chain applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)

	mux.HandleFunc("GET /analysis/metrics", s.handleMetrics)
	mux.HandleFunc("GET /analysis/centrality", s.handleCentrality)
	mux.HandleFunc("GET /analysis/degree_centrality", s.handleDegreeCentrality)
	mux.HandleFunc("GET /analysis/communities", s.handleCommunities)
	mux.HandleFunc("GET /analysis/layout", s.handleLayout)
	mux.HandleFunc("GET /analysis/temporal", s.handleTemporal)
	mux.HandleFunc("GET /analysis/visualization", s.handleVisualization)

	mux.HandleFunc("GET /health", s.health.HTTPHandler())
	mux.HandleFunc("GET /health/live", s.health.LivenessHandler())
	mux.HandleFunc("GET /health/ready", s.health.ReadinessHandler())
	mux.Handle("GET /metrics/prometheus", promhttp.HandlerFor(s.metrics.GetPrometheusRegistry(), promhttp.HandlerOpts{}))

	mux.HandleFunc("GET /ws/analysis", s.handleStream)

	var h http.Handler = mux
	h = middleware.Metrics(s.metrics)(h)
	h = middleware.RateLimit(s.limiter, s.clientIP, nil)(h)
	h = middleware.CORS(s.cors)(h)
	h = middleware.Logging(s.logger)(h)
	h = middleware.RequestID()(h)
	h = middleware.PanicRecovery(s.logger)(h)
	return h
}

// Config returns the active configuration
func (s *Server) Config() *config.Config { return s.cfg.Load() }

// Reload applies a new configuration: log level, CORS origins, analysis
// defaults and Louvain enablement. Listen address, source and rate limits
// need a restart.
func (s *Server) Reload(cfg *config.Config) {
	s.cfg.Store(cfg)
	s.logger.SetLevel(logging.ParseLevel(cfg.Logging.Level))
	s.cors.Store(corsConfig(cfg))
	s.communities.Store(analysis.NewCommunityRegistry(cfg.Analysis.EnableLouvain))
	s.logger.Info("Configuration reloaded",
		logging.String("log_level", cfg.Logging.Level),
		logging.Int("cors_origins", len(cfg.Server.CORSAllowedOrigins)),
		logging.Bool("louvain", cfg.Analysis.EnableLouvain))
}

// Close stops the rate limiter and ends every websocket stream
func (s *Server) Close() error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	s.stream.Shutdown()
	return nil
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, r, http.StatusOK, RootResponse{
		Message: "Blockchain graph analysis API",
		Version: s.version,
		Uptime:  time.Since(s.startTime).Round(time.Second).String(),
	})
}
