package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/dd0wney/cluso-chaingraph/pkg/logging"
)

// RateLimitConfig configures rate limiting
type RateLimitConfig struct {
	RequestsPerSecond float64       // token replenishment rate
	BurstSize         int           // bucket capacity
	CleanupInterval   time.Duration // how often idle clients are swept
	ClientExpiration  time.Duration // idle time before a client is forgotten
	MaxClients        int           // cap on tracked clients
}

// DefaultRateLimitConfig returns defaults for rate limiting
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		RequestsPerSecond: 10,
		BurstSize:         20,
		CleanupInterval:   5 * time.Minute,
		ClientExpiration:  10 * time.Minute,
		MaxClients:        100000,
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client
type RateLimiter struct {
	config   *RateLimitConfig
	logger   logging.Logger
	clients  map[string]*clientLimiter
	mu       sync.Mutex
	stopChan chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// NewRateLimiter creates a rate limiter and starts its cleanup loop.
// Call Stop to release it.
func NewRateLimiter(config *RateLimitConfig, logger logging.Logger) *RateLimiter {
	if config == nil {
		config = DefaultRateLimitConfig()
	}
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	rl := &RateLimiter{
		config:   config,
		logger:   logger.With(logging.Component("ratelimit")),
		clients:  make(map[string]*clientLimiter),
		stopChan: make(chan struct{}),
		now:      time.Now,
	}
	if config.CleanupInterval > 0 {
		go rl.cleanupLoop()
	}
	return rl
}

// Allow reports whether a request from clientID may proceed. New clients
// are refused once MaxClients are tracked.
func (rl *RateLimiter) Allow(clientID string) bool {
	now := rl.now()

	rl.mu.Lock()
	c, ok := rl.clients[clientID]
	if !ok {
		if rl.config.MaxClients > 0 && len(rl.clients) >= rl.config.MaxClients {
			rl.mu.Unlock()
			rl.logger.Warn("Max clients reached, rejecting new client",
				logging.Int("max_clients", rl.config.MaxClients))
			return false
		}
		c = &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.BurstSize),
		}
		rl.clients[clientID] = c
	}
	c.lastSeen = now
	rl.mu.Unlock()

	return c.limiter.AllowN(now, 1)
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopChan:
			return
		}
	}
}

// cleanup forgets clients idle for longer than ClientExpiration
func (rl *RateLimiter) cleanup() int {
	now := rl.now()
	removed := 0

	rl.mu.Lock()
	for id, c := range rl.clients {
		if now.Sub(c.lastSeen) > rl.config.ClientExpiration {
			delete(rl.clients, id)
			removed++
		}
	}
	rl.mu.Unlock()

	if removed > 0 {
		rl.logger.Debug("Rate limiter cleanup", logging.Count(removed))
	}
	return removed
}

// Stop stops the cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopChan) })
}

// ActiveClients returns the number of tracked clients
func (rl *RateLimiter) ActiveClients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// ClientIDFunc extracts a client identifier from a request
type ClientIDFunc func(*http.Request) string

// RateLimit creates middleware that applies rate limiting per client.
// onLimited, when set, is called before the 429 is written.
func RateLimit(limiter *RateLimiter, getClientID ClientIDFunc, onLimited func(r *http.Request, clientID string)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := getClientID(r)
			if limiter.Allow(clientID) {
				next.ServeHTTP(w, r)
				return
			}

			limiter.logger.Warn("Rate limit exceeded",
				logging.String("client", clientID),
				logging.Path(r.URL.Path),
				logging.RequestID(GetRequestID(r)))
			if onLimited != nil {
				onLimited(r, clientID)
			}

			w.Header().Set("Retry-After", "1")
			w.Header().Set("X-RateLimit-Limit", strconv.FormatFloat(limiter.config.RequestsPerSecond, 'f', -1, 64))
			http.Error(w, "Rate limit exceeded. Please retry after 1 second.", http.StatusTooManyRequests)
		})
	}
}
