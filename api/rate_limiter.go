package api

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig holds per-client rate limiting configuration
type RateLimitConfig struct {
	Enabled         bool          `json:"enabled"`
	RPS             int           `json:"rps"`
	Burst           int           `json:"burst"`
	CleanupInterval time.Duration `json:"cleanup_interval"`
	// IdleTimeout is how long a client goes unseen before its limiter is dropped
	IdleTimeout time.Duration `json:"idle_timeout"`
}

// DefaultRateLimitConfig returns the default rate limiting configuration
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:         true,
		RPS:             100,
		Burst:           200,
		CleanupInterval: time.Minute,
		IdleTimeout:     10 * time.Minute,
	}
}

// Validate checks the rate limiting configuration
func (c RateLimitConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.RPS <= 0 {
		return errors.New("rate limit rps must be positive")
	}
	if c.Burst < 1 {
		return errors.New("rate limit burst must be at least 1")
	}
	if c.CleanupInterval <= 0 {
		return errors.New("rate limit cleanup interval must be positive")
	}
	return nil
}

// RateLimitHeaders represents the standard rate limit headers
type RateLimitHeaders struct {
	Limit      int   `json:"limit"`
	Remaining  int   `json:"remaining"`
	Reset      int64 `json:"reset"`
	RetryAfter int   `json:"retry_after,omitempty"`
}

// ToHeaders converts to HTTP headers map
func (h *RateLimitHeaders) ToHeaders() map[string]string {
	headers := map[string]string{
		"X-RateLimit-Limit":     strconv.Itoa(h.Limit),
		"X-RateLimit-Remaining": strconv.Itoa(h.Remaining),
		"X-RateLimit-Reset":     strconv.FormatInt(h.Reset, 10),
	}
	if h.RetryAfter > 0 {
		headers["Retry-After"] = strconv.Itoa(h.RetryAfter)
	}
	return headers
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps a token bucket per client IP
type IPRateLimiter struct {
	config RateLimitConfig
	now    func() time.Time

	mu      sync.Mutex
	clients map[string]*clientLimiter

	stopChan  chan struct{}
	closeOnce sync.Once
}

// NewIPRateLimiter creates a limiter and starts its cleanup routine
func NewIPRateLimiter(config RateLimitConfig) (*IPRateLimiter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = DefaultRateLimitConfig().IdleTimeout
	}

	l := &IPRateLimiter{
		config:   config,
		now:      time.Now,
		clients:  make(map[string]*clientLimiter),
		stopChan: make(chan struct{}),
	}
	go l.cleanupRoutine()

	return l, nil
}

// Allow reports whether ip may make another request now
func (l *IPRateLimiter) Allow(ip string) (bool, *RateLimitHeaders) {
	now := l.now()

	l.mu.Lock()
	client, ok := l.clients[ip]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(l.config.RPS), l.config.Burst)}
		l.clients[ip] = client
	}
	client.lastSeen = now
	allowed := client.limiter.AllowN(now, 1)
	remaining := int(client.limiter.TokensAt(now))
	l.mu.Unlock()

	headers := &RateLimitHeaders{
		Limit:     l.config.RPS,
		Remaining: max(remaining, 0),
		Reset:     now.Add(time.Second).Unix(),
	}
	if !allowed {
		headers.Remaining = 0
		headers.RetryAfter = 1
	}
	return allowed, headers
}

func (l *IPRateLimiter) cleanupRoutine() {
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stopChan:
			return
		}
	}
}

func (l *IPRateLimiter) cleanup() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, client := range l.clients {
		if now.Sub(client.lastSeen) > l.config.IdleTimeout {
			delete(l.clients, ip)
		}
	}
}

// Close stops the cleanup routine
func (l *IPRateLimiter) Close() {
	l.closeOnce.Do(func() { close(l.stopChan) })
}

// Stats returns statistics about the rate limiter
func (l *IPRateLimiter) Stats() map[string]interface{} {
	l.mu.Lock()
	tracked := len(l.clients)
	l.mu.Unlock()

	return map[string]interface{}{
		"tracked_clients": tracked,
		"rps":             l.config.RPS,
		"burst":           l.config.Burst,
	}
}
