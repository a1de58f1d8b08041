package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"cosmossdk.io/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/paw-chain/oraclenet/app/health"
)

// Server serves the read-only oracle network REST surface
type Server struct {
	logger      log.Logger
	config      Config
	state       health.StateReader
	checker     *health.Checker
	rateLimiter *IPRateLimiter
	router      *gin.Engine
	handler     http.Handler
	now         func() time.Time
}

// Config holds server configuration
type Config struct {
	Address         string
	CORSOrigins     []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MetricsEnabled  bool

	RateLimit RateLimitConfig
	Health    health.Config
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Address:         "0.0.0.0:5000",
		CORSOrigins:     []string{"http://localhost:3000", "http://localhost:8080"},
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		MetricsEnabled:  true,
		RateLimit:       DefaultRateLimitConfig(),
		Health:          health.DefaultConfig(),
	}
}

// Validate checks the server configuration
func (c Config) Validate() error {
	if c.Address == "" {
		return errors.New("api address is required")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}
	return c.RateLimit.Validate()
}

// NewServer creates a new API server over the committed state
func NewServer(logger log.Logger, state health.StateReader, config Config) (*Server, error) {
	if state == nil {
		return nil, errors.New("state reader is required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid api config: %w", err)
	}

	logger = logger.With("module", "api")

	checker, err := health.NewChecker(logger, config.Health, state)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize health checker: %w", err)
	}

	var rateLimiter *IPRateLimiter
	if config.RateLimit.Enabled {
		rateLimiter, err = NewIPRateLimiter(config.RateLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize rate limiter: %w", err)
		}
	}

	s := &Server{
		logger:      logger,
		config:      config,
		state:       state,
		checker:     checker,
		rateLimiter: rateLimiter,
		now:         func() time.Time { return time.Now().UTC() },
	}
	s.setupRouter()

	return s, nil
}

// setupRouter configures the gin router with all routes and middleware
func (s *Server) setupRouter() {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()
	// feed ids carry a slash and arrive escaped as BTC%2FUSD
	s.router.UseRawPath = true
	s.router.UnescapePathValues = true

	// Global middleware, recovery first
	s.router.Use(RecoveryMiddleware(s.logger))
	s.router.Use(SecurityHeadersMiddleware())
	s.router.Use(RequestIDMiddleware())
	s.router.Use(LoggerMiddleware(s.logger))
	if s.rateLimiter != nil {
		s.router.Use(RateLimitMiddleware(s.rateLimiter))
	}

	s.checker.RegisterRoutes(s.router)
	if s.config.MetricsEnabled {
		s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	if s.rateLimiter != nil {
		s.router.GET("/rate-limit/stats", s.handleRateLimitStats)
	}

	s.registerRoutes()

	s.handler = s.router
	if len(s.config.CORSOrigins) > 0 {
		s.handler = cors.New(cors.Options{
			AllowedOrigins: s.config.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
			MaxAge:         86400,
		}).Handler(s.router)
	}
}

// HealthChecker returns the checker behind /health
func (s *Server) HealthChecker() *health.Checker {
	return s.checker
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:           s.config.Address,
		Handler:        s.handler,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting REST server", "address", s.config.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("REST server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down REST server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// Close releases the rate limiter
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Close()
	}
}

func (s *Server) handleRateLimitStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.rateLimiter.Stats())
}
