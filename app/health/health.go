// Package health provides health checks for an oracle network node.
//
// The checker inspects the committed state through the read-only query surface:
// - Store: a genesis has been committed and blocks are being produced
// - Network: the network is initialized and not paused
// - Oracles: enough active providers exist to reach quorum
// - Feeds: active feeds carry fresh resolved prices (detailed check only)
// - Telemetry: the configured exporters are installed (when attached)
//
// Endpoints:
// - /health - Basic liveness check
// - /health/ready - Readiness check for load balancers
// - /health/detailed - Comprehensive status with metrics
package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/log"
	"github.com/gin-gonic/gin"

	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
	StatusUnknown   Status = "unknown"
)

// ComponentHealth represents the health status of a single component
type ComponentHealth struct {
	Status    Status                 `json:"status"`
	Message   string                 `json:"message,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metrics   map[string]interface{} `json:"metrics,omitempty"`
}

// HealthCheck represents the overall health check response
type HealthCheck struct {
	Status     Status                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// StateReader is the read side of the application host
type StateReader interface {
	LastBlockHeight() int64
	LastBlockTime() time.Time
	Query(blockTime time.Time, fn func(ctx context.Context, q types.QueryServer) error) error
}

// TelemetryChecker reports whether the node's trace and meter exporters are installed
type TelemetryChecker interface {
	Check() error
}

// Checker performs health checks on the oracle network state
type Checker struct {
	logger log.Logger
	state  StateReader
	now    func() time.Time

	maxBlockAge time.Duration

	mu            sync.RWMutex
	telemetry     TelemetryChecker
	lastCheck     time.Time
	cachedHealth  *HealthCheck
	cacheDuration time.Duration
}

// Config holds configuration for the health checker
type Config struct {
	// MaxBlockAge is how old the last block may be before the store is reported degraded.
	// Zero disables the check.
	MaxBlockAge time.Duration

	// CacheDuration is how long to cache health check results
	CacheDuration time.Duration
}

// DefaultConfig returns the default health check configuration
func DefaultConfig() Config {
	return Config{
		MaxBlockAge:   time.Hour,
		CacheDuration: 5 * time.Second,
	}
}

// NewChecker creates a new health checker
func NewChecker(logger log.Logger, cfg Config, state StateReader) (*Checker, error) {
	if state == nil {
		return nil, fmt.Errorf("state reader is required")
	}

	return &Checker{
		logger:        logger,
		state:         state,
		now:           time.Now,
		maxBlockAge:   cfg.MaxBlockAge,
		cacheDuration: cfg.CacheDuration,
	}, nil
}

// SetTelemetry adds a telemetry component to subsequent checks
func (c *Checker) SetTelemetry(t TelemetryChecker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.telemetry = t
	c.cachedHealth = nil
}

// Check performs a health check. Detailed checks bypass the cache and include per-feed freshness.
func (c *Checker) Check(ctx context.Context, detailed bool) (*HealthCheck, error) {
	if !detailed && c.shouldUseCached() {
		c.mu.RLock()
		defer c.mu.RUnlock()
		return c.cachedHealth, nil
	}

	health := &HealthCheck{
		Timestamp:  c.now(),
		Components: make(map[string]ComponentHealth),
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	checks := []struct {
		name string
		fn   func(context.Context) ComponentHealth
	}{
		{"store", c.checkStore},
		{"network", c.checkNetwork},
		{"oracles", c.checkOracles},
	}

	c.mu.RLock()
	withTelemetry := c.telemetry != nil
	c.mu.RUnlock()
	if withTelemetry {
		checks = append(checks,
			struct {
				name string
				fn   func(context.Context) ComponentHealth
			}{"telemetry", c.checkTelemetry},
		)
	}

	if detailed {
		checks = append(checks,
			struct {
				name string
				fn   func(context.Context) ComponentHealth
			}{"feeds", c.checkFeeds},
		)
	}

	for _, check := range checks {
		wg.Add(1)
		go func(name string, fn func(context.Context) ComponentHealth) {
			defer wg.Done()
			result := fn(ctx)
			mu.Lock()
			health.Components[name] = result
			mu.Unlock()
		}(check.name, check.fn)
	}

	wg.Wait()

	health.Status = c.calculateOverallStatus(health.Components)

	c.mu.Lock()
	c.lastCheck = c.now()
	c.cachedHealth = health
	c.mu.Unlock()

	return health, nil
}

func (c *Checker) component(status Status, message string, metrics map[string]interface{}) ComponentHealth {
	return ComponentHealth{
		Status:    status,
		Message:   message,
		Timestamp: c.now(),
		Metrics:   metrics,
	}
}

// checkStore verifies that state has been committed and blocks keep arriving
func (c *Checker) checkStore(_ context.Context) ComponentHealth {
	height := c.state.LastBlockHeight()
	if height == 0 {
		return c.component(StatusUnhealthy, "No genesis committed", nil)
	}

	lastBlockTime := c.state.LastBlockTime()
	metrics := map[string]interface{}{
		"latest_block_height": height,
		"latest_block_time":   lastBlockTime.Format(time.RFC3339),
	}

	blockAge := c.now().Sub(lastBlockTime)
	if c.maxBlockAge > 0 && blockAge > c.maxBlockAge {
		metrics["block_age_seconds"] = blockAge.Seconds()
		return c.component(StatusDegraded,
			fmt.Sprintf("Last block is %.1f minutes old", blockAge.Minutes()), metrics)
	}

	return c.component(StatusHealthy, "Store is committing blocks", metrics)
}

// checkNetwork verifies the network is initialized and accepting operations
func (c *Checker) checkNetwork(_ context.Context) ComponentHealth {
	var paused bool
	err := c.state.Query(c.now(), func(ctx context.Context, q types.QueryServer) error {
		if _, err := q.Config(ctx, &types.QueryConfigRequest{}); err != nil {
			return err
		}
		resp, err := q.Paused(ctx, &types.QueryPausedRequest{})
		if err != nil {
			return err
		}
		paused = resp.Paused
		return nil
	})
	if errors.Is(err, types.ErrNotInitialized) {
		return c.component(StatusUnhealthy, "Oracle network not initialized", nil)
	}
	if err != nil {
		return c.component(StatusUnhealthy, fmt.Sprintf("Config query failed: %v", err), nil)
	}

	metrics := map[string]interface{}{"paused": paused}
	if paused {
		return c.component(StatusDegraded, "Oracle network is paused", metrics)
	}
	return c.component(StatusHealthy, "Oracle network is accepting operations", metrics)
}

// checkOracles verifies enough active providers exist to resolve rounds
func (c *Checker) checkOracles(_ context.Context) ComponentHealth {
	var stats types.NetworkStats
	var minOracles uint32
	err := c.state.Query(c.now(), func(ctx context.Context, q types.QueryServer) error {
		cfg, err := q.Config(ctx, &types.QueryConfigRequest{})
		if err != nil {
			return err
		}
		minOracles = cfg.Config.MinOracles
		resp, err := q.NetworkStats(ctx, &types.QueryNetworkStatsRequest{})
		if err != nil {
			return err
		}
		stats = resp.Stats
		return nil
	})
	if err != nil {
		return c.component(StatusUnknown, fmt.Sprintf("Stats query failed: %v", err), nil)
	}

	metrics := map[string]interface{}{
		"total_oracles":  stats.TotalOracles,
		"active_oracles": stats.ActiveOracles,
		"min_oracles":    minOracles,
	}

	if stats.ActiveOracles == 0 {
		return c.component(StatusUnhealthy, "No active oracles", metrics)
	}
	if stats.ActiveOracles < minOracles {
		return c.component(StatusDegraded,
			fmt.Sprintf("Only %d active oracles (quorum needs %d)", stats.ActiveOracles, minOracles), metrics)
	}
	return c.component(StatusHealthy, fmt.Sprintf("%d active oracles", stats.ActiveOracles), metrics)
}

// checkFeeds reports active feeds whose latest price is stale or missing
func (c *Checker) checkFeeds(_ context.Context) ComponentHealth {
	feedStatus := make(map[string]string)
	err := c.state.Query(c.now(), func(ctx context.Context, q types.QueryServer) error {
		feeds, err := q.Feeds(ctx, &types.QueryFeedsRequest{})
		if err != nil {
			return err
		}
		for _, feed := range feeds.Feeds {
			if !feed.IsActive {
				feedStatus[feed.FeedID] = "inactive"
				continue
			}
			_, err := q.Price(ctx, &types.QueryPriceRequest{FeedID: feed.FeedID})
			switch {
			case err == nil:
				feedStatus[feed.FeedID] = "fresh"
			case errors.Is(err, types.ErrStalePrice):
				feedStatus[feed.FeedID] = "stale"
			case errors.Is(err, types.ErrNoResolvedPrice):
				feedStatus[feed.FeedID] = "no_price"
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.component(StatusUnknown, fmt.Sprintf("Feed query failed: %v", err), nil)
	}

	lagging := 0
	for _, s := range feedStatus {
		if s == "stale" || s == "no_price" {
			lagging++
		}
	}

	metrics := map[string]interface{}{"feeds": feedStatus}
	if lagging > 0 {
		return c.component(StatusDegraded, fmt.Sprintf("%d active feeds without a fresh price", lagging), metrics)
	}
	return c.component(StatusHealthy, "All active feeds are fresh", metrics)
}

// checkTelemetry degrades the node when an exporter it was configured with is missing
func (c *Checker) checkTelemetry(_ context.Context) ComponentHealth {
	c.mu.RLock()
	t := c.telemetry
	c.mu.RUnlock()

	if err := t.Check(); err != nil {
		return c.component(StatusDegraded, err.Error(), nil)
	}
	return c.component(StatusHealthy, "Telemetry exporters installed", nil)
}

// calculateOverallStatus determines the overall health status based on component statuses
func (c *Checker) calculateOverallStatus(components map[string]ComponentHealth) Status {
	hasUnhealthy := false
	hasDegraded := false

	for _, component := range components {
		switch component.Status {
		case StatusUnhealthy:
			hasUnhealthy = true
		case StatusDegraded, StatusUnknown:
			hasDegraded = true
		}
	}

	if hasUnhealthy {
		return StatusUnhealthy
	}
	if hasDegraded {
		return StatusDegraded
	}
	return StatusHealthy
}

func (c *Checker) shouldUseCached() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.cachedHealth == nil {
		return false
	}

	return c.now().Sub(c.lastCheck) < c.cacheDuration
}

// RegisterRoutes registers the health endpoints on router
func (c *Checker) RegisterRoutes(router gin.IRoutes) {
	router.GET("/health", c.handleHealth)
	router.GET("/health/ready", c.handleHealthReady)
	router.GET("/health/detailed", c.handleHealthDetailed)
}

func (c *Checker) handleHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": c.now().Format(time.RFC3339),
	})
}

func (c *Checker) handleHealthReady(ctx *gin.Context) {
	c.respond(ctx, false)
}

func (c *Checker) handleHealthDetailed(ctx *gin.Context) {
	c.respond(ctx, true)
}

func (c *Checker) respond(ctx *gin.Context, detailed bool) {
	health, err := c.Check(ctx.Request.Context(), detailed)
	if err != nil {
		c.logger.Error("Health check failed", "error", err, "detailed", detailed)
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	statusCode := http.StatusOK
	if health.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	ctx.JSON(statusCode, health)
}
