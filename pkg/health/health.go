// Package health provides health check endpoints for the Fern service.
package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// Status represents the health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// DBPinger is satisfied by database.DB.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// Pinger is satisfied by optional dependencies such as the redis client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CheckResult represents the result of a health check
type CheckResult struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Response represents a health check response
type Response struct {
	Status     Status                 `json:"status"`
	Version    string                 `json:"version,omitempty"`
	Uptime     string                 `json:"uptime,omitempty"`
	Checks     map[string]CheckResult `json:"checks,omitempty"`
	ReportedAt time.Time              `json:"reported_at"`
}

// Checker provides health check functionality
type Checker struct {
	db        DBPinger
	optional  map[string]Pinger
	startTime time.Time
	version   string
	mu        sync.RWMutex
	ready     bool
}

// NewChecker creates a new health checker. A nil db is reported unhealthy.
func NewChecker(db DBPinger, version string) *Checker {
	return &Checker{
		db:        db,
		optional:  make(map[string]Pinger),
		startTime: time.Now(),
		version:   version,
	}
}

// AddOptional registers a dependency whose failure degrades but does not fail readiness.
func (c *Checker) AddOptional(name string, p Pinger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.optional[name] = p
}

// SetReady marks the service as ready to receive traffic
func (c *Checker) SetReady(ready bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ready = ready
}

// IsReady returns whether the service is ready
func (c *Checker) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// LivenessHandler returns the liveness probe handler
func (c *Checker) LivenessHandler(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, Response{
		Status:     StatusHealthy,
		Version:    c.version,
		Uptime:     time.Since(c.startTime).Round(time.Second).String(),
		ReportedAt: time.Now(),
	})
}

// ReadinessHandler returns the readiness probe handler
func (c *Checker) ReadinessHandler(ctx echo.Context) error {
	if !c.IsReady() {
		return ctx.JSON(http.StatusServiceUnavailable, Response{
			Status:     StatusUnhealthy,
			Version:    c.version,
			ReportedAt: time.Now(),
			Checks: map[string]CheckResult{
				"startup": {Status: StatusUnhealthy, Message: "service is still starting up"},
			},
		})
	}
	return c.HealthHandler(ctx)
}

// HealthHandler returns a detailed health check handler
func (c *Checker) HealthHandler(ctx echo.Context) error {
	checks := c.runChecks(ctx.Request().Context())
	overallStatus := calculateOverallStatus(checks)

	statusCode := http.StatusOK
	if overallStatus == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	return ctx.JSON(statusCode, Response{
		Status:     overallStatus,
		Version:    c.version,
		Uptime:     time.Since(c.startTime).Round(time.Second).String(),
		Checks:     checks,
		ReportedAt: time.Now(),
	})
}

func (c *Checker) runChecks(ctx context.Context) map[string]CheckResult {
	checks := make(map[string]CheckResult)

	if c.db == nil {
		checks["database"] = CheckResult{Status: StatusUnhealthy, Message: "database not configured"}
	} else {
		checks["database"] = ping(ctx, c.db.PingContext, StatusUnhealthy)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	for name, p := range c.optional {
		checks[name] = ping(ctx, p.Ping, StatusDegraded)
	}

	return checks
}

func ping(ctx context.Context, fn func(context.Context) error, failure Status) CheckResult {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := fn(ctx); err != nil {
		return CheckResult{
			Status:  failure,
			Message: err.Error(),
			Latency: time.Since(start).String(),
		}
	}

	return CheckResult{
		Status:  StatusHealthy,
		Latency: time.Since(start).String(),
	}
}

func calculateOverallStatus(checks map[string]CheckResult) Status {
	hasUnhealthy := false
	hasDegraded := false

	for _, check := range checks {
		switch check.Status {
		case StatusUnhealthy:
			hasUnhealthy = true
		case StatusDegraded:
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

// RegisterRoutes registers health check routes under /api/v1
func (c *Checker) RegisterRoutes(e *echo.Echo) {
	health := e.Group("/api/v1/health")

	health.GET("", c.HealthHandler)
	health.GET("/live", c.LivenessHandler)
	health.GET("/ready", c.ReadinessHandler)
}
