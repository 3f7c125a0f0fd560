package gin

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthStatus represents the status of a health check.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

const healthCheckTimeout = 3 * time.Second

// HealthResponse is the health endpoint body.
type HealthResponse struct {
	Status  HealthStatus           `json:"status"`
	Service string                 `json:"service"`
	Version string                 `json:"version"`
	Uptime  string                 `json:"uptime"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is the outcome of one named check.
type CheckResult struct {
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
	Latency string       `json:"latency,omitempty"`
}

// HealthChecker performs a single named check.
type HealthChecker func(ctx context.Context) CheckResult

// PingChecker turns a ping function into a checker that reports unhealthy on error.
func PingChecker(ping func(ctx context.Context) error) HealthChecker {
	return func(ctx context.Context) CheckResult {
		start := time.Now()
		if err := ping(ctx); err != nil {
			return CheckResult{
				Status:  HealthStatusUnhealthy,
				Message: err.Error(),
				Latency: time.Since(start).String(),
			}
		}
		return CheckResult{Status: HealthStatusHealthy, Latency: time.Since(start).String()}
	}
}

// DegradedChecker reports degraded, never unhealthy, when probe returns a message.
// Used for dependencies the service can run without, such as remote models.
func DegradedChecker(probe func() string) HealthChecker {
	return func(context.Context) CheckResult {
		if msg := probe(); msg != "" {
			return CheckResult{Status: HealthStatusDegraded, Message: msg}
		}
		return CheckResult{Status: HealthStatusHealthy}
	}
}

var startOnce = struct {
	sync.Once
	at time.Time
}{}

// RegisterHealthRoutes adds GET and HEAD /health.
func RegisterHealthRoutes(router *gin.Engine, serviceName, version string, checks map[string]HealthChecker) {
	startOnce.Do(func() { startOnce.at = time.Now() })

	router.GET("/health", func(c *gin.Context) {
		resp := EvaluateHealth(c.Request.Context(), checks)
		resp.Service = serviceName
		resp.Version = version
		resp.Uptime = time.Since(startOnce.at).Truncate(time.Second).String()

		status := http.StatusOK
		if resp.Status == HealthStatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, resp)
	})
	router.HEAD("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
}

// EvaluateHealth runs every check and folds the results into one status.
func EvaluateHealth(ctx context.Context, checks map[string]HealthChecker) HealthResponse {
	resp := HealthResponse{Status: HealthStatusHealthy}
	if len(checks) == 0 {
		return resp
	}

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	resp.Checks = make(map[string]CheckResult, len(checks))
	for name, check := range checks {
		result := check(ctx)
		resp.Checks[name] = result

		switch result.Status {
		case HealthStatusUnhealthy:
			resp.Status = HealthStatusUnhealthy
		case HealthStatusDegraded:
			if resp.Status == HealthStatusHealthy {
				resp.Status = HealthStatusDegraded
			}
		case HealthStatusHealthy:
		}
	}
	return resp
}
