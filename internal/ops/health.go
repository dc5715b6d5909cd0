package ops

import (
	"context"
	"sync"
	"time"

	"github.com/tair/affiliate-reviews/pkg/logger"
)

// Health statuses
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc probes one collaborator
type CheckFunc func(ctx context.Context) error

// CheckResult is the outcome of one probe
type CheckResult struct {
	Name      string        `json:"name"`
	Status    string        `json:"status"`
	Latency   time.Duration `json:"latency_ms"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// Report is the overall health of the storefront process
type Report struct {
	Service string                 `json:"service"`
	Status  string                 `json:"status"`
	Checks  map[string]CheckResult `json:"checks"`
	Uptime  time.Duration          `json:"uptime_seconds"`
}

// HealthChecker runs the registered probes
type HealthChecker struct {
	service   string
	checks    map[string]CheckFunc
	startTime time.Time
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(service string) *HealthChecker {
	return &HealthChecker{
		service:   service,
		checks:    make(map[string]CheckFunc),
		startTime: time.Now(),
	}
}

// Register adds a probe. Call it before serving.
func (h *HealthChecker) Register(name string, check CheckFunc) {
	h.checks[name] = check
}

// Check runs a single probe
func (h *HealthChecker) Check(ctx context.Context, name string, check CheckFunc) CheckResult {
	start := time.Now()
	result := CheckResult{
		Name:      name,
		Status:    StatusHealthy,
		Timestamp: start,
	}
	if err := check(ctx); err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
	}
	result.Latency = time.Since(start)
	return result
}

// CheckAll runs every probe concurrently
func (h *HealthChecker) CheckAll(ctx context.Context) Report {
	results := make(map[string]CheckResult, len(h.checks))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, check := range h.checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := h.Check(ctx, name, check)

			mu.Lock()
			results[name] = res
			mu.Unlock()

			if res.Status == StatusHealthy {
				logger.Debug(ctx).
					Str("check", name).
					Dur("latency", res.Latency).
					Msg("Health check passed")
			} else {
				logger.Warn(ctx).
					Str("check", name).
					Str("error", res.Error).
					Msg("Health check failed")
			}
		}()
	}
	wg.Wait()

	return Report{
		Service: h.service,
		Status:  overallStatus(results),
		Checks:  results,
		Uptime:  time.Since(h.startTime),
	}
}

// QuickCheck reports liveness without probing anything
func (h *HealthChecker) QuickCheck() map[string]interface{} {
	return map[string]interface{}{
		"status":    StatusHealthy,
		"service":   h.service,
		"uptime":    time.Since(h.startTime).Seconds(),
		"timestamp": time.Now(),
	}
}

func overallStatus(results map[string]CheckResult) string {
	healthy := 0
	for _, r := range results {
		if r.Status == StatusHealthy {
			healthy++
		}
	}

	switch {
	case healthy == len(results):
		return StatusHealthy
	case healthy > 0:
		return StatusDegraded
	default:
		return StatusUnhealthy
	}
}
