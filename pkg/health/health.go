package health

import (
	"context"
	"sync"
	"time"
)

// Status of a check or of the whole service.
type Status string

const (
	StatusUp   Status = "UP"
	StatusDown Status = "DOWN"
)

// CheckResult is the outcome of a single named check.
type CheckResult struct {
	Status  Status         `json:"status"`
	Error   string         `json:"error,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Checker runs one health check.
type Checker interface {
	Check(ctx context.Context) CheckResult
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func(ctx context.Context) CheckResult

func (f CheckerFunc) Check(ctx context.Context) CheckResult {
	return f(ctx)
}

// Response aggregates all check results. Status is DOWN when any check is.
type Response struct {
	Service   string                 `json:"service"`
	Version   string                 `json:"version"`
	Status    Status                 `json:"status"`
	Checks    map[string]CheckResult `json:"checks"`
	Timestamp time.Time              `json:"timestamp"`
}

// Health holds the registered checks for a service.
type Health struct {
	service string
	version string
	timeout time.Duration

	mu     sync.RWMutex
	checks map[string]Checker
}

// HealthOption configures a Health.
type HealthOption func(*Health)

// WithTimeout bounds each individual check.
func WithTimeout(timeout time.Duration) HealthOption {
	return func(h *Health) {
		h.timeout = timeout
	}
}

// New creates a Health checker registry.
func New(service, version string, opts ...HealthOption) *Health {
	h := &Health{
		service: service,
		version: version,
		timeout: 5 * time.Second,
		checks:  make(map[string]Checker),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// AddCheck registers a named check.
func (h *Health) AddCheck(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = checker
}

// Check runs all registered checks and aggregates the result.
func (h *Health) Check(ctx context.Context) Response {
	h.mu.RLock()
	checks := make(map[string]Checker, len(h.checks))
	for name, checker := range h.checks {
		checks[name] = checker
	}
	h.mu.RUnlock()

	response := Response{
		Service:   h.service,
		Version:   h.version,
		Status:    StatusUp,
		Checks:    make(map[string]CheckResult, len(checks)),
		Timestamp: time.Now(),
	}

	for name, checker := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
		result := checker.Check(checkCtx)
		cancel()

		response.Checks[name] = result
		if result.Status == StatusDown {
			response.Status = StatusDown
		}
	}

	return response
}
