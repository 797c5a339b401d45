// Package health implements the read-only checks behind `devboot doctor`.
//
// Every check reports a Result with a Status:
//   - Healthy: the component is present
//   - Degraded: present but not as expected (e.g. an old version)
//   - Unhealthy: missing, or its state could not be determined
//   - Skipped: not relevant on this host
//
// Example usage:
//
//	manager := health.NewManager()
//	for _, t := range registry.All() {
//	    manager.AddChecker(health.NewInstallerChecker(t))
//	}
//	manager.AddChecker(health.NewToolChecker("brew", "https://brew.sh"))
//
//	results := manager.Check(ctx)
//	if manager.OverallStatus(results) != health.StatusHealthy { ... }
package health

import (
	"context"
	"time"
)

// Checker defines the interface for health checks.
type Checker interface {
	// Name returns the unique name of this health check, lowercase with
	// hyphens (e.g. "android-sdk", "brew-binary").
	Name() string

	// Check inspects the component without changing it. It should respect
	// the context deadline.
	Check(ctx context.Context) *Result
}

// Status represents the health check status.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
	// StatusSkipped marks checks that do not apply to this host. It does not
	// affect the overall status.
	StatusSkipped Status = "skipped"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Result represents the result of a health check.
type Result struct {
	// Name is filled in by the Manager from Checker.Name
	Name    string         `json:"name" yaml:"name"`
	Status  Status         `json:"status" yaml:"status"`
	Message string         `json:"message" yaml:"message"`
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
	Latency time.Duration  `json:"latency" yaml:"latency"`
}

// NewResult creates a new health check result with the given status and message.
func NewResult(status Status, message string) *Result {
	return &Result{
		Status:  status,
		Message: message,
		Details: make(map[string]any),
	}
}

// WithDetail adds a detail to the result and returns the result for chaining.
func (r *Result) WithDetail(key string, value any) *Result {
	r.Details[key] = value
	return r
}

// WithLatency sets the latency and returns the result for chaining.
func (r *Result) WithLatency(latency time.Duration) *Result {
	r.Latency = latency
	return r
}

func Healthy(message string) *Result   { return NewResult(StatusHealthy, message) }
func Degraded(message string) *Result  { return NewResult(StatusDegraded, message) }
func Unhealthy(message string) *Result { return NewResult(StatusUnhealthy, message) }
func Skipped(message string) *Result   { return NewResult(StatusSkipped, message) }
