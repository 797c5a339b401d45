// Package installer defines the contract every installation step implements
// and the orchestrator that runs a list of them in order.
//
// An installer wraps one external tool. The orchestrator only ever sees the
// Task interface:
//
//	orch := installer.NewOrchestrator(logger)
//	report := orch.Run(ctx, []installer.Task{sdk, avd, watchman}, tc)
//	if err := report.Err(); err != nil {
//	    for _, o := range report.Failed() {
//	        fmt.Println(o.Mitigation)
//	    }
//	}
package installer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/felixgeelhaar/devboot/internal/task"
)

// Task is a self-contained unit that checks for and installs one external
// dependency.
type Task interface {
	// IsApplicable reports whether the task is relevant on this host.
	// It must be cheap and side-effect free.
	IsApplicable() bool

	// Describe returns the label used in logs and consent prompts.
	Describe() string

	// IsInstalled inspects external state and reports whether the desired
	// end-state already holds. It must not mutate anything. An error means
	// the state could not be determined at all and should be a *ProbeError.
	IsInstalled() (bool, error)

	// MitigationMessage tells the user what to do when Run fails.
	MitigationMessage() string

	// Run performs the installation. The orchestrator only calls it when the
	// task is applicable and not installed.
	Run(tc *task.Context) error
}

// Named is implemented by tasks with a stable selector for the command line
type Named interface {
	Name() string
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// NameOf returns the task's selector: Name() when implemented, otherwise a
// slug of its description.
func NameOf(t Task) string {
	if n, ok := t.(Named); ok && n.Name() != "" {
		return n.Name()
	}
	return strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(t.Describe()), "-"), "-")
}

// Mitigation builds the standard remediation text pointing at url
func Mitigation(t Task, url string) string {
	return fmt.Sprintf("%s failed to install. Install it manually from %s and re-run `devboot install %s`.",
		t.Describe(), url, NameOf(t))
}

// ProbeError reports that IsInstalled could not determine state
type ProbeError struct {
	Task   string
	Reason string
	Err    error
}

// Error implements the error interface
func (e *ProbeError) Error() string {
	msg := fmt.Sprintf("cannot determine whether %s is installed: %s", e.Task, e.Reason)
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *ProbeError) Unwrap() error {
	return e.Err
}

// LogAttrs exposes structured fields to the logger
func (e *ProbeError) LogAttrs() []any {
	return []any{"error_code", "PROBE-001", "probe_reason", e.Reason}
}
