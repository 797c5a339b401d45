package installer

import (
	"fmt"
	"strings"
	"time"
)

// Outcome is the result of one task in a run
type Outcome struct {
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description" yaml:"description"`
	State       State         `json:"state" yaml:"state"`
	History     []State       `json:"history" yaml:"history"`
	Reason      string        `json:"reason,omitempty" yaml:"reason,omitempty"`
	Err         error         `json:"-" yaml:"-"`
	Error       string        `json:"error,omitempty" yaml:"error,omitempty"`
	Mitigation  string        `json:"mitigation,omitempty" yaml:"mitigation,omitempty"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
}

func newOutcome(t Task) *Outcome {
	return &Outcome{
		Name:        NameOf(t),
		Description: t.Describe(),
		State:       StateNotStarted,
		History:     []State{StateNotStarted},
	}
}

// advance moves the outcome along a validated transition
func (o *Outcome) advance(to State) error {
	next, err := Transition(o.State, to)
	if err != nil {
		return fmt.Errorf("%s: %w", o.Name, err)
	}
	o.State = next
	o.History = append(o.History, next)
	return nil
}

// Report aggregates the outcomes of one orchestration run
type Report struct {
	RunID     string     `json:"run_id" yaml:"run_id"`
	Outcomes  []*Outcome `json:"outcomes" yaml:"outcomes"`
	StartTime time.Time  `json:"start_time" yaml:"start_time"`
	EndTime   time.Time  `json:"end_time" yaml:"end_time"`
	// Aborted is set when tasks were left unstarted
	Aborted bool `json:"aborted" yaml:"aborted"`
	// Interrupted holds the context error when the run was cancelled
	Interrupted error `json:"-" yaml:"-"`
}

func (r *Report) filter(states ...State) []*Outcome {
	var out []*Outcome
	for _, o := range r.Outcomes {
		for _, s := range states {
			if o.State == s {
				out = append(out, o)
				break
			}
		}
	}
	return out
}

// Succeeded returns tasks that installed successfully
func (r *Report) Succeeded() []*Outcome { return r.filter(StateSucceeded) }

// Satisfied returns tasks that were already installed
func (r *Report) Satisfied() []*Outcome { return r.filter(StateAlreadySatisfied) }

// Skipped returns tasks that did not apply or were dry-run
func (r *Report) Skipped() []*Outcome { return r.filter(StateSkipped) }

// Failed returns tasks that failed
func (r *Report) Failed() []*Outcome { return r.filter(StateFailed) }

// NotRun returns tasks never started because the run stopped early
func (r *Report) NotRun() []*Outcome { return r.filter(StateNotStarted) }

// Duration returns the wall time of the run
func (r *Report) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// Err returns nil when no task failed, otherwise a *RunError
func (r *Report) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	return &RunError{Failures: failed}
}

// RunError lists the failed outcomes of a run
type RunError struct {
	Failures []*Outcome
}

// Error implements the error interface
func (e *RunError) Error() string {
	names := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		names[i] = f.Description
	}
	return fmt.Sprintf("%d installer(s) failed: %s", len(e.Failures), strings.Join(names, ", "))
}

// Unwrap exposes every task error to errors.Is and errors.As
func (e *RunError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errs
}

// Mitigations returns the remediation text of every failure
func (e *RunError) Mitigations() []string {
	out := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		out[i] = f.Mitigation
	}
	return out
}
