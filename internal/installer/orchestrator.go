package installer

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/devboot/internal/log"
	"github.com/felixgeelhaar/devboot/internal/task"
)

const (
	reasonNotApplicable = "not applicable on this host"
	reasonDryRun        = "dry run: would install"
	reasonAborted       = "not run: an earlier installer failed"
	reasonInterrupted   = "not run: interrupted"
)

// Observer is notified around each task the orchestrator visits
type Observer interface {
	TaskStarted(o *Outcome)
	TaskFinished(o *Outcome)
}

// Orchestrator runs installer tasks strictly in order
type Orchestrator struct {
	Observer Observer
	logger   *log.Logger
}

// NewOrchestrator creates an orchestrator logging through logger
func NewOrchestrator(logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Orchestrator{logger: logger}
}

// Run visits every task in order: non-applicable tasks are skipped without
// probing, installed tasks are left alone, and the rest are installed. A
// failure stops the run when tc.Options.StopOnFailure is set. Cancelling ctx
// stops further tasks from starting; a running task is never interrupted.
func (o *Orchestrator) Run(ctx context.Context, tasks []Task, tc *task.Context) *Report {
	report := &Report{
		RunID:     tc.RunID,
		Outcomes:  make([]*Outcome, len(tasks)),
		StartTime: time.Now(),
	}
	for i, t := range tasks {
		report.Outcomes[i] = newOutcome(t)
	}

	logger := o.logger.With("run_id", tc.RunID)
	logger.Info("orchestration started", "tasks", len(tasks))

	for i, t := range tasks {
		outcome := report.Outcomes[i]

		if err := ctx.Err(); err != nil {
			report.Interrupted = err
			markRemaining(report.Outcomes[i:], reasonInterrupted)
			report.Aborted = true
			logger.Warn("orchestration interrupted", "remaining", len(tasks)-i)
			break
		}

		o.visit(t, outcome, tc, logger.With("task", outcome.Name))

		if outcome.State == StateFailed && tc.Options.StopOnFailure && i < len(tasks)-1 {
			markRemaining(report.Outcomes[i+1:], reasonAborted)
			report.Aborted = true
			logger.Warn("orchestration aborted after failure", "failed", outcome.Name, "remaining", len(tasks)-i-1)
			break
		}
	}

	report.EndTime = time.Now()
	logger.Info("orchestration finished",
		"succeeded", len(report.Succeeded()),
		"satisfied", len(report.Satisfied()),
		"skipped", len(report.Skipped()),
		"failed", len(report.Failed()),
		"duration", report.Duration())
	return report
}

func (o *Orchestrator) visit(t Task, outcome *Outcome, tc *task.Context, logger *log.Logger) {
	start := time.Now()
	if o.Observer != nil {
		o.Observer.TaskStarted(outcome)
	}
	defer func() {
		outcome.Duration = time.Since(start)
		if o.Observer != nil {
			o.Observer.TaskFinished(outcome)
		}
	}()

	if !t.IsApplicable() {
		outcome.Reason = reasonNotApplicable
		o.mustAdvance(outcome, StateSkipped, logger)
		logger.Debug("installer skipped", "reason", outcome.Reason)
		return
	}

	installed, err := t.IsInstalled()
	if err != nil {
		o.fail(t, outcome, err, logger)
		return
	}
	if installed {
		o.mustAdvance(outcome, StateAlreadySatisfied, logger)
		logger.Info("already satisfied")
		return
	}

	if tc.Options.DryRun {
		outcome.Reason = reasonDryRun
		o.mustAdvance(outcome, StateSkipped, logger)
		logger.Info("dry run, installer not executed")
		return
	}

	tc.SetHooks(task.Hooks{
		ConsentRequested: func(string) {
			if outcome.State == StateNotStarted {
				o.mustAdvance(outcome, StateAwaitingConsent, logger)
			}
		},
		ConsentResolved: func(_ string, approved bool) {
			if approved && outcome.State == StateAwaitingConsent {
				o.mustAdvance(outcome, StateRunning, logger)
			}
		},
	})
	defer tc.SetHooks(task.Hooks{})

	logger.Info("installing")
	err = runTask(t, tc)

	if outcome.State == StateNotStarted {
		o.mustAdvance(outcome, StateRunning, logger)
	}
	if err != nil {
		o.fail(t, outcome, err, logger)
		return
	}
	o.mustAdvance(outcome, StateSucceeded, logger)
	logger.Info("installed")
}

// runTask converts a panic inside an installer into that task's failure
func runTask(t Task, tc *task.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("installer panicked: %v", r)
		}
	}()
	return t.Run(tc)
}

func (o *Orchestrator) fail(t Task, outcome *Outcome, err error, logger *log.Logger) {
	outcome.Err = err
	outcome.Error = err.Error()
	outcome.Mitigation = t.MitigationMessage()
	if outcome.Mitigation == "" {
		outcome.Mitigation = fmt.Sprintf("%s failed. Re-run with --log-level debug for details.", outcome.Description)
	}
	o.mustAdvance(outcome, StateFailed, logger)
	logger.WithError(err).Error("installer failed", "mitigation", outcome.Mitigation)
}

func (o *Orchestrator) mustAdvance(outcome *Outcome, to State, logger *log.Logger) {
	if err := outcome.advance(to); err != nil {
		// The orchestrator only requests legal edges; keep going but surface it.
		logger.WithError(err).Error("invalid state transition")
	}
}

func markRemaining(outcomes []*Outcome, reason string) {
	for _, o := range outcomes {
		if o.State == StateNotStarted {
			o.Reason = reason
		}
	}
}
