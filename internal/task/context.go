// Package task carries the per-run state shared by every installer in one
// orchestration run: run options, the progress sink and the consent ledger.
package task

import (
	"github.com/google/uuid"

	"github.com/felixgeelhaar/devboot/internal/log"
)

// Options are the run-wide switches chosen on the command line
type Options struct {
	// AutoApprove accepts every consent prompt without asking
	AutoApprove bool
	// StopOnFailure aborts the run after the first failed installer
	StopOnFailure bool
	// DryRun reports what would be installed without running anything
	DryRun bool
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{StopOnFailure: true}
}

// Sink receives human-readable progress updates
type Sink interface {
	Update(msg string)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(msg string)

// Update implements Sink
func (f SinkFunc) Update(msg string) { f(msg) }

// Discard is a Sink that drops every update
var Discard Sink = SinkFunc(func(string) {})

// LineSink is implemented by sinks that show raw tool output differently
// from step messages
type LineSink interface {
	Line(line string)
}

// Approval records how consent was granted for a task
type Approval struct {
	// Implicit is true when consent came from AutoApprove
	Implicit bool
	TermsURL string
}

// Context is scoped to a single orchestration run and shared by reference
// with every installer invoked during it. It is not safe for concurrent use;
// installers run one at a time. The zero value is usable: it drops progress
// and logs through log.DefaultLogger. Use New to get a run ID.
type Context struct {
	Options  Options
	Progress Sink
	RunID    string
	Logger   *log.Logger

	approvals map[string]Approval
	hooks     Hooks
}

// Hooks lets the orchestrator observe lifecycle points inside Run
type Hooks struct {
	// ConsentRequested fires before a consent prompt is resolved
	ConsentRequested func(description string)
	// ConsentResolved fires once the prompt has an answer
	ConsentResolved func(description string, approved bool)
}

// New creates a run context with a fresh run ID
func New(opts Options, progress Sink, logger *log.Logger) *Context {
	if progress == nil {
		progress = Discard
	}
	if logger == nil {
		logger = log.DefaultLogger()
	}
	runID := uuid.NewString()
	return &Context{
		Options:   opts,
		Progress:  progress,
		RunID:     runID,
		Logger:    logger.With("run_id", runID),
		approvals: make(map[string]Approval),
	}
}

// Update writes a progress message
func (c *Context) Update(msg string) {
	c.sink().Update(msg)
}

// Output returns the sink for command output lines. Lines go to the
// progress sink's Line method when it has one, otherwise to Update.
func (c *Context) Output() Sink {
	sink := c.sink()
	if ls, ok := sink.(LineSink); ok {
		return SinkFunc(ls.Line)
	}
	return sink
}

// Log returns the run logger
func (c *Context) Log() *log.Logger {
	if c.Logger == nil {
		return log.DefaultLogger()
	}
	return c.Logger
}

func (c *Context) sink() Sink {
	if c.Progress == nil {
		return Discard
	}
	return c.Progress
}

// SetHooks installs lifecycle hooks for the duration of the run
func (c *Context) SetHooks(h Hooks) {
	c.hooks = h
}

// NotifyConsentRequested is called by the consent gate before resolving a request
func (c *Context) NotifyConsentRequested(description string) {
	if c.hooks.ConsentRequested != nil {
		c.hooks.ConsentRequested(description)
	}
}

// NotifyConsentResolved is called by the consent gate with the answer
func (c *Context) NotifyConsentResolved(description string, approved bool) {
	if c.hooks.ConsentResolved != nil {
		c.hooks.ConsentResolved(description, approved)
	}
}

// Approval returns the recorded approval for a task description
func (c *Context) Approval(description string) (Approval, bool) {
	a, ok := c.approvals[description]
	return a, ok
}

// RecordApproval stores consent for a task for the rest of the run
func (c *Context) RecordApproval(description string, a Approval) {
	if c.approvals == nil {
		c.approvals = make(map[string]Approval)
	}
	c.approvals[description] = a
}
