// Package exectest provides a scriptable exec.Runner for tests.
package exectest

import (
	"strings"
	"sync"

	"github.com/felixgeelhaar/devboot/internal/exec"
)

// Response is the scripted outcome of a matched command
type Response struct {
	ExitCode int
	Output   string
	// Lines are relayed to the sink for streamed commands
	Lines []string
	// Err, when set, is returned as-is instead of a CommandError
	Err error
}

type rule struct {
	match    string
	response Response
}

// Runner records every CommandSpec it receives and answers from a script.
// Unmatched commands succeed with empty output.
type Runner struct {
	mu    sync.Mutex
	rules []rule
	calls []exec.CommandSpec
}

// New creates an empty Runner
func New() *Runner {
	return &Runner{}
}

// On scripts the response for commands whose rendered form contains match.
// Earlier rules win.
func (r *Runner) On(match string, resp Response) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule{match: match, response: resp})
	return r
}

// Run implements exec.Runner
func (r *Runner) Run(spec exec.CommandSpec, sink exec.Sink) (*exec.Result, error) {
	r.mu.Lock()
	r.calls = append(r.calls, spec)
	resp := r.lookup(spec)
	r.mu.Unlock()

	if resp.Err != nil {
		return nil, resp.Err
	}

	if spec.Mode() == exec.ModeStreamed && sink != nil {
		for _, line := range resp.Lines {
			sink.Update(line)
		}
	}

	output := resp.Output
	if output == "" && len(resp.Lines) > 0 {
		output = strings.Join(resp.Lines, "\n")
	}

	result := &exec.Result{ExitCode: resp.ExitCode, Output: output}
	if resp.ExitCode != 0 {
		return result, &exec.CommandError{
			Path:     spec.Path(),
			Args:     spec.Args(),
			ExitCode: resp.ExitCode,
			Output:   output,
		}
	}
	return result, nil
}

func (r *Runner) lookup(spec exec.CommandSpec) Response {
	rendered := spec.Path() + " " + strings.Join(spec.Args(), " ")
	for _, rl := range r.rules {
		if strings.Contains(rendered, rl.match) {
			return rl.response
		}
	}
	return Response{}
}

// Calls returns the recorded specs in invocation order
func (r *Runner) Calls() []exec.CommandSpec {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]exec.CommandSpec(nil), r.calls...)
}

// Rendered returns the recorded commands as strings
func (r *Runner) Rendered() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

var _ exec.Runner = (*Runner)(nil)
