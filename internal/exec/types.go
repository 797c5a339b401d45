package exec

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Mode selects how a command is executed
type Mode int

const (
	// ModeSync runs the command to completion and captures its output
	ModeSync Mode = iota
	// ModeStreamed relays output line by line to a Sink while the command runs
	ModeStreamed
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case ModeStreamed:
		return "streamed"
	default:
		return "sync"
	}
}

// CommandSpec describes a single external command invocation.
// Values are immutable; use Sync or Streamed to build one.
type CommandSpec struct {
	path    string
	args    []string
	mode    Mode
	confirm string
}

// Sync builds a blocking command spec
func Sync(path string, args ...string) CommandSpec {
	return CommandSpec{path: path, args: append([]string(nil), args...), mode: ModeSync}
}

// Streamed builds a long-running command spec whose output is relayed as it arrives
func Streamed(path string, args ...string) CommandSpec {
	return CommandSpec{path: path, args: append([]string(nil), args...), mode: ModeStreamed}
}

// WithConfirm returns a copy of the spec that answers every interactive
// question on stdin with answer, the way `yes <answer> | cmd` would.
func (s CommandSpec) WithConfirm(answer string) CommandSpec {
	s.args = append([]string(nil), s.args...)
	s.confirm = answer
	return s
}

// Path returns the executable path
func (s CommandSpec) Path() string { return s.path }

// Args returns a copy of the argument list
func (s CommandSpec) Args() []string { return append([]string(nil), s.args...) }

// Mode returns the execution mode
func (s CommandSpec) Mode() Mode { return s.mode }

// Confirm returns the pre-supplied answer, or "" when stdin is left alone
func (s CommandSpec) Confirm() string { return s.confirm }

// String renders the command for logs and progress output
func (s CommandSpec) String() string {
	parts := append([]string{filepath.Base(s.path)}, s.args...)
	return strings.Join(parts, " ")
}

// Result represents the outcome of a command
type Result struct {
	ExitCode int
	Output   string
	Duration time.Duration
}

// CommandError reports a command that exited with a non-zero status
type CommandError struct {
	Path     string
	Args     []string
	ExitCode int
	Output   string
}

// Error implements the error interface
func (e *CommandError) Error() string {
	return fmt.Sprintf("%s exited with code %d", filepath.Base(e.Path), e.ExitCode)
}

// LogAttrs exposes structured fields to the logger
func (e *CommandError) LogAttrs() []any {
	return []any{
		"command", filepath.Base(e.Path),
		"args", e.Args,
		"exit_code", e.ExitCode,
	}
}

// Sink receives human-readable output lines
type Sink interface {
	Update(msg string)
}

// RunManifest is the audit record of one command invocation
type RunManifest struct {
	Timestamp    time.Time `json:"timestamp"`
	RunID        string    `json:"run_id,omitempty"`
	Command      []string  `json:"command"`
	Mode         string    `json:"mode"`
	ExitCode     int       `json:"exit_code"`
	Duration     string    `json:"duration"`
	OutputDigest string    `json:"output_digest"`
}
