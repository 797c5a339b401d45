// Package exitcode maps devboot errors onto process exit codes.
package exitcode

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/felixgeelhaar/devboot/internal/consent"
	"github.com/felixgeelhaar/devboot/internal/errors"
	"github.com/felixgeelhaar/devboot/internal/exec"
	"github.com/felixgeelhaar/devboot/internal/installer"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, unknown installer, bad config)
	UsageError = 2

	// InstallFailed indicates at least one installer failed
	InstallFailed = 3

	// ConsentDeclined indicates the user did not accept third-party terms
	ConsentDeclined = 4

	// ProbeFailed indicates an installer could not determine its state
	ProbeFailed = 5

	// Interrupted indicates the run was cancelled by a signal (128 + SIGINT)
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code.
// Typed errors are matched first; cobra's untyped usage errors fall back to
// message matching.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	if stderrors.Is(err, context.Canceled) {
		return Interrupted
	}
	if stderrors.Is(err, consent.ErrDeclined) {
		return ConsentDeclined
	}

	var probeErr *installer.ProbeError
	if stderrors.As(err, &probeErr) {
		return ProbeFailed
	}

	var runErr *installer.RunError
	var cmdErr *exec.CommandError
	if stderrors.As(err, &runErr) || stderrors.As(err, &cmdErr) {
		return InstallFailed
	}

	var bootErr *errors.BootError
	if stderrors.As(err, &bootErr) {
		switch bootErr.Code {
		case errors.ErrCodeUnknownInstaller, errors.ErrCodeConfigInvalid:
			return UsageError
		case errors.ErrCodeConsentDeclined:
			return ConsentDeclined
		case errors.ErrCodeProbeFailed:
			return ProbeFailed
		case errors.ErrCodeInstallFailed, errors.ErrCodeCommandFailed, errors.ErrCodeCommandNotFound:
			return InstallFailed
		}
	}

	errMsg := strings.ToLower(err.Error())
	for _, marker := range []string{"invalid flag", "unknown flag", "unknown command", "unknown shorthand flag",
		"required flag", "accepts at most", "accepts between", "requires at least"} {
		if strings.Contains(errMsg, marker) {
			return UsageError
		}
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags, arguments or configuration)"
	case InstallFailed:
		return "One or more installers failed"
	case ConsentDeclined:
		return "Third-party terms were not accepted"
	case ProbeFailed:
		return "Installation state could not be determined"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
