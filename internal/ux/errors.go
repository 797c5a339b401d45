package ux

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/devboot/internal/consent"
	"github.com/felixgeelhaar/devboot/internal/errors"
	"github.com/felixgeelhaar/devboot/internal/installer"
)

// ErrorWithSuggestion wraps an error with helpful recovery suggestions
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\n💡 Suggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap provides access to the underlying error
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// NewErrorWithSuggestion creates a new error with a suggestion
func NewErrorWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// EnhanceError adds a suggestion for failures users commonly hit while
// bootstrapping. Coded errors already carry suggestions and are returned
// unchanged.
func EnhanceError(err error) error {
	if err == nil {
		return nil
	}

	var bootErr *errors.BootError
	if stderrors.As(err, &bootErr) {
		return err
	}

	if stderrors.Is(err, consent.ErrDeclined) {
		return NewErrorWithSuggestion(err,
			"Re-run with --yes to accept the third-party terms, or install the component manually")
	}

	errMsg := err.Error()

	var probeErr *installer.ProbeError
	if stderrors.As(err, &probeErr) {
		switch {
		case strings.Contains(errMsg, "brew is not on PATH"):
			return NewErrorWithSuggestion(err, "Install Homebrew from https://brew.sh, then try again")
		case strings.Contains(errMsg, "Android SDK location is unknown"):
			return NewErrorWithSuggestion(err,
				"Install Android Studio, or set ANDROID_SDK_ROOT (or android.sdk_root in ~/.devboot/config.yaml)")
		}
	}

	switch {
	case strings.Contains(errMsg, "permission denied"):
		return NewErrorWithSuggestion(err,
			"Check file permissions and ensure you have access to the required files/directories")
	case strings.Contains(errMsg, "no space left on device"):
		return NewErrorWithSuggestion(err,
			"Free up disk space; SDK system images need several gigabytes")
	case strings.Contains(errMsg, "connection refused"),
		strings.Contains(errMsg, "no route to host"),
		strings.Contains(errMsg, "Could not resolve host"):
		return NewErrorWithSuggestion(err,
			"Check your network connection, proxy and firewall settings")
	}

	return err
}

// RunFailure converts a failed install report into a coded error whose
// suggestions are the mitigation messages of the failed installers. It
// returns nil when nothing failed.
func RunFailure(report *installer.Report) error {
	runErr := report.Err()
	if runErr == nil {
		return nil
	}

	bootErr := errors.Wrap(errors.ErrCodeInstallFailed, "install did not complete", runErr)

	var rerr *installer.RunError
	if stderrors.As(runErr, &rerr) {
		bootErr.WithSuggestions(rerr.Mitigations()...)
	}
	if report.Aborted {
		bootErr.WithSuggestion("Use --continue-on-error to run the remaining installers after a failure")
	}
	return bootErr
}

// FormatError provides consistent error formatting with context
func FormatError(err error, context string) error {
	if err == nil {
		return nil
	}

	enhanced := EnhanceError(err)
	if context != "" {
		return fmt.Errorf("%s: %w", context, enhanced)
	}
	return enhanced
}
