package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Probe errors (PROBE-001 to PROBE-099)
	ErrCodeProbeFailed ErrorCode = "PROBE-001"

	// Consent errors (CONSENT-001 to CONSENT-099)
	ErrCodeConsentDeclined    ErrorCode = "CONSENT-001"
	ErrCodeConsentUnavailable ErrorCode = "CONSENT-002"

	// Execution errors (EXEC-001 to EXEC-099)
	ErrCodeCommandFailed   ErrorCode = "EXEC-001"
	ErrCodeCommandNotFound ErrorCode = "EXEC-002"

	// Installer errors (INSTALL-001 to INSTALL-099)
	ErrCodeInstallFailed    ErrorCode = "INSTALL-001"
	ErrCodeUnknownInstaller ErrorCode = "INSTALL-002"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileWriteFailed ErrorCode = "IO-001"
	ErrCodeDirectoryFailed ErrorCode = "IO-002"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalid ErrorCode = "CONFIG-001"
)

// BootError represents an enhanced error with code, suggestions, and documentation
type BootError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *BootError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *BootError) Unwrap() error {
	return e.Cause
}

// New creates a new BootError
func New(code ErrorCode, message string) *BootError {
	return &BootError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new BootError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *BootError {
	return &BootError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *BootError) WithSuggestion(suggestion string) *BootError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *BootError) WithSuggestions(suggestions ...string) *BootError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *BootError) WithDocs(url string) *BootError {
	e.DocsURL = url
	return e
}

// Common error constructors for frequently used errors

// NewCommandNotFoundError creates an error for a tool binary that could not be started
func NewCommandNotFoundError(path string, cause error) *BootError {
	return Wrap(ErrCodeCommandNotFound, fmt.Sprintf("could not start command: %s", path), cause).
		WithSuggestion("Check that the tool is installed and on your PATH").
		WithSuggestion("Run 'devboot doctor' to see which components are missing")
}

// NewUnknownInstallerError creates an error for an installer name that is not registered
func NewUnknownInstallerError(name string, known []string) *BootError {
	return New(ErrCodeUnknownInstaller, fmt.Sprintf("unknown installer: %s", name)).
		WithSuggestion(fmt.Sprintf("Use one of: %s", strings.Join(known, ", "))).
		WithSuggestion("Run 'devboot list' to see available installers")
}

// NewConsentUnavailableError creates an error for runs that need consent but cannot prompt
func NewConsentUnavailableError(cause error) *BootError {
	return Wrap(ErrCodeConsentUnavailable, "cannot ask for consent without an interactive terminal", cause).
		WithSuggestion("Re-run with --yes to accept third-party terms non-interactively").
		WithSuggestion("Run devboot from an interactive terminal")
}

// NewFileWriteError creates a file write error
func NewFileWriteError(path string, cause error) *BootError {
	return Wrap(ErrCodeFileWriteFailed, fmt.Sprintf("failed to write file: %s", path), cause).
		WithSuggestion("Verify you have write permissions for the directory").
		WithSuggestion("Check available disk space")
}

// NewConfigInvalidError creates a configuration error
func NewConfigInvalidError(path string, cause error) *BootError {
	return Wrap(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", path), cause).
		WithSuggestion("Run 'devboot config view' to inspect the effective configuration").
		WithSuggestion("Check the file syntax and key names")
}
