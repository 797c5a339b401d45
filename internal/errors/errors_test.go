package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeProbeFailed, "test error message")

	if err.Code != ErrCodeProbeFailed {
		t.Errorf("expected code %s, got %s", ErrCodeProbeFailed, err.Code)
	}

	if err.Message != "test error message" {
		t.Errorf("expected message 'test error message', got '%s'", err.Message)
	}

	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("underlying error")
	err := Wrap(ErrCodeCommandFailed, "sdkmanager failed", cause)

	if err.Code != ErrCodeCommandFailed {
		t.Errorf("expected code %s, got %s", ErrCodeCommandFailed, err.Code)
	}

	if err.Cause != cause {
		t.Errorf("expected cause to be set")
	}

	if !errors.Is(err, cause) {
		t.Errorf("Wrap should support errors.Is")
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *BootError
		wantCode string
		wantMsg  string
	}{
		{
			name:     "simple error",
			err:      New(ErrCodeConsentDeclined, "consent declined"),
			wantCode: "CONSENT-001",
			wantMsg:  "consent declined",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeFileWriteFailed, "write failed", fmt.Errorf("permission denied")),
			wantCode: "IO-001",
			wantMsg:  "permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errStr := tt.err.Error()

			if !strings.Contains(errStr, tt.wantCode) {
				t.Errorf("error string should contain code %s, got: %s", tt.wantCode, errStr)
			}

			if !strings.Contains(errStr, tt.wantMsg) {
				t.Errorf("error string should contain message '%s', got: %s", tt.wantMsg, errStr)
			}
		})
	}
}

func TestWithSuggestion(t *testing.T) {
	err := New(ErrCodeInstallFailed, "install failed").
		WithSuggestion("Install it manually")

	if len(err.Suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(err.Suggestions))
	}

	errStr := err.Error()
	if !strings.Contains(errStr, "Suggestions:") {
		t.Errorf("error string should contain suggestions section")
	}

	if !strings.Contains(errStr, "Install it manually") {
		t.Errorf("error string should contain suggestion text")
	}
}

func TestWithSuggestions(t *testing.T) {
	err := New(ErrCodeInstallFailed, "install failed").
		WithSuggestions("Suggestion 1", "Suggestion 2", "Suggestion 3")

	if len(err.Suggestions) != 3 {
		t.Errorf("expected 3 suggestions, got %d", len(err.Suggestions))
	}

	errStr := err.Error()
	for _, suggestion := range err.Suggestions {
		if !strings.Contains(errStr, suggestion) {
			t.Errorf("error string should contain suggestion: %s", suggestion)
		}
	}
}

func TestWithDocs(t *testing.T) {
	docsURL := "https://developer.android.com/studio"
	err := New(ErrCodeInstallFailed, "install failed").WithDocs(docsURL)

	if err.DocsURL != docsURL {
		t.Errorf("expected docs URL %s, got %s", docsURL, err.DocsURL)
	}

	if !strings.Contains(err.Error(), "Documentation: "+docsURL) {
		t.Errorf("error string should contain documentation link")
	}
}

func TestConstructors(t *testing.T) {
	cause := fmt.Errorf("boom")

	tests := []struct {
		name     string
		err      *BootError
		wantCode ErrorCode
		wantText string
	}{
		{
			name:     "command not found",
			err:      NewCommandNotFoundError("/opt/sdk/tools/bin/sdkmanager", cause),
			wantCode: ErrCodeCommandNotFound,
			wantText: "/opt/sdk/tools/bin/sdkmanager",
		},
		{
			name:     "unknown installer",
			err:      NewUnknownInstallerError("gradle", []string{"android-sdk", "watchman"}),
			wantCode: ErrCodeUnknownInstaller,
			wantText: "android-sdk, watchman",
		},
		{
			name:     "consent unavailable",
			err:      NewConsentUnavailableError(cause),
			wantCode: ErrCodeConsentUnavailable,
			wantText: "--yes",
		},
		{
			name:     "file write",
			err:      NewFileWriteError("/home/dev/.android/repositories.cfg", cause),
			wantCode: ErrCodeFileWriteFailed,
			wantText: "repositories.cfg",
		},
		{
			name:     "config invalid",
			err:      NewConfigInvalidError("config.yaml", cause),
			wantCode: ErrCodeConfigInvalid,
			wantText: "config.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, tt.err.Code)
			}
			if !strings.Contains(tt.err.Error(), tt.wantText) {
				t.Errorf("error string should contain %q, got: %s", tt.wantText, tt.err.Error())
			}
			if len(tt.err.Suggestions) == 0 {
				t.Errorf("expected suggestions to be set")
			}
		})
	}
}

func TestErrorsAs(t *testing.T) {
	base := New(ErrCodeProbeFailed, "probe failed")
	wrapped := fmt.Errorf("context: %w", base)

	var bootErr *BootError
	if !errors.As(wrapped, &bootErr) {
		t.Fatal("errors.As should find BootError")
	}
	if bootErr.Code != ErrCodeProbeFailed {
		t.Errorf("expected code %s, got %s", ErrCodeProbeFailed, bootErr.Code)
	}
}
