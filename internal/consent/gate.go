// Package consent pauses an installer until the user agrees to third-party
// terms, or approves on their behalf when the run is unattended.
package consent

import (
	stderrors "errors"
	"fmt"

	"github.com/felixgeelhaar/devboot/internal/errors"
	"github.com/felixgeelhaar/devboot/internal/task"
)

// ErrDeclined matches every DeclinedError via errors.Is
var ErrDeclined = stderrors.New("consent declined")

// DeclinedError reports that the user rejected a consent request
type DeclinedError struct {
	Description string
	TermsURL    string
}

// Error implements the error interface
func (e *DeclinedError) Error() string {
	return fmt.Sprintf("%s: terms at %s were not accepted", e.Description, e.TermsURL)
}

// Is makes errors.Is(err, ErrDeclined) true
func (e *DeclinedError) Is(target error) bool {
	return target == ErrDeclined
}

// LogAttrs exposes structured fields to the logger
func (e *DeclinedError) LogAttrs() []any {
	return []any{"error_code", string(errors.ErrCodeConsentDeclined), "terms_url", e.TermsURL}
}

// Describer is the part of an installer the gate needs
type Describer interface {
	Describe() string
}

// Request is what the user is asked to agree to
type Request struct {
	Description string
	TermsURL    string
	Task        Describer
}

// Prompter presents a Request and blocks until the user answers
type Prompter interface {
	Prompt(req Request) (bool, error)
}

// PrompterFunc adapts a function to Prompter
type PrompterFunc func(req Request) (bool, error)

// Prompt implements Prompter
func (f PrompterFunc) Prompt(req Request) (bool, error) { return f(req) }

// Gate resolves consent requests for installers
type Gate struct {
	prompter Prompter
}

// NewGate creates a gate that asks through prompter
func NewGate(prompter Prompter) *Gate {
	return &Gate{prompter: prompter}
}

// Request asks for consent to termsURL on behalf of t. It returns nil when
// approved, a *DeclinedError when refused, and a BootError when no answer
// could be obtained. Each task is asked at most once per run.
func (g *Gate) Request(t Describer, tc *task.Context, termsURL string) error {
	description := t.Describe()

	if _, ok := tc.Approval(description); ok {
		return nil
	}

	tc.NotifyConsentRequested(description)

	if tc.Options.AutoApprove {
		tc.RecordApproval(description, task.Approval{Implicit: true, TermsURL: termsURL})
		tc.NotifyConsentResolved(description, true)
		tc.Log().Info("consent approved implicitly", "task", description, "terms_url", termsURL)
		return nil
	}

	if g == nil || g.prompter == nil {
		tc.NotifyConsentResolved(description, false)
		return errors.NewConsentUnavailableError(fmt.Errorf("no prompter configured"))
	}

	approved, err := g.prompter.Prompt(Request{
		Description: description,
		TermsURL:    termsURL,
		Task:        t,
	})
	if err != nil {
		tc.NotifyConsentResolved(description, false)
		var bootErr *errors.BootError
		if stderrors.As(err, &bootErr) {
			return err
		}
		return errors.NewConsentUnavailableError(err)
	}

	tc.NotifyConsentResolved(description, approved)
	if !approved {
		tc.Log().Warn("consent declined", "task", description, "terms_url", termsURL)
		return &DeclinedError{Description: description, TermsURL: termsURL}
	}

	tc.RecordApproval(description, task.Approval{TermsURL: termsURL})
	tc.Log().Info("consent approved", "task", description, "terms_url", termsURL)
	return nil
}
