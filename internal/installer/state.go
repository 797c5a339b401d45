package installer

import "fmt"

// State is the lifecycle position of a task within one run
type State string

const (
	StateNotStarted       State = "not_started"
	StateSkipped          State = "skipped"
	StateAlreadySatisfied State = "already_satisfied"
	StateAwaitingConsent  State = "awaiting_consent"
	StateRunning          State = "running"
	StateSucceeded        State = "succeeded"
	StateFailed           State = "failed"
)

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsTerminal reports whether the state is final for the run
func (s State) IsTerminal() bool {
	switch s {
	case StateSkipped, StateAlreadySatisfied, StateSucceeded, StateFailed:
		return true
	default:
		return false
	}
}

// Transition validates a state change and returns the new state
func Transition(from, to State) (State, error) {
	if !isAllowedTransition(from, to) {
		return from, fmt.Errorf("disallowed transition: %s -> %s", from, to)
	}
	return to, nil
}

func isAllowedTransition(from, to State) bool {
	switch from {
	case StateNotStarted:
		// Failed covers probe errors, raised before the task starts.
		return to == StateSkipped || to == StateAlreadySatisfied ||
			to == StateAwaitingConsent || to == StateRunning || to == StateFailed
	case StateAwaitingConsent:
		return to == StateRunning || to == StateFailed
	case StateRunning:
		return to == StateSucceeded || to == StateFailed
	default:
		return false
	}
}
