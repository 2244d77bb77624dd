package registration

import (
	"fmt"

	"github.com/samber/lo"
)

// State is a submission lifecycle state.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StateFailed
	StateSucceeded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateFailed:
		return "failed"
	case StateSucceeded:
		return "succeeded"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// InFlight reports whether a submission is running in this state.
func (s State) InFlight() bool {
	return s == StateValidating || s == StateSubmitting
}

var transitions = map[State][]State{
	StateIdle:       {StateValidating},
	StateValidating: {StateSubmitting, StateFailed},
	StateSubmitting: {StateSucceeded, StateFailed},
	StateFailed:     {StateValidating},
	StateSucceeded:  {},
}

// TransitionError reports a transition the state machine does not allow.
type TransitionError struct {
	From State
	To   State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid submission transition %s -> %s", e.From, e.To)
}

// Status is the observable submission state. Loading is true only while
// submitting and Error is set only after a failure.
type Status struct {
	State   State
	Loading bool
	Error   string
}

// Transition returns the status after moving to the given state. msg is the
// failure message and is only used when moving to StateFailed.
//
// Starting a new attempt while one is in flight yields ErrSubmissionInFlight;
// any transition out of StateSucceeded yields ErrAlreadyRegistered.
func (s Status) Transition(to State, msg string) (Status, error) {
	if to == StateValidating {
		switch {
		case s.State.InFlight():
			return s, ErrSubmissionInFlight
		case s.State == StateSucceeded:
			return s, ErrAlreadyRegistered
		}
	}
	if !canTransition(s.State, to) {
		if s.State == StateSucceeded {
			return s, ErrAlreadyRegistered
		}
		return s, &TransitionError{From: s.State, To: to}
	}

	next := Status{State: to}
	switch to {
	case StateSubmitting:
		next.Loading = true
	case StateFailed:
		next.Error = orFallback(msg)
	}
	return next, nil
}

func canTransition(from, to State) bool {
	return lo.Contains(transitions[from], to)
}
