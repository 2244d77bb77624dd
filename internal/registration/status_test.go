package registration

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatus_HappyPath(t *testing.T) {
	var s Status
	require.Equal(t, StateIdle, s.State)

	s, err := s.Transition(StateValidating, "")
	require.NoError(t, err)
	require.False(t, s.Loading)

	s, err = s.Transition(StateSubmitting, "")
	require.NoError(t, err)
	require.True(t, s.Loading)
	require.Empty(t, s.Error)

	s, err = s.Transition(StateSucceeded, "")
	require.NoError(t, err)
	require.False(t, s.Loading)
}

func TestStatus_FailureCarriesMessage(t *testing.T) {
	s := Status{State: StateSubmitting, Loading: true}

	s, err := s.Transition(StateFailed, "The email address is already in use")
	require.NoError(t, err)
	require.False(t, s.Loading)
	require.Equal(t, "The email address is already in use", s.Error)

	// Retrying clears the message.
	s, err = s.Transition(StateValidating, "")
	require.NoError(t, err)
	require.Empty(t, s.Error)
}

func TestStatus_EmptyFailureFallsBack(t *testing.T) {
	s, err := Status{State: StateValidating}.Transition(StateFailed, "")
	require.NoError(t, err)
	require.Equal(t, FallbackMessage, s.Error)
}

func TestStatus_Guards(t *testing.T) {
	for _, st := range []State{StateValidating, StateSubmitting} {
		_, err := Status{State: st}.Transition(StateValidating, "")
		require.ErrorIs(t, err, ErrSubmissionInFlight, st.String())
	}

	_, err := Status{State: StateSucceeded}.Transition(StateValidating, "")
	require.ErrorIs(t, err, ErrAlreadyRegistered)

	_, err = Status{State: StateSucceeded}.Transition(StateFailed, "x")
	require.ErrorIs(t, err, ErrAlreadyRegistered)

	_, err = Status{State: StateIdle}.Transition(StateSubmitting, "")
	var te *TransitionError
	require.ErrorAs(t, err, &te)
	require.Equal(t, StateIdle, te.From)
	require.Equal(t, StateSubmitting, te.To)
}

func TestState_String(t *testing.T) {
	require.Equal(t, "submitting", StateSubmitting.String())
	require.Equal(t, "state(42)", State(42).String())
}
