package registration

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", &ValidationError{Message: MsgPasswordMismatch}, MsgPasswordMismatch},
		{"identity message", &IdentityError{Code: CodeWeakPassword, Message: "Password should be at least 6 characters"}, "Password should be at least 6 characters"},
		{"identity without message", &IdentityError{Code: CodeInternalError}, FallbackMessage},
		{"profile write", &ProfileWriteError{UID: "u", Err: errors.New("permission denied")}, "permission denied"},
		{"profile write without cause", &ProfileWriteError{UID: "u"}, FallbackMessage},
		{"wrapped identity", fmt.Errorf("register: %w", &IdentityError{Message: "taken"}), "taken"},
		{"plain", errors.New("boom"), "boom"},
		{"empty plain", errors.New(""), FallbackMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestProfileWriteError_Unwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := &ProfileWriteError{UID: "u1", Err: cause}
	require.ErrorIs(t, err, cause)
}

func TestIsProfileNotFound(t *testing.T) {
	require.True(t, IsProfileNotFound(fmt.Errorf("lookup: %w", &ProfileNotFoundError{UID: "x"})))
	require.False(t, IsProfileNotFound(errors.New("x")))
}
