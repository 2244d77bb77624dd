package registration

import (
	"errors"
	"fmt"
)

// FallbackMessage is shown when a failure carries no message of its own.
const FallbackMessage = "Signup failed"

// Identity service error codes.
const (
	CodeEmailInUse    = "email-already-in-use"
	CodeInvalidEmail  = "invalid-email"
	CodeWeakPassword  = "weak-password"
	CodeInternalError = "internal-error"
)

var (
	// ErrSubmissionInFlight is returned when Register is called while a
	// previous submission is still validating or submitting.
	ErrSubmissionInFlight = errors.New("a submission is already in progress")

	// ErrAlreadyRegistered is returned when Register is called on a service
	// whose submission already succeeded.
	ErrAlreadyRegistered = errors.New("registration already completed")
)

// ValidationError is a local form check failure. No remote call was made.
type ValidationError struct {
	Field   Field
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IdentityError is a failure reported by the identity service.
type IdentityError struct {
	Code    string
	Message string
	Err     error
}

func (e *IdentityError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return FallbackMessage
}

func (e *IdentityError) Unwrap() error {
	return e.Err
}

// ProfileWriteError is a document store failure after the identity was
// created. UID names the identity that now has no profile.
type ProfileWriteError struct {
	UID string
	Err error
}

func (e *ProfileWriteError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("failed to write profile for %s", e.UID)
	}
	return e.Err.Error()
}

func (e *ProfileWriteError) Unwrap() error {
	return e.Err
}

// ProfileNotFoundError is returned when no Users document exists for a uid.
type ProfileNotFoundError struct {
	UID string
}

func (e *ProfileNotFoundError) Error() string {
	return fmt.Sprintf("profile not found: %s", e.UID)
}

// IsProfileNotFound reports whether err is a *ProfileNotFoundError.
func IsProfileNotFound(err error) bool {
	var target *ProfileNotFoundError
	return errors.As(err, &target)
}

// UserMessage maps err to the single line shown under the form.
// Errors with an empty message fall back to FallbackMessage.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var (
		ve *ValidationError
		ie *IdentityError
		pe *ProfileWriteError
	)
	switch {
	case errors.As(err, &ve):
		return orFallback(ve.Message)
	case errors.As(err, &ie):
		return orFallback(ie.Message)
	case errors.As(err, &pe):
		if pe.Err == nil {
			return FallbackMessage
		}
		return orFallback(pe.Err.Error())
	default:
		return orFallback(err.Error())
	}
}

func orFallback(msg string) string {
	if msg == "" {
		return FallbackMessage
	}
	return msg
}
