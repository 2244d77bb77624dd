package registration

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultEmailDomain is the institution's sign-up domain.
const DefaultEmailDomain = "kdu.ac.lk"

// Messages shown for local validation failures.
const (
	MsgPasswordMismatch       = "Passwords do not match"
	MsgSpecializationRequired = "Specialization is required for doctors"
	MsgEmailDomain            = "Please use your KDU email address to sign up."
	MsgRoleRequired           = "Please choose Student or Doctor"
)

var formValidator = validator.New(validator.WithRequiredStructEnabled())

// formFields maps Form struct fields to their form names and labels.
var formFields = map[string]struct {
	field Field
	label string
}{
	"FirstName":       {FieldFirstName, "First name"},
	"LastName":        {FieldLastName, "Last name"},
	"Email":           {FieldEmail, "Email"},
	"Password":        {FieldPassword, "Password"},
	"ConfirmPassword": {FieldConfirmPassword, "Confirm password"},
	"UserType":        {FieldUserType, "Role"},
}

// ValidateRequired checks the Form struct tags: every mandatory field has a
// value and the role is student or doctor. It returns the first failing
// field, in form order, as a *ValidationError.
func ValidateRequired(f Form) error {
	err := formValidator.Struct(f)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	ff, ok := formFields[fe.StructField()]
	if !ok {
		return err
	}
	if ff.field == FieldUserType {
		return &ValidationError{Field: FieldUserType, Message: MsgRoleRequired}
	}
	return &ValidationError{Field: ff.field, Message: ff.label + " is required"}
}

// Validate runs the ordered sign-up checks and returns the first failure:
// password confirmation, doctor specialization, then email domain.
// An empty domain means DefaultEmailDomain. Validate has no side effects.
func Validate(f Form, domain string) error {
	if domain == "" {
		domain = DefaultEmailDomain
	}

	if f.Password != f.ConfirmPassword {
		return &ValidationError{Field: FieldConfirmPassword, Message: MsgPasswordMismatch}
	}

	if f.UserType == RoleDoctor && strings.TrimSpace(f.Specialization) == "" {
		return &ValidationError{Field: FieldSpecialization, Message: MsgSpecializationRequired}
	}

	if got, ok := EmailDomain(f.Email); !ok || got != domain {
		return &ValidationError{Field: FieldEmail, Message: MsgEmailDomain}
	}

	return nil
}

// EmailDomain returns the text between the first "@" and the next "@" (or
// the end of the string). ok is false when the address has no "@".
func EmailDomain(email string) (domain string, ok bool) {
	_, rest, found := strings.Cut(email, "@")
	if !found {
		return "", false
	}
	domain, _, _ = strings.Cut(rest, "@")
	return domain, true
}
