package registration

// Field names a single editable form field.
type Field string

const (
	FieldFirstName       Field = "firstName"
	FieldLastName        Field = "lastName"
	FieldEmail           Field = "email"
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirmPassword"
	FieldUserType        Field = "userType"
	FieldSpecialization  Field = "specialization"
)

// Form is a snapshot of the sign-up form. It is a value type: updates go
// through With and produce a new snapshot.
type Form struct {
	FirstName       string `validate:"required"`
	LastName        string `validate:"required"`
	Email           string `validate:"required"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required"`
	UserType        Role   `validate:"required,oneof=student doctor"`
	Specialization  string
}

// NewForm returns an empty form with the student role selected.
func NewForm() Form {
	return Form{UserType: RoleStudent}
}

// With returns a copy of f with exactly one field replaced.
// An unknown field, or a userType value that is not a known role, leaves the
// form unchanged. Switching the role away from doctor keeps Specialization.
func (f Form) With(field Field, value string) Form {
	switch field {
	case FieldFirstName:
		f.FirstName = value
	case FieldLastName:
		f.LastName = value
	case FieldEmail:
		f.Email = value
	case FieldPassword:
		f.Password = value
	case FieldConfirmPassword:
		f.ConfirmPassword = value
	case FieldUserType:
		if r, err := ParseRole(value); err == nil {
			f.UserType = r
		}
	case FieldSpecialization:
		f.Specialization = value
	}
	return f
}

// Get returns the current value of a field.
func (f Form) Get(field Field) string {
	switch field {
	case FieldFirstName:
		return f.FirstName
	case FieldLastName:
		return f.LastName
	case FieldEmail:
		return f.Email
	case FieldPassword:
		return f.Password
	case FieldConfirmPassword:
		return f.ConfirmPassword
	case FieldUserType:
		return string(f.UserType)
	case FieldSpecialization:
		return f.Specialization
	default:
		return ""
	}
}

// ShowsSpecialization reports whether the specialization input is part of
// the form for the selected role.
func (f Form) ShowsSpecialization() bool {
	return f.UserType == RoleDoctor
}
