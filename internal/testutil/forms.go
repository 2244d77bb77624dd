package testutil

import "github.com/kduhealth/medportal/internal/registration"

// FormOption customizes a test form.
type FormOption func(*registration.Form)

// WithName sets the first and last name.
func WithName(first, last string) FormOption {
	return func(f *registration.Form) {
		f.FirstName = first
		f.LastName = last
	}
}

// WithEmail sets the email.
func WithEmail(email string) FormOption {
	return func(f *registration.Form) { f.Email = email }
}

// WithPassword sets both password fields.
func WithPassword(pw string) FormOption {
	return func(f *registration.Form) {
		f.Password = pw
		f.ConfirmPassword = pw
	}
}

// WithSpecialization sets the specialization.
func WithSpecialization(s string) FormOption {
	return func(f *registration.Form) { f.Specialization = s }
}

// StudentForm returns a valid student form for email.
func StudentForm(email string, opts ...FormOption) registration.Form {
	f := registration.Form{
		FirstName:       "Amaya",
		LastName:        "Silva",
		Email:           email,
		Password:        "secret123",
		ConfirmPassword: "secret123",
		UserType:        registration.RoleStudent,
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// DoctorForm returns a valid doctor form for email.
func DoctorForm(email string, opts ...FormOption) registration.Form {
	f := registration.Form{
		FirstName:       "Nimal",
		LastName:        "Perera",
		Email:           email,
		Password:        "secret123",
		ConfirmPassword: "secret123",
		UserType:        registration.RoleDoctor,
		Specialization:  "Cardiology",
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}
