package registration

import (
	"fmt"
	"strings"
)

// Role is the account type chosen on the sign-up form.
type Role string

const (
	RoleStudent Role = "student"
	RoleDoctor  Role = "doctor"
)

// Route targets for the role landing screens and the login placeholder.
const (
	RouteStudent = "/student"
	RouteDoctor  = "/doctor"
	RouteLogin   = "/login"
	RouteSignup  = "/signup"
)

// Roles lists the selectable roles in display order.
func Roles() []Role {
	return []Role{RoleStudent, RoleDoctor}
}

// ParseRole converts a string to a Role (case-insensitive).
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleDoctor:
		return RoleDoctor, nil
	default:
		return "", fmt.Errorf("unknown role %q (expected student or doctor)", s)
	}
}

// Label is the human-readable option text.
func (r Role) Label() string {
	switch r {
	case RoleDoctor:
		return "Doctor"
	case RoleStudent:
		return "Student"
	default:
		return string(r)
	}
}

// Route returns the landing route for the role.
func (r Role) Route() string {
	if r == RoleDoctor {
		return RouteDoctor
	}
	return RouteStudent
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleDoctor
}
