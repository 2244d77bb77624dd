package registration

import (
	"errors"
	"fmt"
	"time"
)

// UsersCollection is the document store collection holding profiles.
const UsersCollection = "Users"

// Document keys in the Users collection.
const (
	KeyUID            = "uid"
	KeyEmail          = "email"
	KeyFirstName      = "firstName"
	KeyLastName       = "lastName"
	KeyRole           = "role"
	KeyCreatedAt      = "createdAt"
	KeySpecialization = "specialization"
)

// Document is a schemaless record written to a collection.
type Document map[string]any

// ServerTimestampValue is the type of the ServerTimestamp sentinel.
type ServerTimestampValue struct{}

// ServerTimestamp asks the document store to fill a field with its own
// clock at write time.
var ServerTimestamp = ServerTimestampValue{}

// IsServerTimestamp reports whether v is the ServerTimestamp sentinel.
func IsServerTimestamp(v any) bool {
	_, ok := v.(ServerTimestampValue)
	return ok
}

// Identity holds the fields shared by every profile.
type Identity struct {
	UID       string
	Email     string
	FirstName string
	LastName  string
}

// Profile is a role-tagged user profile. The concrete types are
// StudentProfile and DoctorProfile.
type Profile interface {
	Role() Role
	Base() Identity
	Document() Document
	isProfile()
}

// StudentProfile is the profile of a student account.
type StudentProfile struct {
	Identity
}

func (StudentProfile) Role() Role { return RoleStudent }

func (p StudentProfile) Base() Identity { return p.Identity }

func (p StudentProfile) Document() Document { return p.Identity.document(RoleStudent) }

func (StudentProfile) isProfile() {}

// DoctorProfile is the profile of a doctor account. Specialization is
// never empty.
type DoctorProfile struct {
	Identity
	Specialization string
}

func (DoctorProfile) Role() Role { return RoleDoctor }

func (p DoctorProfile) Base() Identity { return p.Identity }

func (p DoctorProfile) Document() Document {
	doc := p.Identity.document(RoleDoctor)
	doc[KeySpecialization] = p.Specialization
	return doc
}

func (DoctorProfile) isProfile() {}

func (id Identity) document(role Role) Document {
	return Document{
		KeyUID:       id.UID,
		KeyEmail:     id.Email,
		KeyFirstName: id.FirstName,
		KeyLastName:  id.LastName,
		KeyRole:      string(role),
		KeyCreatedAt: ServerTimestamp,
	}
}

// BuildProfile combines the identity uid with the form fields.
func BuildProfile(uid string, f Form) (Profile, error) {
	if uid == "" {
		return nil, errors.New("uid is required")
	}
	id := Identity{
		UID:       uid,
		Email:     f.Email,
		FirstName: f.FirstName,
		LastName:  f.LastName,
	}
	switch f.UserType {
	case RoleDoctor:
		if f.Specialization == "" {
			return nil, &ValidationError{Field: FieldSpecialization, Message: MsgSpecializationRequired}
		}
		return DoctorProfile{Identity: id, Specialization: f.Specialization}, nil
	case RoleStudent:
		return StudentProfile{Identity: id}, nil
	default:
		return nil, fmt.Errorf("unknown role %q", f.UserType)
	}
}

// StoredDocument is a document read back from a collection.
type StoredDocument struct {
	Ref       DocumentRef
	Data      Document
	CreatedAt time.Time
}

// StoredProfile is a profile together with where and when it was stored.
type StoredProfile struct {
	Profile   Profile
	Ref       DocumentRef
	CreatedAt time.Time
}

// ProfileFromDocument decodes a Users document back into a Profile.
func ProfileFromDocument(doc Document) (Profile, error) {
	str := func(key string) string {
		s, _ := doc[key].(string)
		return s
	}
	role, err := ParseRole(str(KeyRole))
	if err != nil {
		return nil, err
	}
	id := Identity{
		UID:       str(KeyUID),
		Email:     str(KeyEmail),
		FirstName: str(KeyFirstName),
		LastName:  str(KeyLastName),
	}
	if id.UID == "" {
		return nil, errors.New("document has no uid")
	}
	if role == RoleDoctor {
		spec := str(KeySpecialization)
		if spec == "" {
			return nil, fmt.Errorf("doctor profile %s has no specialization", id.UID)
		}
		return DoctorProfile{Identity: id, Specialization: spec}, nil
	}
	return StudentProfile{Identity: id}, nil
}
