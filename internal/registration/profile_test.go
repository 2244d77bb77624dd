package registration

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestBuildProfile_Student(t *testing.T) {
	f := validStudent().With(FieldSpecialization, "left over from doctor")

	p, err := BuildProfile("u1", f)
	require.NoError(t, err)
	require.IsType(t, StudentProfile{}, p)

	doc := p.Document()
	require.Equal(t, "u1", doc[KeyUID])
	require.Equal(t, "student", doc[KeyRole])
	require.NotContains(t, doc, KeySpecialization)
	require.True(t, IsServerTimestamp(doc[KeyCreatedAt]))
}

func TestBuildProfile_Doctor(t *testing.T) {
	f := validStudent().With(FieldUserType, "doctor").With(FieldSpecialization, "Cardiology")

	p, err := BuildProfile("u2", f)
	require.NoError(t, err)
	dp, ok := p.(DoctorProfile)
	require.True(t, ok)
	require.Equal(t, "Cardiology", dp.Specialization)
	require.Equal(t, "Cardiology", p.Document()[KeySpecialization])
	require.Equal(t, RouteDoctor, p.Role().Route())
}

func TestBuildProfile_Errors(t *testing.T) {
	_, err := BuildProfile("", validStudent())
	require.Error(t, err)

	_, err = BuildProfile("u", validStudent().With(FieldUserType, "doctor"))
	require.Error(t, err)
}

func TestProfileFromDocument_RoundTrip(t *testing.T) {
	want := DoctorProfile{
		Identity:       Identity{UID: "u3", Email: "d@kdu.ac.lk", FirstName: "Nimal", LastName: "Fernando"},
		Specialization: "General Medicine",
	}
	got, err := ProfileFromDocument(want.Document())
	require.NoError(t, err)
	require.Equal(t, want, got)

	_, err = ProfileFromDocument(Document{KeyUID: "u", KeyRole: "nurse"})
	require.Error(t, err)
	_, err = ProfileFromDocument(Document{KeyUID: "u", KeyRole: "doctor"})
	require.Error(t, err)
}

func TestDocument_SpecializationIffDoctor(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := formGen().Draw(t, "form")
		if f.UserType == RoleDoctor && f.Specialization == "" {
			f.Specialization = "Oncology"
		}
		p, err := BuildProfile("uid", f)
		require.NoError(t, err)

		spec, has := p.Document()[KeySpecialization]
		require.Equal(t, f.UserType == RoleDoctor, has)
		if has {
			require.NotEmpty(t, spec)
		}
	})
}
