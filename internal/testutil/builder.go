package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kduhealth/medportal/internal/infrastructure/sqlite"
	"github.com/kduhealth/medportal/internal/registration"
)

// Builder accumulates registrations and runs them against a database.
type Builder struct {
	t       *testing.T
	db      *sqlite.DB
	forms   []registration.Form
	orphans []string
}

// NewBuilder creates a builder for db.
func NewBuilder(t *testing.T, db *sqlite.DB) *Builder {
	t.Helper()
	return &Builder{t: t, db: db}
}

// WithStudent queues a student registration.
func (b *Builder) WithStudent(email string, opts ...FormOption) *Builder {
	b.forms = append(b.forms, StudentForm(email, opts...))
	return b
}

// WithDoctor queues a doctor registration.
func (b *Builder) WithDoctor(email string, opts ...FormOption) *Builder {
	b.forms = append(b.forms, DoctorForm(email, opts...))
	return b
}

// WithOrphan queues an identity that never gets a profile document.
func (b *Builder) WithOrphan(email string) *Builder {
	b.orphans = append(b.orphans, email)
	return b
}

// Seeded is what Build created.
type Seeded struct {
	Registered []registration.Result
	OrphanUIDs []string
}

// Build registers each queued form through a fresh Service, then creates
// the orphaned identities.
func (b *Builder) Build() Seeded {
	b.t.Helper()
	ctx := b.t.Context()

	var out Seeded
	for _, f := range b.forms {
		svc := registration.NewService(registration.Deps{
			Identity: b.db.Identities(),
			Store:    b.db.Documents(),
		})
		res, err := svc.Register(ctx, f)
		require.NoError(b.t, err, "registering %s", f.Email)
		out.Registered = append(out.Registered, res)
	}
	for _, email := range b.orphans {
		cred, err := b.db.Identities().CreateUser(ctx, email, "secret123")
		require.NoError(b.t, err, "creating orphan %s", email)
		out.OrphanUIDs = append(out.OrphanUIDs, cred.UID)
	}
	return out
}

// WithStandardTestData queues two students, one doctor and one orphan.
func (b *Builder) WithStandardTestData() *Builder {
	return b.
		WithStudent("amaya@kdu.ac.lk").
		WithStudent("kasun@kdu.ac.lk", WithName("Kasun", "Fernando")).
		WithDoctor("nimal@kdu.ac.lk").
		WithOrphan("orphan@kdu.ac.lk")
}
