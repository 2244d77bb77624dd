package registration_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kduhealth/medportal/internal/clock"
	"github.com/kduhealth/medportal/internal/mock"
	"github.com/kduhealth/medportal/internal/registration"
)

func TestReconciler_FindsOrphanAfterFailedWrite(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Register(context.Background(), doctorForm())
	require.NoError(t, err)

	// Same identity service, but the profile write fails.
	broken := registration.NewService(registration.Deps{Identity: f.identity, Store: failingStore{}})
	_, err = broken.Register(context.Background(), studentForm())
	require.Error(t, err)

	rec := registration.NewReconciler(f.identity, f.store, clock.NewFixed(now))
	report, err := rec.FindOrphans(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, report.Accounts)
	require.Equal(t, 1, report.Profiles)
	require.Len(t, report.Orphans, 1)
	require.Equal(t, "a@kdu.ac.lk", report.Orphans[0].Email)
	require.Equal(t, now, report.GeneratedAt)

	// Reporting never removes anything.
	require.Len(t, f.identity.Emails(), 2)
}

func TestReconciler_NoOrphans(t *testing.T) {
	rec := registration.NewReconciler(mock.NewIdentity(), mock.NewStore(nil), nil)
	report, err := rec.FindOrphans(context.Background())
	require.NoError(t, err)
	require.Empty(t, report.Orphans)
}

type failingStore struct{}

func (failingStore) AddDocument(context.Context, string, registration.Document) (registration.DocumentRef, error) {
	return registration.DocumentRef{}, errors.New("unavailable")
}
