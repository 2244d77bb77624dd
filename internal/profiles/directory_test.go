package profiles

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kduhealth/medportal/internal/clock"
	"github.com/kduhealth/medportal/internal/mock"
	"github.com/kduhealth/medportal/internal/registration"
)

type countingFinder struct {
	*mock.Store
	calls int
}

func (c *countingFinder) FindByField(ctx context.Context, collection, field string, value any) ([]registration.StoredDocument, error) {
	c.calls++
	return c.Store.FindByField(ctx, collection, field, value)
}

func seed(t *testing.T) *countingFinder {
	t.Helper()
	at := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	store := mock.NewStore(clock.NewFixed(at))
	p := registration.DoctorProfile{
		Identity:       registration.Identity{UID: "u1", Email: "d@kdu.ac.lk", FirstName: "Nimal", LastName: "Fernando"},
		Specialization: "Pediatrics",
	}
	_, err := store.AddDocument(context.Background(), registration.UsersCollection, p.Document())
	require.NoError(t, err)
	return &countingFinder{Store: store}
}

func TestDirectory_Lookup(t *testing.T) {
	finder := seed(t)
	dir := NewDirectory(finder, time.Minute)

	got, err := dir.Lookup(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, registration.RoleDoctor, got.Profile.Role())
	require.Equal(t, "Nimal", got.Profile.Base().FirstName)
	require.Equal(t, "doc-1", got.Ref.ID)

	_, err = dir.Lookup(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, 1, finder.calls, "second lookup is served from cache")

	dir.Forget(context.Background(), "u1")
	_, err = dir.Lookup(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, 2, finder.calls)
}

func TestDirectory_NotFound(t *testing.T) {
	dir := NewDirectory(seed(t), time.Minute)

	_, err := dir.Lookup(context.Background(), "missing")
	require.True(t, registration.IsProfileNotFound(err))
}

func TestDirectory_ZeroTTLDisablesCache(t *testing.T) {
	finder := seed(t)
	dir := NewDirectory(finder, 0)

	for range 2 {
		_, err := dir.Lookup(context.Background(), "u1")
		require.NoError(t, err)
	}
	require.Equal(t, 2, finder.calls)
}
