// Package testutil provides test helpers for database setup and seeded
// registrations.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kduhealth/medportal/internal/infrastructure/sqlite"
)

// NewTestDB opens a migrated SQLite database in a temp directory. Password
// hashing uses the minimum bcrypt cost. The database is closed on cleanup.
func NewTestDB(t *testing.T, opts ...sqlite.Option) *sqlite.DB {
	t.Helper()
	opts = append([]sqlite.Option{sqlite.WithBcryptCost(bcrypt.MinCost)}, opts...)
	db, err := sqlite.NewDB(filepath.Join(t.TempDir(), "medportal.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
