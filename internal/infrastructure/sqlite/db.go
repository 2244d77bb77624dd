// Package sqlite is the local SQLite backend for medportal. It implements
// the identity service and the document store used by the registration
// flow, plus the listings the orphan report needs.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"golang.org/x/crypto/bcrypt"

	"github.com/kduhealth/medportal/internal/clock"
	"github.com/kduhealth/medportal/internal/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB owns the SQLite connection pool.
type DB struct {
	conn       *sql.DB
	path       string
	clock      clock.Clock
	bcryptCost int
}

// Option configures a DB.
type Option func(*DB)

// WithClock sets the clock used for server timestamps and account creation.
func WithClock(c clock.Clock) Option {
	return func(db *DB) { db.clock = c }
}

// WithBcryptCost sets the password hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(db *DB) { db.bcryptCost = cost }
}

// NewDB opens (creating if needed) the database at path, backs up an
// existing file to path+".bak", and applies pending migrations.
func NewDB(path string, opts ...Option) (*DB, error) {
	db := &DB{
		path:       path,
		clock:      clock.Real{},
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(db)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := backupFile(path, path+".bak"); err != nil {
			return nil, fmt.Errorf("failed to back up database: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.conn = conn

	applied, err := db.migrate(context.Background())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	log.Debug(log.CatDB, "database ready", "path", path, "migrations_applied", applied)

	return db, nil
}

func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "journal_mode(wal)")
	return "file:" + filepath.ToSlash(path) + "?" + q.Encode()
}

func backupFile(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // G304: path comes from config
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600) //nolint:gosec // G304: derived from config path
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// migrate applies embedded migrations newer than the recorded version and
// returns how many ran. Migration files follow golang-migrate naming and are
// read through its iofs source driver.
func (db *DB) migrate(ctx context.Context) (int, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return 0, fmt.Errorf("failed to load migrations: %w", err)
	}
	defer func() { _ = src.Close() }()

	if _, err := db.conn.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at INTEGER NOT NULL
	)`); err != nil {
		return 0, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	var current uint
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}

	applied := 0
	version, err := src.First()
	for err == nil {
		if version > current {
			if err := db.applyMigration(ctx, src, version); err != nil {
				return applied, err
			}
			applied++
		}
		version, err = src.Next(version)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return applied, fmt.Errorf("failed to iterate migrations: %w", err)
	}
	return applied, nil
}

func (db *DB) applyMigration(ctx context.Context, src source.Driver, version uint) error {
	r, identifier, err := src.ReadUp(version)
	if err != nil {
		return fmt.Errorf("failed to read migration %d: %w", version, err)
	}
	defer func() { _ = r.Close() }()

	script, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read migration %d: %w", version, err)
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration %d: %w", version, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, string(script)); err != nil {
		return fmt.Errorf("failed to apply migration %d (%s): %w", version, identifier, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`,
		version, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to record migration %d: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", version, err)
	}

	log.Info(log.CatDB, "applied migration", "version", version, "name", identifier)
	return nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Connection returns the underlying *sql.DB.
func (db *DB) Connection() *sql.DB {
	return db.conn
}

// Path is the database file path.
func (db *DB) Path() string {
	return db.path
}

// Identities returns the identity service backed by this database.
func (db *DB) Identities() *IdentityService {
	return newIdentityService(db.conn, db.clock, db.bcryptCost)
}

// Documents returns the document store backed by this database.
func (db *DB) Documents() *DocumentStore {
	return newDocumentStore(db.conn, db.clock)
}
