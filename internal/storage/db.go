// Package storage opens the local SQLite database, applies the embedded
// migrations and hands out the repository set everything else works with.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/dmitrijs2005/pulsekeeper/internal/common"
	"github.com/dmitrijs2005/pulsekeeper/internal/filex"
	"github.com/dmitrijs2005/pulsekeeper/internal/repositories/metadata"
	"github.com/dmitrijs2005/pulsekeeper/internal/repositories/owners"
	"github.com/dmitrijs2005/pulsekeeper/internal/repositories/readings"
	"github.com/dmitrijs2005/pulsekeeper/internal/storage/migrations"
)

// Store bundles the open database handle with the repositories bound to it.
type Store struct {
	DB       *sql.DB
	Owners   owners.Repository
	Readings readings.Repository
	Metadata metadata.Repository
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.DB.Close()
}

// isBarePath reports whether dsn is a plain file path rather than a DSN
// with its own options.
func isBarePath(dsn string) bool {
	return !strings.HasPrefix(dsn, "file:") && !strings.Contains(dsn, "?")
}

// defaultPragmas are the connection options every store opens with: WAL for
// concurrent readers, a busy timeout instead of immediate SQLITE_BUSY, and
// enforced foreign keys (the readings cascade depends on them).
const defaultPragmas = "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// buildDSN turns a bare file path into a DSN carrying defaultPragmas. A
// file: DSN without options gets the same pragmas appended; a DSN that
// already carries options passes through untouched.
func buildDSN(dsn string) string {
	if isBarePath(dsn) {
		return "file:" + dsn + "?" + defaultPragmas
	}
	if strings.HasPrefix(dsn, "file:") && !strings.Contains(dsn, "?") {
		return dsn + "?" + defaultPragmas
	}
	return dsn
}

// RunMigrations applies the embedded migrations to db, bringing the schema
// to the latest version. Safe to run repeatedly.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the database at dsn, verifies the
// connection and migrates the schema. For a bare file path the parent
// directory is created first. The returned Store owns the handle.
func InitDatabase(ctx context.Context, dsn string) (*Store, error) {
	if isBarePath(dsn) {
		if err := filex.EnsureParentDir(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", buildDSN(dsn))
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", common.ErrorStorageUnavailable, err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		DB:       db,
		Owners:   owners.NewSQLiteRepository(db),
		Readings: readings.NewSQLiteRepository(db),
		Metadata: metadata.NewSQLiteRepository(db),
	}, nil
}
