package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/pulsekeeper/internal/common"
	"github.com/dmitrijs2005/pulsekeeper/internal/models"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	if err != nil {
		t.Fatalf("tableExists query failed: %v", err)
	}
	return n > 0
}

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{"bare path", "pulse.db", "file:pulse.db?" + defaultPragmas},
		{"file prefix without options", "file:/var/lib/pulse.db", "file:/var/lib/pulse.db?" + defaultPragmas},
		{"explicit options untouched", "file:pulse.db?_pragma=foreign_keys(0)", "file:pulse.db?_pragma=foreign_keys(0)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildDSN(tt.dsn); got != tt.want {
				t.Fatalf("buildDSN(%q) = %q, want %q", tt.dsn, got, tt.want)
			}
		})
	}
}

func TestInitDatabase_FileDSNKeepsPragmas(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "app.db")

	store, err := InitDatabase(ctx, dsn)
	if err != nil {
		t.Fatalf("InitDatabase error: %v", err)
	}
	defer store.Close()

	var mode string
	if err := store.DB.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatalf("journal_mode query failed: %v", err)
	}
	if mode != "wal" {
		t.Fatalf("expected wal journal mode, got %q", mode)
	}

	// внешние ключи должны работать и для file:-формы DSN
	r := &models.Reading{Id: "r-1", OwnerId: "ghost", Value: 1, CreatedAt: time.UnixMilli(1)}
	if err := store.Readings.Insert(ctx, r); !errors.Is(err, common.ErrorConstraintViolation) {
		t.Fatalf("expected constraint violation, got %v", err)
	}
}

func TestInitDatabase_CreatesSchema(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "app.db")

	store, err := InitDatabase(ctx, dsn)
	if err != nil {
		t.Fatalf("InitDatabase error: %v", err)
	}
	defer store.Close()

	if err := store.DB.PingContext(ctx); err != nil {
		t.Fatalf("db.PingContext failed: %v", err)
	}

	for _, table := range []string{"goose_db_version", "owners", "readings", "metadata"} {
		if !tableExists(t, store.DB, table) {
			t.Fatalf("expected %s table to exist after migrations", table)
		}
	}
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "app.db")

	db, err := sql.Open("sqlite", buildDSN(dsn))
	if err != nil {
		t.Fatalf("sql.Open error: %v", err)
	}
	defer db.Close()

	if err := RunMigrations(ctx, db); err != nil {
		t.Fatalf("RunMigrations (first) error: %v", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		t.Fatalf("RunMigrations (second) should be idempotent, got error: %v", err)
	}

	if !tableExists(t, db, "goose_db_version") {
		t.Fatalf("expected goose_db_version table to exist after repeated migrations")
	}
}

func TestInitDatabase_RepositoriesAreWired(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "app.db")

	store, err := InitDatabase(ctx, dsn)
	if err != nil {
		t.Fatalf("InitDatabase error: %v", err)
	}
	defer store.Close()

	owner := &models.Owner{Id: "o-1", Name: "test", CreatedAt: time.Now()}
	if err := store.Owners.Create(ctx, owner); err != nil {
		t.Fatalf("Owners.Create failed: %v", err)
	}

	r := &models.Reading{Id: "r-1", OwnerId: "o-1", Value: 55, CreatedAt: time.UnixMilli(1000)}
	if err := store.Readings.Insert(ctx, r); err != nil {
		t.Fatalf("Readings.Insert failed: %v", err)
	}

	if err := store.Metadata.Set(ctx, "ping", []byte("ok")); err != nil {
		t.Fatalf("Metadata.Set failed: %v", err)
	}

	got, err := store.Readings.GetByID(ctx, "r-1")
	if err != nil {
		t.Fatalf("Readings.GetByID failed: %v", err)
	}
	if got.Value != 55 {
		t.Fatalf("unexpected value: %d", got.Value)
	}
}

func TestInitDatabase_EnforcesForeignKeys(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "app.db")

	store, err := InitDatabase(ctx, dsn)
	if err != nil {
		t.Fatalf("InitDatabase error: %v", err)
	}
	defer store.Close()

	// владельца нет — вставка должна упасть
	r := &models.Reading{Id: "r-1", OwnerId: "ghost", Value: 1, CreatedAt: time.UnixMilli(1)}
	err = store.Readings.Insert(ctx, r)
	if !errors.Is(err, common.ErrorConstraintViolation) {
		t.Fatalf("expected constraint violation, got %v", err)
	}
}

func TestInitDatabase_CreatesParentDir(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "state", "nested", "app.db")

	store, err := InitDatabase(ctx, dsn)
	if err != nil {
		t.Fatalf("error initializing database: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dsn); err != nil {
		t.Errorf("expected the database file to exist: %v", err)
	}
}

func TestInitDatabase_BadPathFails(t *testing.T) {
	ctx := context.Background()

	// родительский каталог занят обычным файлом
	block := filepath.Join(t.TempDir(), "state")
	if err := os.WriteFile(block, []byte("x"), 0o660); err != nil {
		t.Fatalf("error writing file: %v", err)
	}

	_, err := InitDatabase(ctx, filepath.Join(block, "app.db"))
	if err == nil {
		t.Fatalf("expected error for unreachable database path")
	}
}
