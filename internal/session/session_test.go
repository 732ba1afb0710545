package session

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/pulsekeeper/internal/repositories/metadata"
	"github.com/dmitrijs2005/pulsekeeper/internal/repositories/owners"

	_ "modernc.org/sqlite"
)

func setupLocal(t *testing.T) (*Local, *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE owners (
  id         TEXT PRIMARY KEY,
  name       TEXT NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)

	l := NewLocal(db, []byte("test-secret"), time.Hour)
	return l, db
}

func TestCurrentOwner_CreatesOwnerOnFirstRun(t *testing.T) {
	l, db := setupLocal(t)
	ctx := context.Background()

	ownerID, err := l.CurrentOwner(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, ownerID)
	require.Len(t, ownerID, 2*ownerIDSize) // hex-кодированный случайный id

	exists, err := owners.NewSQLiteRepository(db).Exists(ctx, ownerID)
	require.NoError(t, err)
	require.True(t, exists)

	tok, err := metadata.NewSQLiteRepository(db).Get(ctx, "session_token")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	// токен должен ссылаться на созданного владельца
	got, err := GetOwnerIDFromToken(string(tok), []byte("test-secret"))
	require.NoError(t, err)
	require.Equal(t, ownerID, got)
}

func TestCurrentOwner_StableAcrossCalls(t *testing.T) {
	l, _ := setupLocal(t)
	ctx := context.Background()

	first, err := l.CurrentOwner(ctx)
	require.NoError(t, err)

	second, err := l.CurrentOwner(ctx)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestCurrentOwner_RecreatesOnInvalidToken(t *testing.T) {
	l, db := setupLocal(t)
	ctx := context.Background()

	meta := metadata.NewSQLiteRepository(db)
	require.NoError(t, meta.Set(ctx, "session_token", []byte("garbage")))

	ownerID, err := l.CurrentOwner(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, ownerID)

	tok, err := meta.Get(ctx, "session_token")
	require.NoError(t, err)
	require.NotEqual(t, []byte("garbage"), tok)

	exists, err := owners.NewSQLiteRepository(db).Exists(ctx, ownerID)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestCurrentOwner_RecreatesWhenOwnerRowGone(t *testing.T) {
	l, db := setupLocal(t)
	ctx := context.Background()

	first, err := l.CurrentOwner(ctx)
	require.NoError(t, err)

	// сносим владельца, токен остаётся
	require.NoError(t, owners.NewSQLiteRepository(db).Delete(ctx, first))

	second, err := l.CurrentOwner(ctx)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	exists, err := owners.NewSQLiteRepository(db).Exists(ctx, second)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestCurrentOwner_ExpiredTokenReplaced(t *testing.T) {
	l, db := setupLocal(t)
	ctx := context.Background()

	first, err := l.CurrentOwner(ctx)
	require.NoError(t, err)

	expired, err := GenerateToken(first, []byte("test-secret"), -time.Minute)
	require.NoError(t, err)
	require.NoError(t, metadata.NewSQLiteRepository(db).Set(ctx, "session_token", []byte(expired)))

	second, err := l.CurrentOwner(ctx)
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestNewOwner_AtomicWithTokenWrite(t *testing.T) {
	l, db := setupLocal(t)
	ctx := context.Background()

	// запись токена обречена: триггер имитирует сбой на второй записи
	_, err := db.Exec(`CREATE TRIGGER metadata_broken BEFORE INSERT ON metadata
BEGIN SELECT RAISE(ABORT, 'metadata unavailable'); END;`)
	require.NoError(t, err)

	_, err = l.CurrentOwner(ctx)
	require.Error(t, err)

	// владелец не должен пережить откат
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM owners`).Scan(&n))
	require.Equal(t, 0, n)
}

func TestReset_DropsStoredState(t *testing.T) {
	l, db := setupLocal(t)
	ctx := context.Background()

	first, err := l.CurrentOwner(ctx)
	require.NoError(t, err)

	meta := metadata.NewSQLiteRepository(db)
	require.NoError(t, meta.Set(ctx, "seal_salt", []byte{1, 2, 3}))

	dropped, err := l.Reset(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"seal_salt", "session_token"}, dropped)

	tok, err := meta.Get(ctx, "session_token")
	require.NoError(t, err)
	require.Nil(t, tok)

	// владелец остаётся в базе, но сессия о нём забыла
	exists, err := owners.NewSQLiteRepository(db).Exists(ctx, first)
	require.NoError(t, err)
	require.True(t, exists)

	second, err := l.CurrentOwner(ctx)
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestReset_EmptyStoreReportsNothing(t *testing.T) {
	l, _ := setupLocal(t)

	dropped, err := l.Reset(context.Background())
	require.NoError(t, err)
	require.Empty(t, dropped)
}
