package readings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/pulsekeeper/internal/common"
	"github.com/dmitrijs2005/pulsekeeper/internal/dbx"
	"github.com/dmitrijs2005/pulsekeeper/internal/models"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository implements Repository. MarkSynced batches span several
// statements, so the repository holds the root *sql.DB rather than a DBTX.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given handle.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// mapError translates driver failures into the common taxonomy. Context
// cancellation passes through so callers can match it directly.
func mapError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var se *sqlite.Error
	if errors.As(err, &se) {
		// extended result codes carry the primary code in the low byte
		if se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			return fmt.Errorf("%s: %w", op, common.ErrorConstraintViolation)
		}
	}
	return fmt.Errorf("%s: %w: %v", op, common.ErrorStorageUnavailable, err)
}

func (r *SQLiteRepository) Insert(ctx context.Context, rd *models.Reading) error {
	query := `INSERT INTO readings (id, owner_id, value, created_at, ai_text, synced)
			values (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rd.Id, rd.OwnerId, rd.Value, rd.CreatedAt.UnixMilli(), rd.AIText, rd.Synced)
	if err != nil {
		return mapError("insert reading", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Reading, error) {
	query := `select id, owner_id, value, created_at, ai_text, synced from readings where id=?`
	row := r.db.QueryRowContext(ctx, query, id)

	rd, err := scanReading(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, mapError("get reading", err)
	}
	return rd, nil
}

func (r *SQLiteRepository) GetAllUnsynced(ctx context.Context) ([]*models.Reading, error) {
	query := `select id, owner_id, value, created_at, ai_text, synced from readings where synced=0`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError("select unsynced", err)
	}
	defer rows.Close()

	var unsynced []*models.Reading
	for rows.Next() {
		rd, err := scanReading(rows.Scan)
		if err != nil {
			return nil, mapError("scan unsynced", err)
		}
		unsynced = append(unsynced, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("iterate unsynced", err)
	}
	return unsynced, nil
}

// markSyncedChunkSize caps the bound parameters per statement. SQLite
// refuses statements beyond its variable limit, so large backlogs are
// split into chunks.
const markSyncedChunkSize = 500

// MarkSynced flips synced for the given ids inside one transaction, in
// chunks of markSyncedChunkSize, so the batch stays atomic no matter how
// large the backlog grew: either every chunk commits or none do.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for start := 0; start < len(ids); start += markSyncedChunkSize {
			chunk := ids[start:min(start+markSyncedChunkSize, len(ids))]

			placeholders := strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ",")
			args := make([]any, len(chunk))
			for i, id := range chunk {
				args[i] = id
			}

			query := fmt.Sprintf(`update readings set synced=1 where synced=0 and id in (%s)`, placeholders)
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return mapError("mark synced", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateAIText(ctx context.Context, id string, text string) error {
	res, err := r.db.ExecContext(ctx, `update readings set ai_text=? where id=?`, text, id)
	if err != nil {
		return mapError("update ai text", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func scanReading(scan func(dest ...any) error) (*models.Reading, error) {
	rd := &models.Reading{}
	var createdAt int64
	if err := scan(&rd.Id, &rd.OwnerId, &rd.Value, &createdAt, &rd.AIText, &rd.Synced); err != nil {
		return nil, err
	}
	rd.CreatedAt = time.UnixMilli(createdAt)
	return rd, nil
}
