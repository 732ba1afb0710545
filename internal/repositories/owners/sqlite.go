package owners

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pulsekeeper/internal/common"
	"github.com/dmitrijs2005/pulsekeeper/internal/dbx"
	"github.com/dmitrijs2005/pulsekeeper/internal/models"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, owner *models.Owner) error {
	query := `INSERT INTO owners (id, name, created_at) values (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, owner.Id, owner.Name, owner.CreatedAt.UnixMilli())
	if err != nil {
		var se *sqlite.Error
		if errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			return fmt.Errorf("create owner: %w", common.ErrorConstraintViolation)
		}
		return fmt.Errorf("create owner: %w: %v", common.ErrorStorageUnavailable, err)
	}
	return nil
}

func (r *SQLiteRepository) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `select 1 from owners where id=?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("owner exists: %w: %v", common.ErrorStorageUnavailable, err)
	}
	return true, nil
}

// Delete expects exactly one row to be affected; readings cascade via the FK.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `delete from owners where id=?`, id)
	if err != nil {
		return fmt.Errorf("delete owner: %w: %v", common.ErrorStorageUnavailable, err)
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
