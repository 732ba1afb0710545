package readings

import (
	"context"

	"github.com/dmitrijs2005/pulsekeeper/internal/models"
)

// Repository describes the storage operations for Reading objects.
// Implementations are typically backed by a local SQLite database.
type Repository interface {
	// Insert appends one reading. It fails with common.ErrorConstraintViolation
	// when the id collides or the owner does not exist.
	Insert(ctx context.Context, reading *models.Reading) error

	// GetByID returns a reading by its identifier, or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Reading, error)

	// GetAllUnsynced returns all readings not yet delivered to the remote
	// target, in unspecified order, from a consistent snapshot.
	GetAllUnsynced(ctx context.Context) ([]*models.Reading, error)

	// MarkSynced flips synced to true for exactly the given ids that exist
	// and are currently unsynced. Unknown ids are silently ignored: the sync
	// task may race with owner cascade deletes.
	MarkSynced(ctx context.Context, ids []string) error

	// UpdateAIText attaches an annotation to an existing reading. Returns
	// common.ErrorNotFound when the reading is gone; callers treat that as
	// non-fatal.
	UpdateAIText(ctx context.Context, id string, text string) error
}
