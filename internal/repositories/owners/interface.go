package owners

import (
	"context"

	"github.com/dmitrijs2005/pulsekeeper/internal/models"
)

// Repository manages owner profiles. The pipeline never calls it directly;
// it serves the session layer, which is the only writer of owners.
type Repository interface {
	// Create inserts a new owner. Fails with common.ErrorConstraintViolation
	// when the id already exists.
	Create(ctx context.Context, owner *models.Owner) error

	// Exists reports whether the owner id is present.
	Exists(ctx context.Context, id string) (bool, error)

	// Delete removes an owner; the schema cascades the delete to the
	// owner's readings. Returns common.ErrorNotFound when nothing matched.
	Delete(ctx context.Context, id string) error
}
