// Package session resolves the owner identity the rest of the application
// works under.
//
// The shipped implementation, Local, keeps a signed JWT in the metadata
// store. On a fresh database it creates an owner row and mints a token;
// on later runs it validates the stored token and hands back the embedded
// owner id. A token that fails validation, or one that points at an owner
// row that no longer exists, is replaced transparently with a fresh owner.
// Reset wipes the stored state for a forced fresh start.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/dmitrijs2005/pulsekeeper/internal/common"
	"github.com/dmitrijs2005/pulsekeeper/internal/dbx"
	"github.com/dmitrijs2005/pulsekeeper/internal/models"
	"github.com/dmitrijs2005/pulsekeeper/internal/repositories/metadata"
	"github.com/dmitrijs2005/pulsekeeper/internal/repositories/owners"
)

// sessionTokenKey is the metadata key the local session token lives under.
const sessionTokenKey = "session_token"

// ownerIDSize is the number of random bytes in a fresh owner id; the id
// itself is their hex encoding, twice as long.
const ownerIDSize = 16

// Provider supplies the owner id the pipeline scopes its readings to.
type Provider interface {
	// CurrentOwner returns a validated owner id. Implementations may create
	// state on first use; repeated calls return a stable id.
	CurrentOwner(ctx context.Context) (string, error)
}

// Local is a Provider backed by the local database: the owner row lives in
// the owners repository and the session token in the metadata repository.
type Local struct {
	db       *sql.DB
	secret   []byte
	tokenTTL time.Duration
}

func NewLocal(db *sql.DB, secret []byte, tokenTTL time.Duration) *Local {
	return &Local{db: db, secret: secret, tokenTTL: tokenTTL}
}

func (l *Local) getMetadataRepo() metadata.Repository {
	return metadata.NewSQLiteRepository(l.db)
}

func (l *Local) getOwnersRepo() owners.Repository {
	return owners.NewSQLiteRepository(l.db)
}

// CurrentOwner validates the stored session token and returns the owner id
// it carries. Storage errors propagate; a missing, expired or otherwise
// invalid token, or a token whose owner row is gone, results in a new owner.
func (l *Local) CurrentOwner(ctx context.Context) (string, error) {
	raw, err := l.getMetadataRepo().Get(ctx, sessionTokenKey)
	if err != nil {
		return "", fmt.Errorf("failed to load session token: %w", err)
	}

	if raw != nil {
		ownerID, err := GetOwnerIDFromToken(string(raw), l.secret)
		if err == nil {
			exists, err := l.getOwnersRepo().Exists(ctx, ownerID)
			if err != nil {
				return "", err
			}
			if exists {
				return ownerID, nil
			}
		}
	}

	return l.newOwner(ctx)
}

// newOwner mints an owner with a random hex id and a token for it. The owner
// row and the stored token land in one transaction: a failure on either
// write leaves no trace of the other.
func (l *Local) newOwner(ctx context.Context) (string, error) {
	name, err := os.Hostname()
	if err != nil {
		name = "local"
	}

	id, err := common.MakeRandHexString(ownerIDSize)
	if err != nil {
		return "", fmt.Errorf("failed to generate owner id: %w", err)
	}

	owner := &models.Owner{
		Id:        id,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	token, err := GenerateToken(owner.Id, l.secret, l.tokenTTL)
	if err != nil {
		return "", err
	}

	err = dbx.WithTx(ctx, l.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := owners.NewSQLiteRepository(tx).Create(ctx, owner); err != nil {
			return fmt.Errorf("failed to create owner: %w", err)
		}
		if err := metadata.NewSQLiteRepository(tx).Set(ctx, sessionTokenKey, []byte(token)); err != nil {
			return fmt.Errorf("failed to store session token: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return owner.Id, nil
}

// Reset wipes the metadata store: the session token and whatever else the
// application put there. Owner rows and readings stay untouched; the next
// CurrentOwner call mints a fresh owner. The dropped keys are returned so
// the caller can report what a reset actually removed.
func (l *Local) Reset(ctx context.Context) ([]string, error) {
	meta := l.getMetadataRepo()

	state, err := meta.List(ctx)
	if err != nil {
		return nil, err
	}

	if err := meta.Clear(ctx); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(state))
	for key := range state {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys, nil
}
