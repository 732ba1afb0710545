// Package readings provides the persistence layer for pulse readings.
//
// # Overview
//
// The package defines a Repository interface for the write path of the
// pipeline (insert, annotate) and the sync path (fetch unsynced, mark
// synced). A SQLite-backed implementation (SQLiteRepository) persists data
// over the root *sql.DB handle; marking a synced batch runs as its own
// transaction, chunked below the driver's bound-parameter limit.
//
// # Data Model
//
// Each reading stores its owner reference (cascade-deleted with the owner),
// the sampled value, the creation time (Unix milliseconds), an optional
// annotation (ai_text), and a synced flag that only ever transitions
// false → true.
//
// # Concurrency
//
// Implementations are safe for concurrent use when backed by a properly
// configured *sql.DB (WAL journal, busy timeout). SQLite serializes writes;
// reads observe a consistent snapshot.
//
// # Errors
//
// Driver failures are mapped to the common taxonomy at this boundary:
// constraint breaches (duplicate id, missing owner) become
// common.ErrorConstraintViolation, missing rows become common.ErrorNotFound,
// and anything else wraps common.ErrorStorageUnavailable. Context
// cancellation passes through unwrapped.
//
// Key Types
//
//   - type Repository        — interface used by the pipeline and sync task
//   - type SQLiteRepository  — SQLite implementation over *sql.DB
//
// Typical Usage
//
//	repo := readings.NewSQLiteRepository(db)
//	_ = repo.Insert(ctx, reading)
//	unsynced, _ := repo.GetAllUnsynced(ctx)
//	_ = repo.MarkSynced(ctx, ids)
//	_ = repo.UpdateAIText(ctx, id, text)
//
// See also: internal/models for the Reading structure.
package readings
