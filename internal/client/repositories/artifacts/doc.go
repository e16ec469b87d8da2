// Package artifacts provides the durable local queue for captured artifacts.
//
// # Overview
//
// The package defines a Repository interface for queueing, listing, counting
// and removing artifacts (see internal/client/models). A SQLite-backed
// implementation (SQLiteRepository) keeps one table per artifact kind, keyed
// by id. Presence of a row is the pending status: there is no separate sync
// status column, and a row is removed only after the backend confirmed the
// write or the user discarded it.
//
// # Data Model
//
// Every table stores the common artifact columns, a JSON payload document and
// an optional binary content column (media bytes, note audio). Binaries are
// stored as opaque blobs and are never interpreted.
//
// # Failure Semantics
//
// Every database failure is wrapped in common.ErrStoreUnavailable so callers
// can tell "nothing queued" apart from "queue unreadable".
//
// Typical Usage
//
//	repo := artifacts.NewSQLiteRepository(db)
//	_ = repo.Put(ctx, artifact)
//	counts, _ := repo.Counts(ctx)
//	snap, _ := repo.Snapshot(ctx)
//	_ = repo.Remove(ctx, models.KindMedia, id)
package artifacts
