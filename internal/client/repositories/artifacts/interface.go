package artifacts

import (
	"context"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
)

// Repository describes the artifact queue. Implementations must surface
// storage failures as common.ErrStoreUnavailable rather than empty results.
type Repository interface {
	// Put inserts or overwrites an artifact by id, all-or-nothing.
	Put(ctx context.Context, a *models.Artifact) error

	// GetAll returns every pending artifact of the kind in insertion order.
	GetAll(ctx context.Context, kind models.Kind) ([]*models.Artifact, error)

	// Remove deletes an artifact. Removing an unknown id is a no-op.
	Remove(ctx context.Context, kind models.Kind, id string) error

	// Count returns the number of pending artifacts of the kind without
	// loading payloads.
	Count(ctx context.Context, kind models.Kind) (int, error)

	// Counts returns all per-kind counts read from one consistent view.
	Counts(ctx context.Context) (models.PendingCounts, error)

	// Snapshot returns the pending artifacts of every kind read from one
	// consistent view.
	Snapshot(ctx context.Context) (map[models.Kind][]*models.Artifact, error)
}
