package driven

import (
	"context"

	"github.com/quarrylabs/quarry-cli/internal/index"
)

// IndexStore persists one index artifact per owner.
// Writes fully replace the previous artifact; a reader never observes a
// partially written one. Keys are partitioned strictly by owner.
type IndexStore interface {
	// Replace atomically swaps in a new artifact for the owner.
	Replace(ctx context.Context, ownerID string, artifact *index.Artifact) error

	// Load returns the owner's current artifact, or domain.ErrNotFound
	// when nothing has been written for that owner yet.
	Load(ctx context.Context, ownerID string) (*index.Artifact, error)
}
