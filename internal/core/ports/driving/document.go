package driving

import (
	"context"

	"github.com/quarrylabs/quarry-cli/internal/core/domain"
)

// DocumentManager manages an owner's uploaded documents.
type DocumentManager interface {
	// List returns the owner's documents, newest first.
	List(ctx context.Context, ownerID string, limit, offset int) ([]domain.Document, error)

	// Get retrieves one of the owner's documents.
	// Returns domain.ErrNotFound for other owners' documents.
	Get(ctx context.Context, ownerID, documentID string) (*domain.Document, error)

	// Delete removes a document, cascades its chunks and rebuilds the
	// owner's index. Refused with domain.ErrDocumentProcessing while
	// ingestion is running.
	Delete(ctx context.Context, ownerID, documentID string) error
}

// IndexManager rebuilds an owner's index artifact from the current
// chunk records.
type IndexManager interface {
	// Rebuild fully replaces the owner's artifact.
	Rebuild(ctx context.Context, ownerID string) error
}
