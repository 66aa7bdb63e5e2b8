package driven

import (
	"context"

	"github.com/quarrylabs/quarry-cli/internal/core/domain"
)

// DocumentStore persists documents and chunks.
// Backed by SQLite for durable storage. All reads are partitioned by
// owner identity; no cross-owner visibility is possible through this
// interface.
type DocumentStore interface {
	// CreateDocument stores a new document row.
	CreateDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns an owner's documents, newest first.
	ListDocuments(ctx context.Context, ownerID string, limit, offset int) ([]domain.Document, error)

	// UpdateDocument persists lifecycle mutations (status, num_chunks,
	// ingest_error, processed_at).
	UpdateDocument(ctx context.Context, doc *domain.Document) error

	// DeleteDocument removes a document; its chunks cascade.
	DeleteDocument(ctx context.Context, id string) error

	// SaveChunks stores a document's full chunk set as one atomic batch.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetChunk retrieves a chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// ListOwnerChunks returns the complete chunk set for an owner in a
	// stable, insertion-like order. Index rebuilds read this.
	ListOwnerChunks(ctx context.Context, ownerID string) ([]domain.Chunk, error)

	// SearchChunkIDs returns IDs of the owner's chunks whose text
	// contains any keyword (case-insensitive substring match), capped
	// at limit. Used for hybrid keyword prefiltering.
	SearchChunkIDs(ctx context.Context, ownerID string, keywords []string, limit int) ([]string, error)
}
