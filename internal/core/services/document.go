package services

import (
	"context"
	"fmt"

	"github.com/quarrylabs/quarry-cli/internal/core/domain"
	"github.com/quarrylabs/quarry-cli/internal/core/ports/driven"
	"github.com/quarrylabs/quarry-cli/internal/core/ports/driving"
	"github.com/quarrylabs/quarry-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentManager = (*DocumentService)(nil)

// DocumentService reads and deletes an owner's documents.
type DocumentService struct {
	docStore driven.DocumentStore
	indexer  *Indexer
}

// NewDocumentService creates a document service over the given store.
func NewDocumentService(docStore driven.DocumentStore, indexer *Indexer) *DocumentService {
	return &DocumentService{
		docStore: docStore,
		indexer:  indexer,
	}
}

// List returns the owner's documents, newest first.
func (s *DocumentService) List(ctx context.Context, ownerID string, limit, offset int) ([]domain.Document, error) {
	return s.docStore.ListDocuments(ctx, ownerID, limit, offset)
}

// Get retrieves one of the owner's documents. Documents belonging to a
// different owner come back as domain.ErrNotFound; existence is never
// disclosed across owners.
func (s *DocumentService) Get(ctx context.Context, ownerID, documentID string) (*domain.Document, error) {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}

	return doc, nil
}

// Delete removes a document, cascades its chunks, and rebuilds the
// owner's index so queries stop citing the deleted content. Deleting
// while ingestion is running is refused.
func (s *DocumentService) Delete(ctx context.Context, ownerID, documentID string) error {
	doc, err := s.Get(ctx, ownerID, documentID)
	if err != nil {
		return err
	}
	if !doc.Deletable() {
		return domain.ErrDocumentProcessing
	}

	if err := s.docStore.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if err := s.indexer.Rebuild(ctx, ownerID); err != nil {
		return fmt.Errorf("rebuild index after delete: %w", err)
	}

	logger.Info("Deleted document %s", documentID)
	return nil
}
