package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/quarrylabs/quarry-cli/internal/core/domain"
	"github.com/quarrylabs/quarry-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	seq       int
	documents map[string]domain.Document
	docSeq    map[string]int
	chunks    map[string][]domain.Chunk
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		docSeq:    make(map[string]int),
		chunks:    make(map[string][]domain.Chunk),
	}
}

// CreateDocument stores a new document.
func (s *DocumentStore) CreateDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.documents[doc.ID] = *doc
	s.docSeq[doc.ID] = s.seq
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns an owner's documents, newest first.
func (s *DocumentStore) ListDocuments(_ context.Context, ownerID string, limit, offset int) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Document
	for id := range s.documents {
		doc := s.documents[id]
		if doc.OwnerID == ownerID {
			result = append(result, doc)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return s.docSeq[result[i].ID] > s.docSeq[result[j].ID]
	})

	if offset > len(result) {
		offset = len(result)
	}
	result = result[offset:]
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

// UpdateDocument overwrites an existing document.
func (s *DocumentStore) UpdateDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[doc.ID]; !ok {
		return domain.ErrNotFound
	}
	s.documents[doc.ID] = *doc
	return nil
}

// DeleteDocument removes a document and its chunks.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.documents, id)
	delete(s.docSeq, id)
	delete(s.chunks, id)
	return nil
}

// SaveChunks stores a document's full chunk set, replacing any
// previous set.
func (s *DocumentStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	docID := chunks[0].DocumentID
	s.chunks[docID] = chunks
	return nil
}

// GetChunk retrieves a specific chunk by ID.
func (s *DocumentStore) GetChunk(_ context.Context, id string) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, chunks := range s.chunks {
		for _, chunk := range chunks {
			if chunk.ID == id {
				return &chunk, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

// ListOwnerChunks returns the owner's chunks ordered by document
// insertion, then chunk index.
func (s *DocumentStore) ListOwnerChunks(_ context.Context, ownerID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docIDs []string
	for id := range s.documents {
		if s.documents[id].OwnerID == ownerID {
			docIDs = append(docIDs, id)
		}
	}
	sort.Slice(docIDs, func(i, j int) bool {
		return s.docSeq[docIDs[i]] < s.docSeq[docIDs[j]]
	})

	var result []domain.Chunk
	for _, docID := range docIDs {
		result = append(result, s.chunks[docID]...)
	}
	return result, nil
}

// SearchChunkIDs returns the owner's chunks whose text contains any
// keyword, matched case-insensitively.
func (s *DocumentStore) SearchChunkIDs(ctx context.Context, ownerID string, keywords []string, limit int) ([]string, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	chunks, err := s.ListOwnerChunks(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}

	var ids []string
	for _, chunk := range chunks {
		text := strings.ToLower(chunk.Text)
		for _, kw := range lowered {
			if strings.Contains(text, kw) {
				ids = append(ids, chunk.ID)
				break
			}
		}
		if limit > 0 && len(ids) >= limit {
			break
		}
	}
	return ids, nil
}
