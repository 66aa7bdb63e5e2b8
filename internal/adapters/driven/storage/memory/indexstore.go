package memory

import (
	"context"
	"sync"

	"github.com/quarrylabs/quarry-cli/internal/core/domain"
	"github.com/quarrylabs/quarry-cli/internal/core/ports/driven"
	"github.com/quarrylabs/quarry-cli/internal/index"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore is an in-memory implementation of driven.IndexStore.
type IndexStore struct {
	mu        sync.RWMutex
	artifacts map[string]*index.Artifact
}

// NewIndexStore creates a new in-memory index store.
func NewIndexStore() *IndexStore {
	return &IndexStore{
		artifacts: make(map[string]*index.Artifact),
	}
}

// Replace swaps the owner's artifact for a new one.
func (s *IndexStore) Replace(_ context.Context, ownerID string, artifact *index.Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts[ownerID] = artifact
	return nil
}

// Load returns the owner's artifact, or domain.ErrNotFound if none has
// been stored.
func (s *IndexStore) Load(_ context.Context, ownerID string) (*index.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	artifact, ok := s.artifacts[ownerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return artifact, nil
}
