package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/quarrylabs/quarry-cli/internal/core/domain"
	"github.com/quarrylabs/quarry-cli/internal/core/ports/driven"
	"github.com/quarrylabs/quarry-cli/internal/core/ports/driving"
	"github.com/quarrylabs/quarry-cli/internal/index"
	"github.com/quarrylabs/quarry-cli/internal/logger"
)

// Ensure Indexer implements the interface.
var _ driving.IndexManager = (*Indexer)(nil)

// Indexer builds and replaces per-owner index artifacts.
// Rebuilds for the same owner are serialised through a keyed mutex:
// the artifact is a single mutable resource per owner, and concurrent
// rebuilds would race over which chunk snapshot wins.
type Indexer struct {
	docStore      driven.DocumentStore
	indexStore    driven.IndexStore
	maxVocabulary int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// IndexerOption configures the indexer.
type IndexerOption func(*Indexer)

// WithMaxVocabulary caps the fitted vocabulary size.
func WithMaxVocabulary(n int) IndexerOption {
	return func(ix *Indexer) {
		if n > 0 {
			ix.maxVocabulary = n
		}
	}
}

// NewIndexer creates an indexer over the given stores.
func NewIndexer(docStore driven.DocumentStore, indexStore driven.IndexStore, opts ...IndexerOption) *Indexer {
	ix := &Indexer{
		docStore:      docStore,
		indexStore:    indexStore,
		maxVocabulary: index.DefaultMaxVocabulary,
		locks:         make(map[string]*sync.Mutex),
	}

	for _, opt := range opts {
		opt(ix)
	}

	return ix
}

// Rebuild re-derives the owner's artifact from the current chunk
// records and replaces the stored one. It always reads the full chunk
// set, never a delta, which makes rebuilding idempotent.
func (ix *Indexer) Rebuild(ctx context.Context, ownerID string) error {
	lock := ix.ownerLock(ownerID)
	lock.Lock()
	defer lock.Unlock()

	return ix.rebuildLocked(ctx, ownerID)
}

// rebuildLocked performs the rebuild; the owner lock must be held.
func (ix *Indexer) rebuildLocked(ctx context.Context, ownerID string) error {
	chunks, err := ix.docStore.ListOwnerChunks(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("list owner chunks: %w", err)
	}

	artifact := index.Build(chunks, index.WithMaxVocabulary(ix.maxVocabulary))

	if err := ix.indexStore.Replace(ctx, ownerID, artifact); err != nil {
		return fmt.Errorf("replace index: %w", err)
	}

	logger.Debug("Rebuilt index for owner %s: %d chunks", ownerID, len(artifact.ChunkIDs))
	return nil
}

// Load returns the owner's artifact, lazily building one when nothing
// has been written yet. Querying an owner with no index data therefore
// never fails with a missing-index error.
func (ix *Indexer) Load(ctx context.Context, ownerID string) (*index.Artifact, error) {
	artifact, err := ix.indexStore.Load(ctx, ownerID)
	if err == nil {
		return artifact, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("load index: %w", err)
	}

	lock := ix.ownerLock(ownerID)
	lock.Lock()
	defer lock.Unlock()

	// Another goroutine may have built it while we waited.
	if artifact, err := ix.indexStore.Load(ctx, ownerID); err == nil {
		return artifact, nil
	}

	if err := ix.rebuildLocked(ctx, ownerID); err != nil {
		return nil, err
	}

	artifact, err = ix.indexStore.Load(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load index after build: %w", err)
	}
	return artifact, nil
}

// ownerLock returns the serialisation point for one owner's rebuilds.
func (ix *Indexer) ownerLock(ownerID string) *sync.Mutex {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	lock, ok := ix.locks[ownerID]
	if !ok {
		lock = &sync.Mutex{}
		ix.locks[ownerID] = lock
	}
	return lock
}
