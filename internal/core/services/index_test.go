package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrylabs/quarry-cli/internal/adapters/driven/storage/memory"
	"github.com/quarrylabs/quarry-cli/internal/core/domain"
)

func TestIndexer_Load_BuildsLazily(t *testing.T) {
	docStore := memory.NewDocumentStore()
	indexStore := memory.NewIndexStore()
	indexer := NewIndexer(docStore, indexStore)
	ctx := context.Background()

	require.NoError(t, docStore.CreateDocument(ctx, &domain.Document{ID: "doc-1", OwnerID: "owner-1"}))
	require.NoError(t, docStore.SaveChunks(ctx, []domain.Chunk{
		{ID: "ch-1", DocumentID: "doc-1", ChunkIndex: 0, Text: "lazily built index content"},
	}))

	// Nothing replaced yet; Load builds on demand.
	artifact, err := indexer.Load(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"ch-1"}, artifact.ChunkIDs)

	// And the built artifact is now persisted.
	_, err = indexStore.Load(ctx, "owner-1")
	assert.NoError(t, err)
}

func TestIndexer_Rebuild_ReplacesArtifact(t *testing.T) {
	docStore := memory.NewDocumentStore()
	indexStore := memory.NewIndexStore()
	indexer := NewIndexer(docStore, indexStore)
	ctx := context.Background()

	require.NoError(t, docStore.CreateDocument(ctx, &domain.Document{ID: "doc-1", OwnerID: "owner-1"}))
	require.NoError(t, docStore.SaveChunks(ctx, []domain.Chunk{
		{ID: "ch-1", DocumentID: "doc-1", ChunkIndex: 0, Text: "first version"},
	}))
	require.NoError(t, indexer.Rebuild(ctx, "owner-1"))

	require.NoError(t, docStore.SaveChunks(ctx, []domain.Chunk{
		{ID: "ch-1", DocumentID: "doc-1", ChunkIndex: 0, Text: "first version"},
		{ID: "ch-2", DocumentID: "doc-1", ChunkIndex: 1, Text: "second chunk added later"},
	}))
	require.NoError(t, indexer.Rebuild(ctx, "owner-1"))

	artifact, err := indexStore.Load(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"ch-1", "ch-2"}, artifact.ChunkIDs)
}

func TestIndexer_Rebuild_ConcurrentSameOwner(t *testing.T) {
	docStore := memory.NewDocumentStore()
	indexStore := memory.NewIndexStore()
	indexer := NewIndexer(docStore, indexStore)
	ctx := context.Background()

	require.NoError(t, docStore.CreateDocument(ctx, &domain.Document{ID: "doc-1", OwnerID: "owner-1"}))
	require.NoError(t, docStore.SaveChunks(ctx, []domain.Chunk{
		{ID: "ch-1", DocumentID: "doc-1", ChunkIndex: 0, Text: "contended rebuild content"},
	}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, indexer.Rebuild(ctx, "owner-1"))
		}()
	}
	wg.Wait()

	artifact, err := indexStore.Load(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"ch-1"}, artifact.ChunkIDs)
}
