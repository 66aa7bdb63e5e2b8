package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrylabs/quarry-cli/internal/adapters/driven/storage/memory"
	"github.com/quarrylabs/quarry-cli/internal/core/domain"
)

func newDocFixture(t *testing.T) (*DocumentService, *memory.DocumentStore, *Indexer) {
	t.Helper()
	docStore := memory.NewDocumentStore()
	indexer := NewIndexer(docStore, memory.NewIndexStore())
	return NewDocumentService(docStore, indexer), docStore, indexer
}

func TestDocumentService_Get_OwnerMismatch(t *testing.T) {
	svc, docStore, _ := newDocFixture(t)
	ctx := context.Background()

	require.NoError(t, docStore.CreateDocument(ctx, &domain.Document{
		ID: "doc-1", OwnerID: "owner-1", Status: domain.StatusReady,
	}))

	_, err := svc.Get(ctx, "owner-2", "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := svc.Get(ctx, "owner-1", "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", got.ID)
}

func TestDocumentService_List(t *testing.T) {
	svc, docStore, _ := newDocFixture(t)
	ctx := context.Background()

	require.NoError(t, docStore.CreateDocument(ctx, &domain.Document{ID: "doc-1", OwnerID: "owner-1"}))
	require.NoError(t, docStore.CreateDocument(ctx, &domain.Document{ID: "doc-2", OwnerID: "owner-1"}))

	docs, err := svc.List(ctx, "owner-1", 10, 0)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestDocumentService_Delete_RefusedWhileProcessing(t *testing.T) {
	svc, docStore, _ := newDocFixture(t)
	ctx := context.Background()

	require.NoError(t, docStore.CreateDocument(ctx, &domain.Document{
		ID: "doc-1", OwnerID: "owner-1", Status: domain.StatusProcessing,
	}))

	err := svc.Delete(ctx, "owner-1", "doc-1")
	assert.ErrorIs(t, err, domain.ErrDocumentProcessing)

	// Still there.
	_, err = svc.Get(ctx, "owner-1", "doc-1")
	assert.NoError(t, err)
}

func TestDocumentService_Delete_OwnerMismatch(t *testing.T) {
	svc, docStore, _ := newDocFixture(t)
	ctx := context.Background()

	require.NoError(t, docStore.CreateDocument(ctx, &domain.Document{
		ID: "doc-1", OwnerID: "owner-1", Status: domain.StatusReady,
	}))

	err := svc.Delete(ctx, "owner-2", "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentService_Delete_CascadesAndRebuilds(t *testing.T) {
	svc, docStore, indexer := newDocFixture(t)
	ctx := context.Background()

	require.NoError(t, docStore.CreateDocument(ctx, &domain.Document{
		ID: "doc-1", OwnerID: "owner-1", Status: domain.StatusReady,
	}))
	require.NoError(t, docStore.SaveChunks(ctx, []domain.Chunk{
		{ID: "ch-1", DocumentID: "doc-1", ChunkIndex: 0, Text: "The whale surfaced at dawn."},
	}))
	require.NoError(t, indexer.Rebuild(ctx, "owner-1"))

	require.NoError(t, svc.Delete(ctx, "owner-1", "doc-1"))

	_, err := docStore.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = docStore.GetChunk(ctx, "ch-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Rebuilt index no longer cites the deleted chunk.
	artifact, err := indexer.Load(ctx, "owner-1")
	require.NoError(t, err)
	assert.True(t, artifact.Empty())
	assert.NotContains(t, artifact.ChunkIDs, "ch-1")
}
