package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrylabs/quarry-cli/internal/core/domain"
)

func TestNewDocumentStore(t *testing.T) {
	store := NewDocumentStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.documents)
	assert.NotNil(t, store.chunks)
}

func TestDocumentStore_CreateGet(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	doc := &domain.Document{
		ID:          "doc-1",
		OwnerID:     "owner-1",
		Filename:    "notes.txt",
		ContentType: "text/plain",
		Status:      domain.StatusProcessing,
	}
	require.NoError(t, store.CreateDocument(ctx, doc))

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", got.Filename)
	assert.Equal(t, domain.StatusProcessing, got.Status)
}

func TestDocumentStore_GetDocument_NotFound(t *testing.T) {
	store := NewDocumentStore()

	_, err := store.GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_UpdateDocument(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	doc := &domain.Document{ID: "doc-1", OwnerID: "owner-1", Status: domain.StatusProcessing}
	require.NoError(t, store.CreateDocument(ctx, doc))

	n := 4
	doc.Status = domain.StatusReady
	doc.NumChunks = &n
	require.NoError(t, store.UpdateDocument(ctx, doc))

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, got.Status)
	require.NotNil(t, got.NumChunks)
	assert.Equal(t, 4, *got.NumChunks)
}

func TestDocumentStore_UpdateDocument_NotFound(t *testing.T) {
	store := NewDocumentStore()

	err := store.UpdateDocument(context.Background(), &domain.Document{ID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_ListDocuments_NewestFirstAndScoped(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.CreateDocument(ctx, &domain.Document{ID: "a", OwnerID: "owner-1"}))
	require.NoError(t, store.CreateDocument(ctx, &domain.Document{ID: "b", OwnerID: "owner-1"}))
	require.NoError(t, store.CreateDocument(ctx, &domain.Document{ID: "c", OwnerID: "owner-2"}))

	docs, err := store.ListDocuments(ctx, "owner-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "b", docs[0].ID)
	assert.Equal(t, "a", docs[1].ID)
}

func TestDocumentStore_ListDocuments_LimitOffset(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.CreateDocument(ctx, &domain.Document{ID: id, OwnerID: "owner-1"}))
	}

	docs, err := store.ListDocuments(ctx, "owner-1", 1, 1)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "b", docs[0].ID)

	docs, err = store.ListDocuments(ctx, "owner-1", 10, 5)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDocumentStore_DeleteDocument_CascadesChunks(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.CreateDocument(ctx, &domain.Document{ID: "doc-1", OwnerID: "owner-1"}))
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "ch-1", DocumentID: "doc-1", ChunkIndex: 0, Text: "hello"},
	}))

	require.NoError(t, store.DeleteDocument(ctx, "doc-1"))

	_, err := store.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.GetChunk(ctx, "ch-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_ListOwnerChunks_Order(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.CreateDocument(ctx, &domain.Document{ID: "doc-1", OwnerID: "owner-1"}))
	require.NoError(t, store.CreateDocument(ctx, &domain.Document{ID: "doc-2", OwnerID: "owner-1"}))

	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "ch-2a", DocumentID: "doc-2", ChunkIndex: 0, Text: "second doc"},
	}))
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "ch-1a", DocumentID: "doc-1", ChunkIndex: 0, Text: "first doc"},
		{ID: "ch-1b", DocumentID: "doc-1", ChunkIndex: 1, Text: "first doc too"},
	}))

	chunks, err := store.ListOwnerChunks(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, "ch-1a", chunks[0].ID)
	assert.Equal(t, "ch-1b", chunks[1].ID)
	assert.Equal(t, "ch-2a", chunks[2].ID)
}

func TestDocumentStore_SearchChunkIDs(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.CreateDocument(ctx, &domain.Document{ID: "doc-1", OwnerID: "owner-1"}))
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "ch-1", DocumentID: "doc-1", ChunkIndex: 0, Text: "The Whale swims at night."},
		{ID: "ch-2", DocumentID: "doc-1", ChunkIndex: 1, Text: "Nothing relevant here."},
	}))

	ids, err := store.SearchChunkIDs(ctx, "owner-1", []string{"whale"}, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"ch-1"}, ids)

	ids, err = store.SearchChunkIDs(ctx, "owner-1", nil, 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestDocumentStore_SearchChunkIDs_Limit(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.CreateDocument(ctx, &domain.Document{ID: "doc-1", OwnerID: "owner-1"}))
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "ch-1", DocumentID: "doc-1", ChunkIndex: 0, Text: "alpha one"},
		{ID: "ch-2", DocumentID: "doc-1", ChunkIndex: 1, Text: "alpha two"},
		{ID: "ch-3", DocumentID: "doc-1", ChunkIndex: 2, Text: "alpha three"},
	}))

	ids, err := store.SearchChunkIDs(ctx, "owner-1", []string{"alpha"}, 2)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}
