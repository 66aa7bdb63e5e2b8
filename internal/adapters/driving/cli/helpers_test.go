package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quarrylabs/quarry-cli/internal/adapters/driven/storage/memory"
	"github.com/quarrylabs/quarry-cli/internal/core/domain"
	"github.com/quarrylabs/quarry-cli/internal/core/services"
)

// testStack exposes the memory-backed fixtures behind the CLI.
type testStack struct {
	docStore *memory.DocumentStore
	indexer  *services.Indexer
}

// setupTestServices wires the command tree to memory-backed services.
// The returned cleanup must run before the next fixture is created.
func setupTestServices(t *testing.T) (*testStack, func()) {
	t.Helper()

	docStore := memory.NewDocumentStore()
	indexer := services.NewIndexer(docStore, memory.NewIndexStore())

	ingestService = services.NewIngestService(docStore, indexer, 1, 8)
	ingestService.Start()
	queryService = services.NewQueryService(docStore, indexer)
	documentService = services.NewDocumentService(docStore, indexer)
	indexService = indexer
	flagOwner = "test-owner"

	cleanup := func() {
		ingestService.Stop()
		ingestService = nil
		queryService = nil
		documentService = nil
		indexService = nil
		configStore = nil
		flagOwner = ""
	}

	return &testStack{docStore: docStore, indexer: indexer}, cleanup
}

// execute runs the root command with args and captures output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// seedReadyDocument stores a ready document with one indexed chunk.
func seedReadyDocument(t *testing.T, stack *testStack, ownerID, docID, text string) {
	t.Helper()
	ctx := context.Background()

	n := 1
	require.NoError(t, stack.docStore.CreateDocument(ctx, &domain.Document{
		ID:        docID,
		OwnerID:   ownerID,
		Filename:  docID + ".txt",
		Status:    domain.StatusReady,
		NumChunks: &n,
	}))
	require.NoError(t, stack.docStore.SaveChunks(ctx, []domain.Chunk{
		{ID: docID + "-ch-0", DocumentID: docID, ChunkIndex: 0, Text: text},
	}))
	require.NoError(t, stack.indexer.Rebuild(ctx, ownerID))
}
