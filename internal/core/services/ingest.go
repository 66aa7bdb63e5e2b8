package services

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/quarrylabs/quarry-cli/internal/chunker"
	"github.com/quarrylabs/quarry-cli/internal/core/domain"
	"github.com/quarrylabs/quarry-cli/internal/core/ports/driven"
	"github.com/quarrylabs/quarry-cli/internal/core/ports/driving"
	"github.com/quarrylabs/quarry-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// DefaultFilename is used when an upload carries no filename.
const DefaultFilename = "uploaded.txt"

// allowedContentTypes lists the upload types the pipeline accepts.
var allowedContentTypes = map[string]struct{}{
	"text/plain":               {},
	"text/markdown":            {},
	"application/octet-stream": {},
}

// IngestService runs the upload pipeline: accept a file, record it as
// processing, then chunk, persist, and index it in the background.
type IngestService struct {
	docStore driven.DocumentStore
	indexer  *Indexer
	splitter *chunker.Splitter
	queue    *ingestQueue
}

// NewIngestService creates the ingestion service and its background
// queue. Call Start before uploading and Stop on shutdown.
func NewIngestService(docStore driven.DocumentStore, indexer *Indexer, workers, buffer int) *IngestService {
	s := &IngestService{
		docStore: docStore,
		indexer:  indexer,
		splitter: chunker.New(),
	}
	s.queue = newIngestQueue(s.process, workers, buffer)

	return s
}

// Start launches the background workers.
func (s *IngestService) Start() {
	s.queue.Start()
}

// Stop drains queued documents and shuts the workers down.
func (s *IngestService) Stop() {
	s.queue.Stop()
}

// Upload validates the file, records it in the processing state, and
// queues it for background ingestion. The returned document reflects
// the initial state; poll GetDocument for the outcome.
func (s *IngestService) Upload(ctx context.Context, params driving.UploadParams) (*domain.Document, error) {
	if _, ok := allowedContentTypes[params.ContentType]; !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedContentType, params.ContentType)
	}
	if !utf8.Valid(params.Content) {
		return nil, domain.ErrNotUTF8
	}

	filename := params.Filename
	if filename == "" {
		filename = DefaultFilename
	}

	doc := &domain.Document{
		ID:          uuid.NewString(),
		OwnerID:     params.OwnerID,
		Filename:    filename,
		ContentType: params.ContentType,
		Status:      domain.StatusProcessing,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.docStore.CreateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	logger.Info("Accepted %s (%d bytes) as document %s", filename, len(params.Content), doc.ID)

	s.queue.Enqueue(ingestJob{
		documentID: doc.ID,
		ownerID:    params.OwnerID,
		filename:   filename,
		content:    params.Content,
	})

	return doc, nil
}

// process chunks and indexes one uploaded document, then marks it
// ready or failed.
func (s *IngestService) process(ctx context.Context, job ingestJob) error {
	logger.Section("Ingesting " + job.filename)

	doc, err := s.docStore.GetDocument(ctx, job.documentID)
	if err != nil {
		// Deleted before the worker got to it; nothing to do.
		logger.Debug("Document %s vanished before ingestion: %v", job.documentID, err)
		return err
	}

	// Re-enter processing and clear any stale error; safe to repeat.
	doc.Status = domain.StatusProcessing
	doc.IngestError = ""
	if err := s.docStore.UpdateDocument(ctx, doc); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}

	texts := s.splitter.Split(string(job.content))
	if len(texts) == 0 {
		return s.fail(ctx, job.documentID, domain.ErrNoTextContent)
	}

	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{
			ID:         uuid.NewString(),
			DocumentID: job.documentID,
			ChunkIndex: i,
			Text:       text,
			Metadata: map[string]any{
				"filename":    job.filename,
				"chunk_index": i,
				"char_len":    len(text),
			},
		}
	}

	if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
		return s.fail(ctx, job.documentID, fmt.Errorf("save chunks: %w", err))
	}

	if err := s.indexer.Rebuild(ctx, job.ownerID); err != nil {
		return s.fail(ctx, job.documentID, fmt.Errorf("rebuild index: %w", err))
	}

	numChunks := len(chunks)
	now := time.Now().UTC()
	doc.Status = domain.StatusReady
	doc.NumChunks = &numChunks
	doc.IngestError = ""
	doc.ProcessedAt = &now

	if err := s.docStore.UpdateDocument(ctx, doc); err != nil {
		return s.fail(ctx, job.documentID, fmt.Errorf("mark ready: %w", err))
	}

	logger.Info("Document %s ready with %d chunks", job.documentID, numChunks)
	return nil
}

// fail records the terminal failed state. Secondary store errors are
// swallowed so the original cause is what surfaces.
func (s *IngestService) fail(ctx context.Context, documentID string, cause error) error {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		logger.Debug("Could not load document %s to record failure: %v", documentID, err)
		return cause
	}

	doc.Status = domain.StatusFailed
	doc.IngestError = domain.TruncateIngestError(cause.Error())

	if err := s.docStore.UpdateDocument(ctx, doc); err != nil {
		logger.Debug("Could not record failure on document %s: %v", documentID, err)
	}

	return cause
}
