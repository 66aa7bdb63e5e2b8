package domain

import "time"

// DocumentStatus tracks a document through its ingestion lifecycle.
type DocumentStatus string

const (
	// StatusProcessing is the entry state, set when the document row is
	// created and kept until ingestion reaches a terminal state.
	StatusProcessing DocumentStatus = "processing"

	// StatusReady means chunking and index rebuild both succeeded.
	StatusReady DocumentStatus = "ready"

	// StatusFailed means ingestion failed; IngestError holds the reason.
	StatusFailed DocumentStatus = "failed"
)

// Terminal reports whether the status is an end state.
// Ready and failed documents are never reprocessed; a new upload
// creates a new document instead.
func (s DocumentStatus) Terminal() bool {
	return s == StatusReady || s == StatusFailed
}

// MaxIngestErrorLen bounds the stored ingestion error message.
const MaxIngestErrorLen = 2000

// Document represents one uploaded text document owned by a single owner.
// It is created in StatusProcessing and mutated only by the ingestion
// pipeline (single writer per document).
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// OwnerID identifies the owner; all reads and index state are
	// partitioned by this value.
	OwnerID string

	// Filename is the name the document was uploaded under.
	Filename string

	// ContentType is the declared MIME type of the upload.
	ContentType string

	// Status is the ingestion lifecycle state.
	Status DocumentStatus

	// NumChunks is the number of chunks produced, set only on success.
	NumChunks *int

	// IngestError holds the failure reason, set only on failure.
	// Truncated to MaxIngestErrorLen.
	IngestError string

	// CreatedAt is when the upload was accepted.
	CreatedAt time.Time

	// ProcessedAt is when ingestion reached the ready state.
	ProcessedAt *time.Time
}

// Deletable reports whether the document may be deleted.
// Deletion is refused while ingestion is still running so a rebuild
// never races a cascade delete.
func (d *Document) Deletable() bool {
	return d.Status.Terminal()
}

// Chunk is a bounded, possibly overlapping segment of a document's text.
// It is the unit of indexing and citation. Chunks are immutable once
// written and are deleted together with their document.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the owning document.
	DocumentID string

	// ChunkIndex is the zero-based position within the document.
	ChunkIndex int

	// Text is the chunk content.
	Text string

	// Metadata contains free-form key-value pairs (filename,
	// chunk index, character length).
	Metadata map[string]any
}

// TruncateIngestError bounds an ingestion failure message to
// MaxIngestErrorLen characters.
func TruncateIngestError(msg string) string {
	runes := []rune(msg)
	if len(runes) <= MaxIngestErrorLen {
		return msg
	}
	return string(runes[:MaxIngestErrorLen])
}
