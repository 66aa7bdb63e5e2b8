package driving

import (
	"context"

	"github.com/quarrylabs/quarry-cli/internal/core/domain"
)

// UploadParams carries one document upload.
type UploadParams struct {
	// OwnerID identifies the uploading owner.
	OwnerID string

	// Filename is the original file name; empty defaults to
	// "uploaded.txt".
	Filename string

	// ContentType is the declared MIME type. Only text types are
	// accepted.
	ContentType string

	// Content is the raw upload; must decode as UTF-8.
	Content []byte
}

// Ingestor accepts document uploads and processes them off the request
// path. Upload returns as soon as the document row exists in the
// processing state; the caller must not assume the document is ready
// when the call returns.
type Ingestor interface {
	// Upload validates the input, creates the document in
	// StatusProcessing and enqueues ingestion.
	Upload(ctx context.Context, params UploadParams) (*domain.Document, error)
}
