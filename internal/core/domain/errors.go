package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	// Input rejection happens synchronously, before any pipeline work.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotUTF8 indicates upload content that does not decode as UTF-8.
	ErrNotUTF8 = errors.New("file must be UTF-8 text")

	// ErrUnsupportedContentType indicates a non-text upload.
	ErrUnsupportedContentType = errors.New("unsupported content type")

	// ErrDocumentProcessing indicates an operation that must wait for a
	// terminal document state, such as deleting a document whose
	// ingestion is still running.
	ErrDocumentProcessing = errors.New("document is still processing")

	// ErrNoTextContent indicates a decodable upload that produced zero
	// chunks. Recorded as the document's ingest error.
	ErrNoTextContent = errors.New("no text content found after decoding and chunking")
)
