package index

import (
	"github.com/quarrylabs/quarry-cli/internal/core/domain"
)

// SparseVector is a sparse weight vector with dimensions in ascending
// order. Vectors produced by this package are L2-normalised, so the dot
// product of two vectors is their cosine similarity.
type SparseVector struct {
	Dims    []int
	Weights []float64
}

// Dot returns the inner product of two sparse vectors.
func (a SparseVector) Dot(b SparseVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.Dims) && j < len(b.Dims) {
		switch {
		case a.Dims[i] == b.Dims[j]:
			sum += a.Weights[i] * b.Weights[j]
			i++
			j++
		case a.Dims[i] < b.Dims[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Artifact is the fitted, per-owner index: a vectorizer, one weight row
// per chunk, and the chunk/document identity lists aligned with the
// rows. It is replace-on-write and holds no source-of-truth state.
type Artifact struct {
	// Vectorizer is the fitted weight model, nil for the empty state.
	Vectorizer *Vectorizer

	// Rows holds one weight vector per chunk, aligned with ChunkIDs
	// and DocIDs.
	Rows []SparseVector

	// ChunkIDs lists chunk identities in row order.
	ChunkIDs []string

	// DocIDs lists the owning document identity per row.
	DocIDs []string

	// IDToRow maps a chunk identity to its row for candidate slicing.
	IDToRow map[string]int
}

// Empty reports whether the artifact was built from zero chunks.
// An empty artifact is a valid state, not an error.
func (a *Artifact) Empty() bool {
	return a == nil || a.Vectorizer == nil || len(a.ChunkIDs) == 0
}

// Build fits a replacement artifact over the complete, ordered chunk
// set of one owner. Rebuilding on unchanged chunks yields an equivalent
// artifact: identical alignment and identical similarity rankings.
func Build(chunks []domain.Chunk, opts ...Option) *Artifact {
	options := fitOptions{maxVocabulary: DefaultMaxVocabulary}
	for _, opt := range opts {
		opt(&options)
	}

	if len(chunks) == 0 {
		return &Artifact{IDToRow: map[string]int{}}
	}

	texts := make([]string, len(chunks))
	chunkIDs := make([]string, len(chunks))
	docIDs := make([]string, len(chunks))
	idToRow := make(map[string]int, len(chunks))

	for i, chunk := range chunks {
		texts[i] = chunk.Text
		chunkIDs[i] = chunk.ID
		docIDs[i] = chunk.DocumentID
		idToRow[chunk.ID] = i
	}

	vectorizer, rows := fit(texts, options.maxVocabulary)

	return &Artifact{
		Vectorizer: vectorizer,
		Rows:       rows,
		ChunkIDs:   chunkIDs,
		DocIDs:     docIDs,
		IDToRow:    idToRow,
	}
}
