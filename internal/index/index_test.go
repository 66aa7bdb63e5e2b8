package index

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrylabs/quarry-cli/internal/core/domain"
)

func testChunks() []domain.Chunk {
	return []domain.Chunk{
		{ID: "c1", DocumentID: "d1", ChunkIndex: 0, Text: "The Pequod sailed from Nantucket."},
		{ID: "c2", DocumentID: "d1", ChunkIndex: 1, Text: "Ishmael was the narrator."},
		{ID: "c3", DocumentID: "d1", ChunkIndex: 2, Text: "Captain Ahab commanded the ship."},
	}
}

func TestBuild_EmptyCorpus(t *testing.T) {
	artifact := Build(nil)

	assert.True(t, artifact.Empty())
	assert.Nil(t, artifact.Vectorizer)
	assert.Empty(t, artifact.ChunkIDs)
	assert.Empty(t, artifact.DocIDs)
	assert.NotNil(t, artifact.IDToRow)
}

func TestBuild_RowAlignment(t *testing.T) {
	artifact := Build(testChunks())

	require.False(t, artifact.Empty())
	require.Len(t, artifact.Rows, 3)
	require.Len(t, artifact.ChunkIDs, 3)
	require.Len(t, artifact.DocIDs, 3)

	for i, id := range artifact.ChunkIDs {
		assert.Equal(t, i, artifact.IDToRow[id])
		assert.Equal(t, "d1", artifact.DocIDs[i])
	}
}

func TestBuild_RowsAreUnitVectors(t *testing.T) {
	artifact := Build(testChunks())

	for i, row := range artifact.Rows {
		var norm float64
		for _, w := range row.Weights {
			norm += w * w
		}
		assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9, "row %d should be L2-normalised", i)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	chunks := testChunks()

	a := Build(chunks)
	b := Build(chunks)

	assert.Equal(t, a.ChunkIDs, b.ChunkIDs)
	assert.Equal(t, a.DocIDs, b.DocIDs)
	assert.Equal(t, a.IDToRow, b.IDToRow)

	// Equivalent similarity rankings for a fixed query.
	q1 := a.Vectorizer.Transform("who was the narrator")
	q2 := b.Vectorizer.Transform("who was the narrator")
	for i := range a.Rows {
		assert.InDelta(t, q1.Dot(a.Rows[i]), q2.Dot(b.Rows[i]), 1e-12)
	}
}

func TestTransform_RanksRelevantChunkFirst(t *testing.T) {
	artifact := Build(testChunks())

	query := artifact.Vectorizer.Transform("who is the narrator")

	best, bestScore := -1, 0.0
	for i, row := range artifact.Rows {
		if score := query.Dot(row); score > bestScore {
			best, bestScore = i, score
		}
	}

	require.NotEqual(t, -1, best)
	assert.Equal(t, "c2", artifact.ChunkIDs[best])
	assert.Greater(t, bestScore, 0.0)
}

func TestTransform_OutOfVocabularyYieldsZeroVector(t *testing.T) {
	artifact := Build(testChunks())

	query := artifact.Vectorizer.Transform("xylophone zeppelin quasar")
	assert.Empty(t, query.Dims)

	for _, row := range artifact.Rows {
		assert.Zero(t, query.Dot(row))
	}
}

func TestAnalyze_StopWordsAndBigrams(t *testing.T) {
	terms := analyze("The white whale surfaced")

	assert.Contains(t, terms, "white")
	assert.Contains(t, terms, "whale")
	assert.Contains(t, terms, "white whale")
	assert.NotContains(t, terms, "the")
	// Bigrams are formed after stop-word removal.
	assert.Contains(t, terms, "whale surfaced")
}

func TestAnalyze_ShortTokensDropped(t *testing.T) {
	terms := analyze("x y ab")
	assert.Equal(t, []string{"ab"}, terms)
}

func TestBuild_VocabularyCap(t *testing.T) {
	chunks := make([]domain.Chunk, 20)
	for i := range chunks {
		chunks[i] = domain.Chunk{
			ID:         fmt.Sprintf("c%d", i),
			DocumentID: "d1",
			Text:       fmt.Sprintf("unique%d words recur across chunks", i),
		}
	}

	artifact := Build(chunks, WithMaxVocabulary(10))

	require.NotNil(t, artifact.Vectorizer)
	assert.LessOrEqual(t, len(artifact.Vectorizer.Vocabulary), 10)
	assert.Len(t, artifact.Vectorizer.IDF, len(artifact.Vectorizer.Vocabulary))

	// The corpus-wide frequent terms survive the cap.
	assert.Contains(t, artifact.Vectorizer.Vocabulary, "words")
	assert.Contains(t, artifact.Vectorizer.Vocabulary, "chunks")
}

func TestSparseVector_Dot(t *testing.T) {
	a := SparseVector{Dims: []int{0, 2, 5}, Weights: []float64{1, 2, 3}}
	b := SparseVector{Dims: []int{2, 5, 9}, Weights: []float64{4, 5, 6}}

	assert.InDelta(t, 2*4+3*5, a.Dot(b), 1e-12)
	assert.Zero(t, a.Dot(SparseVector{}))
}
