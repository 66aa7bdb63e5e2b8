package domain

// Query bounds. Questions outside these limits are rejected before any
// index work starts.
const (
	MinQuestionLen = 3
	MaxQuestionLen = 2000

	// MaxTopK is the largest number of citations a query may request.
	MaxTopK = 20

	// DefaultTopK is used when the caller does not request a count.
	DefaultTopK = 5
)

// QueryOptions configures a retrieval query.
type QueryOptions struct {
	// TopK is the maximum number of citations returned.
	// Zero means DefaultTopK.
	TopK int

	// CandidateChunkIDs optionally restricts scoring to a subset of
	// chunks. Unknown IDs are dropped silently.
	CandidateChunkIDs []string

	// Dedupe suppresses near-identical citations by normalized
	// snippet hash.
	Dedupe bool
}

// DefaultQueryOptions returns the options used when the caller
// specifies nothing.
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{TopK: DefaultTopK, Dedupe: true}
}

// Citation is a single ranked retrieval result. Citations are transient:
// they reference a chunk but are never persisted.
type Citation struct {
	// ChunkID is the cited chunk.
	ChunkID string

	// DocumentID is the document owning the chunk.
	DocumentID string

	// Score is the cosine similarity against the query.
	// Non-negative, not guaranteed bounded above.
	Score float64

	// Snippet is a whitespace-collapsed, length-bounded display excerpt.
	Snippet string
}

// AbstentionPolicy decides when an answer should be withheld because
// retrieval confidence is too low. Both thresholds come from
// configuration, not code.
type AbstentionPolicy struct {
	// MinScore is the absolute floor for the top citation's score.
	MinScore float64

	// MinGap is the minimum separation between the top two scores.
	MinGap float64
}

// DefaultAbstentionPolicy mirrors the tuned reference thresholds.
func DefaultAbstentionPolicy() AbstentionPolicy {
	return AbstentionPolicy{MinScore: 0.18, MinGap: 0.02}
}

// ShouldAbstain reports whether the answer should be withheld given the
// top score and the runner-up score (zero when there is no runner-up).
func (p AbstentionPolicy) ShouldAbstain(top, second float64) bool {
	return top < p.MinScore || top-second < p.MinGap
}

// Answer is the extractive result of a question: either the top
// citation's snippet verbatim, or a fallback message when retrieval
// found nothing or confidence was too low.
type Answer struct {
	// Text is the answer shown to the caller.
	Text string

	// Abstained is true when confidence gating withheld an answer.
	Abstained bool

	// Citations are the ranked supporting passages, possibly empty.
	Citations []Citation
}
