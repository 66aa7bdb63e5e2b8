package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/quarrylabs/quarry-cli/internal/core/domain"
	"github.com/quarrylabs/quarry-cli/internal/core/ports/driven"
	"github.com/quarrylabs/quarry-cli/internal/core/ports/driving"
	"github.com/quarrylabs/quarry-cli/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryEngine = (*QueryService)(nil)

// DefaultSnippetMaxChars bounds citation snippets for display.
const DefaultSnippetMaxChars = 260

// DefaultMaxCandidates caps the keyword prefilter result set.
const DefaultMaxCandidates = 2000

// Answer fallbacks. The extractive baseline answers with the top
// snippet verbatim; these cover the no-result and low-confidence cases.
const (
	noResultsAnswer = "I couldn't find relevant passages in your uploaded documents."
	abstainAnswer   = "I couldn't find strong support for that in your uploaded documents. " +
		"Try a more specific question or upload a document that explicitly contains the answer."
)

// QueryService scores a question against an owner's index artifact and
// returns ranked, deduplicated citations.
type QueryService struct {
	docStore        driven.DocumentStore
	indexer         *Indexer
	policy          domain.AbstentionPolicy
	snippetMaxChars int
	maxCandidates   int
}

// QueryOption configures the query service.
type QueryOption func(*QueryService)

// WithAbstentionPolicy sets the confidence gating thresholds.
func WithAbstentionPolicy(p domain.AbstentionPolicy) QueryOption {
	return func(s *QueryService) {
		s.policy = p
	}
}

// WithSnippetMaxChars sets the snippet display bound.
func WithSnippetMaxChars(n int) QueryOption {
	return func(s *QueryService) {
		if n > 3 {
			s.snippetMaxChars = n
		}
	}
}

// WithMaxCandidates caps the keyword prefilter result set.
func WithMaxCandidates(n int) QueryOption {
	return func(s *QueryService) {
		if n > 0 {
			s.maxCandidates = n
		}
	}
}

// NewQueryService creates a query service over the given store and
// indexer.
func NewQueryService(docStore driven.DocumentStore, indexer *Indexer, opts ...QueryOption) *QueryService {
	s := &QueryService{
		docStore:        docStore,
		indexer:         indexer,
		policy:          domain.DefaultAbstentionPolicy(),
		snippetMaxChars: DefaultSnippetMaxChars,
		maxCandidates:   DefaultMaxCandidates,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// rowScore pairs a matrix row with its similarity score.
type rowScore struct {
	row   int
	score float64
}

// Query ranks the owner's chunks against the question by cosine
// similarity. See domain.QueryOptions for candidate restriction and
// deduplication behaviour.
func (s *QueryService) Query(
	ctx context.Context, ownerID, question string, opts domain.QueryOptions,
) ([]domain.Citation, error) {
	topK, err := validateQuery(question, opts.TopK)
	if err != nil {
		return nil, err
	}

	logger.Section("Query Execution")
	logger.Debug("Question: %q, topK: %d", question, topK)

	artifact, err := s.indexer.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if artifact.Empty() {
		logger.Debug("Empty index for owner %s, returning no results", ownerID)
		return []domain.Citation{}, nil
	}

	queryVec := artifact.Vectorizer.Transform(question)

	// Candidate slicing: restrict scoring to the mapped subset when the
	// caller supplied candidates. Unknown IDs are dropped silently.
	rows := make([]int, 0, len(artifact.Rows))
	if len(opts.CandidateChunkIDs) > 0 {
		for _, id := range opts.CandidateChunkIDs {
			if row, ok := artifact.IDToRow[id]; ok {
				rows = append(rows, row)
			}
		}
		logger.Debug("Candidate restriction: %d of %d ids mapped",
			len(rows), len(opts.CandidateChunkIDs))
		if len(rows) == 0 {
			return []domain.Citation{}, nil
		}
	} else {
		for row := range artifact.Rows {
			rows = append(rows, row)
		}
	}

	ranked := make([]rowScore, 0, len(rows))
	for _, row := range rows {
		ranked = append(ranked, rowScore{row: row, score: queryVec.Dot(artifact.Rows[row])})
	}

	// Stable sort: exact score ties keep their pre-existing rank order.
	// The secondary key is intentionally unspecified; scores are
	// continuous and exact ties are rare.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	// Over-fetch before deduplication so it can still fill topK.
	overFetch := 3 * topK
	if overFetch < 20 {
		overFetch = 20
	}
	if len(ranked) > overFetch {
		ranked = ranked[:overFetch]
	}

	citations := make([]domain.Citation, 0, topK)
	seen := make(map[string]struct{})

	for _, rs := range ranked {
		chunkID := artifact.ChunkIDs[rs.row]
		docID := artifact.DocIDs[rs.row]

		chunk, err := s.docStore.GetChunk(ctx, chunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue // chunk deleted since the last rebuild
			}
			return nil, fmt.Errorf("get chunk %s: %w", chunkID, err)
		}

		snippet := makeSnippet(chunk.Text, s.snippetMaxChars)

		if opts.Dedupe {
			h := snippetHash(snippet)
			if _, dup := seen[h]; dup {
				continue
			}
			seen[h] = struct{}{}
		}

		citations = append(citations, domain.Citation{
			ChunkID:    chunkID,
			DocumentID: docID,
			Score:      rs.score,
			Snippet:    snippet,
		})
		if len(citations) >= topK {
			break
		}
	}

	logger.Debug("Returning %d citations", len(citations))
	return citations, nil
}

// Ask answers a question extractively. It narrows the search with a
// keyword prefilter when possible, then applies confidence gating: the
// answer is withheld when the top score is below the absolute floor or
// too close to the runner-up.
func (s *QueryService) Ask(
	ctx context.Context, ownerID, question string, opts domain.QueryOptions,
) (*domain.Answer, error) {
	// Reject bad input before touching the store.
	if _, err := validateQuery(question, opts.TopK); err != nil {
		return nil, err
	}

	if len(opts.CandidateChunkIDs) == 0 {
		if keywords := extractKeywords(question, maxKeywordTerms); len(keywords) > 0 {
			ids, err := s.docStore.SearchChunkIDs(ctx, ownerID, keywords, s.maxCandidates)
			if err != nil {
				// Degraded retrieval beats a failed query.
				logger.Warn("Keyword prefilter failed: %v", err)
			} else if len(ids) > 0 {
				opts.CandidateChunkIDs = ids
			}
		}
	}

	citations, err := s.Query(ctx, ownerID, question, opts)
	if err != nil {
		return nil, err
	}

	if len(citations) == 0 {
		return &domain.Answer{Text: noResultsAnswer, Citations: []domain.Citation{}}, nil
	}

	top := citations[0].Score
	second := 0.0
	if len(citations) > 1 {
		second = citations[1].Score
	}

	if s.policy.ShouldAbstain(top, second) {
		logger.Debug("Abstaining: top=%.4f second=%.4f", top, second)
		return &domain.Answer{Text: abstainAnswer, Abstained: true, Citations: citations}, nil
	}

	return &domain.Answer{Text: citations[0].Snippet, Citations: citations}, nil
}

// validateQuery applies the synchronous input checks and resolves the
// effective topK.
func validateQuery(question string, topK int) (int, error) {
	qLen := utf8.RuneCountInString(strings.TrimSpace(question))
	if qLen < domain.MinQuestionLen || qLen > domain.MaxQuestionLen {
		return 0, fmt.Errorf("%w: question must be %d-%d characters",
			domain.ErrInvalidInput, domain.MinQuestionLen, domain.MaxQuestionLen)
	}

	if topK == 0 {
		return domain.DefaultTopK, nil
	}
	if topK < 1 || topK > domain.MaxTopK {
		return 0, fmt.Errorf("%w: top_k must be between 1 and %d",
			domain.ErrInvalidInput, domain.MaxTopK)
	}
	return topK, nil
}

// makeSnippet collapses whitespace and truncates for display.
func makeSnippet(text string, maxChars int) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	runes := []rune(collapsed)
	if len(runes) <= maxChars {
		return collapsed
	}
	return string(runes[:maxChars-3]) + "..."
}

// snippetHash fingerprints a normalised snippet for deduplication.
func snippetHash(snippet string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(snippet)))
	return hex.EncodeToString(sum[:])[:16]
}
