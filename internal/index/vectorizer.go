// Package index implements the per-owner TF-IDF retrieval index.
//
// An owner's chunks are fitted into a Vectorizer (vocabulary plus
// inverse document frequencies) and a sparse matrix with one
// L2-normalised row per chunk. The fitted Artifact is fully rebuilt on
// every mutation and replaced atomically by the index store; it is
// derived data, always reconstructible from the chunk records.
package index

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// DefaultMaxVocabulary bounds the fitted vocabulary size.
const DefaultMaxVocabulary = 50000

// wordPattern matches tokens of two or more word characters.
var wordPattern = regexp.MustCompile(`\w\w+`)

// Vectorizer maps text into the weight-vector space fitted over one
// owner's chunk corpus. Terms are unigrams and bigrams of lower-cased
// word tokens with English stop words removed.
type Vectorizer struct {
	// Vocabulary maps a term to its dimension index.
	Vocabulary map[string]int

	// IDF holds the smoothed inverse document frequency per dimension.
	IDF []float64
}

// fitOptions configures vectorizer fitting.
type fitOptions struct {
	maxVocabulary int
}

// Option configures index building.
type Option func(*fitOptions)

// WithMaxVocabulary caps the number of retained terms.
func WithMaxVocabulary(n int) Option {
	return func(o *fitOptions) {
		if n > 0 {
			o.maxVocabulary = n
		}
	}
}

// termCount is a term with its corpus-wide occurrence count.
type termCount struct {
	term  string
	count int
}

// fit builds a vectorizer and one weight row per text.
// Texts must be non-empty as a set; the caller handles the empty corpus.
func fit(texts []string, maxVocabulary int) (*Vectorizer, []SparseVector) {
	docTerms := make([][]string, len(texts))
	df := make(map[string]int)
	total := make(map[string]int)

	for i, text := range texts {
		terms := analyze(text)
		docTerms[i] = terms

		seen := make(map[string]struct{}, len(terms))
		for _, term := range terms {
			total[term]++
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	vocabulary := selectVocabulary(total, maxVocabulary)

	idf := make([]float64, len(vocabulary))
	n := float64(len(texts))
	for term, dim := range vocabulary {
		idf[dim] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	v := &Vectorizer{Vocabulary: vocabulary, IDF: idf}

	rows := make([]SparseVector, len(texts))
	for i, terms := range docTerms {
		rows[i] = v.weigh(terms)
	}

	return v, rows
}

// selectVocabulary assigns dimension indices to terms. When the corpus
// exceeds the cap, the most frequent terms win (ties alphabetically);
// indices follow lexicographic term order so rebuilds are stable.
func selectVocabulary(total map[string]int, maxVocabulary int) map[string]int {
	terms := make([]string, 0, len(total))
	for term := range total {
		terms = append(terms, term)
	}

	if len(terms) > maxVocabulary {
		sort.Slice(terms, func(i, j int) bool {
			if total[terms[i]] != total[terms[j]] {
				return total[terms[i]] > total[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:maxVocabulary]
	}

	sort.Strings(terms)

	vocabulary := make(map[string]int, len(terms))
	for dim, term := range terms {
		vocabulary[term] = dim
	}
	return vocabulary
}

// Transform maps text into the fitted vector space. Terms outside the
// vocabulary contribute nothing; a fully out-of-vocabulary text yields
// an empty vector.
func (v *Vectorizer) Transform(text string) SparseVector {
	return v.weigh(analyze(text))
}

// weigh converts analyzed terms into an L2-normalised TF-IDF vector.
func (v *Vectorizer) weigh(terms []string) SparseVector {
	counts := make(map[int]int)
	for _, term := range terms {
		if dim, ok := v.Vocabulary[term]; ok {
			counts[dim]++
		}
	}
	if len(counts) == 0 {
		return SparseVector{}
	}

	dims := make([]int, 0, len(counts))
	for dim := range counts {
		dims = append(dims, dim)
	}
	sort.Ints(dims)

	vec := SparseVector{
		Dims:    dims,
		Weights: make([]float64, len(dims)),
	}

	var norm float64
	for i, dim := range dims {
		w := float64(counts[dim]) * v.IDF[dim]
		vec.Weights[i] = w
		norm += w * w
	}

	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec.Weights {
			vec.Weights[i] /= norm
		}
	}

	return vec
}

// analyze tokenizes text and expands it into unigram and bigram terms.
// Stop words are removed before bigrams are formed.
func analyze(text string) []string {
	raw := wordPattern.FindAllString(strings.ToLower(text), -1)

	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if _, stop := stopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}

	terms := make([]string, 0, 2*len(tokens))
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}
