// Package chunker provides paragraph and sentence aware text chunking.
package chunker

import (
	"regexp"
	"strings"
)

// DefaultTargetChars is the default chunk size in characters.
const DefaultTargetChars = 1800

// DefaultOverlapSentences is the default number of trailing sentence
// units carried into the next chunk.
const DefaultOverlapSentences = 2

// DefaultMinChunkChars is the minimum chunk length; shorter chunks are
// merged into their predecessor.
const DefaultMinChunkChars = 320

// sentenceBoundary matches a sentence terminator followed by whitespace.
// Text is split after the terminator.
var sentenceBoundary = regexp.MustCompile(`[.!?]\s+`)

// Splitter segments raw text into ordered, overlapping chunks.
// Splitting is deterministic: identical input always produces an
// identical chunk sequence.
type Splitter struct {
	targetChars      int
	overlapSentences int
	minChunkChars    int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithTargetChars sets the target chunk size in characters.
func WithTargetChars(n int) Option {
	return func(s *Splitter) {
		if n > 0 {
			s.targetChars = n
		}
	}
}

// WithOverlapSentences sets how many trailing sentence units of a
// completed chunk seed the next one.
func WithOverlapSentences(n int) Option {
	return func(s *Splitter) {
		if n >= 0 {
			s.overlapSentences = n
		}
	}
}

// WithMinChunkChars sets the merge threshold for short chunks.
func WithMinChunkChars(n int) Option {
	return func(s *Splitter) {
		if n >= 0 {
			s.minChunkChars = n
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		targetChars:      DefaultTargetChars,
		overlapSentences: DefaultOverlapSentences,
		minChunkChars:    DefaultMinChunkChars,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Split segments text into chunks. Empty or whitespace-only input
// yields an empty sequence, not an error.
//
// Paragraphs (blank-line separated) are processed in order. A paragraph
// at or under the target size stays a single unit; longer paragraphs are
// split into sentences. Units accumulate greedily up to the target size;
// when a chunk is flushed, its trailing units seed the next buffer to
// create cross-chunk overlap. A final pass merges undersized chunks into
// their predecessor (the first chunk has none and may stay short).
func (s *Splitter) Split(text string) []string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return nil
	}

	var chunks []string
	var buf []string

	flush := func() {
		if joined := strings.TrimSpace(strings.Join(buf, " ")); joined != "" {
			chunks = append(chunks, joined)
		}
	}

	for _, para := range splitParagraphs(text) {
		var units []string
		if len(para) <= s.targetChars {
			units = []string{para}
		} else {
			units = splitSentences(para)
		}

		for _, unit := range units {
			if len(buf) == 0 {
				buf = []string{unit}
				continue
			}

			if len(strings.Join(buf, " "))+1+len(unit) > s.targetChars {
				flush()
				tail := []string{}
				if s.overlapSentences > 0 && len(buf) > 0 {
					start := len(buf) - s.overlapSentences
					if start < 0 {
						start = 0
					}
					tail = buf[start:]
				}
				buf = append(append([]string{}, tail...), unit)
			} else {
				buf = append(buf, unit)
			}
		}
	}

	flush()

	return s.mergeShort(chunks)
}

// mergeShort folds chunks below the minimum size into the preceding
// chunk. The first chunk has no predecessor and is kept as-is.
func (s *Splitter) mergeShort(chunks []string) []string {
	var merged []string
	for _, ch := range chunks {
		if len(merged) > 0 && len(ch) < s.minChunkChars {
			merged[len(merged)-1] = strings.TrimSpace(merged[len(merged)-1] + " " + ch)
		} else {
			merged = append(merged, ch)
		}
	}
	return merged
}

// splitParagraphs splits on blank lines, trimming and dropping empties.
func splitParagraphs(text string) []string {
	parts := strings.Split(text, "\n\n")
	paragraphs := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}
	return paragraphs
}

// splitSentences splits a paragraph after each sentence terminator that
// is followed by whitespace. The terminator stays with its sentence.
func splitSentences(para string) []string {
	var units []string
	last := 0
	for _, loc := range sentenceBoundary.FindAllStringIndex(para, -1) {
		if unit := strings.TrimSpace(para[last : loc[0]+1]); unit != "" {
			units = append(units, unit)
		}
		last = loc[1]
	}
	if tail := strings.TrimSpace(para[last:]); tail != "" {
		units = append(units, tail)
	}
	return units
}
