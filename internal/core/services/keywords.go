package services

import (
	"regexp"
	"strings"
)

// maxKeywordTerms bounds how many question keywords feed the candidate
// prefilter.
const maxKeywordTerms = 6

// keywordPattern matches alphabetic words of at least two letters.
var keywordPattern = regexp.MustCompile(`[A-Za-z]{2,}`)

// keywordStopWords is a small, easily tuned exclusion set for question
// keyword extraction. Deliberately minimal; the index has its own,
// larger stop-word list.
var keywordStopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(
		"the a an and or to of in on for with by at from " +
			"is are was were be been being it this that these those " +
			"what who whom which when where why how do does did " +
			"i you we they he she them him her my your our their") {
		keywordStopWords[w] = struct{}{}
	}
}

// extractKeywords pulls up to max lower-cased keywords from a question,
// preserving order and dropping duplicates and stop words.
func extractKeywords(question string, max int) []string {
	seen := make(map[string]struct{})
	var out []string

	for _, term := range keywordPattern.FindAllString(question, -1) {
		term = strings.ToLower(term)
		if _, stop := keywordStopWords[term]; stop {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
		if len(out) >= max {
			break
		}
	}
	return out
}
