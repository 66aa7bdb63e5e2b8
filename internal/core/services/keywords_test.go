package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywords_DropsStopWordsAndShortTokens(t *testing.T) {
	got := extractKeywords("What is the harpoon made of?", maxKeywordTerms)
	assert.Equal(t, []string{"harpoon", "made"}, got)
}

func TestExtractKeywords_LowercasesAndDeduplicates(t *testing.T) {
	got := extractKeywords("Whale whale WHALE ship", maxKeywordTerms)
	assert.Equal(t, []string{"whale", "ship"}, got)
}

func TestExtractKeywords_PreservesOrderAndCapsCount(t *testing.T) {
	got := extractKeywords("alpha bravo charlie delta echo foxtrot golf hotel", 6)
	assert.Equal(t, []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot"}, got)
}

func TestExtractKeywords_IgnoresDigitsAndPunctuation(t *testing.T) {
	got := extractKeywords("42 +++ x y2z ok?", maxKeywordTerms)
	// "ok" survives; single letters and digit runs do not.
	assert.Equal(t, []string{"ok"}, got)
}

func TestExtractKeywords_AllStopWords(t *testing.T) {
	got := extractKeywords("what is this", maxKeywordTerms)
	assert.Empty(t, got)
}
