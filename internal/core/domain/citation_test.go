package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDefaultQueryOptions tests the default query configuration
func TestDefaultQueryOptions(t *testing.T) {
	opts := DefaultQueryOptions()
	assert.Equal(t, DefaultTopK, opts.TopK)
	assert.True(t, opts.Dedupe)
	assert.Nil(t, opts.CandidateChunkIDs)
}

// TestAbstentionPolicy_ShouldAbstain tests the confidence gate
func TestAbstentionPolicy_ShouldAbstain(t *testing.T) {
	policy := DefaultAbstentionPolicy()

	tests := []struct {
		name    string
		top     float64
		second  float64
		abstain bool
	}{
		{"below absolute floor", 0.10, 0.05, true},
		{"insufficient separation", 0.30, 0.29, true},
		{"confident answer", 0.40, 0.10, false},
		{"no runner-up, confident", 0.25, 0.0, false},
		{"no runner-up, weak", 0.17, 0.0, true},
		{"exactly at floor with wide gap", 0.18, 0.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.abstain, policy.ShouldAbstain(tt.top, tt.second))
		})
	}
}
