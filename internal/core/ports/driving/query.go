package driving

import (
	"context"

	"github.com/quarrylabs/quarry-cli/internal/core/domain"
)

// QueryEngine answers natural-language questions against an owner's
// indexed chunks.
type QueryEngine interface {
	// Query returns ranked citations for a question. An owner with no
	// indexed chunks gets an empty list, never an error.
	Query(ctx context.Context, ownerID, question string, opts domain.QueryOptions) ([]domain.Citation, error)

	// Ask runs Query with a keyword prefilter and applies confidence
	// gating to produce an extractive answer.
	Ask(ctx context.Context, ownerID, question string, opts domain.QueryOptions) (*domain.Answer, error)
}
