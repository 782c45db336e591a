package search

import (
	"context"

	"github.com/harbormind/docsearch/internal/domain"
	"github.com/harbormind/docsearch/internal/domain/search/filter"
)

// SortField is a store-level ordering field. The computed rating aggregate is
// not a stored column, so it is deliberately absent here.
type SortField string

// Store-level sort fields.
const (
	FieldCreatedAt SortField = "created_at"
	FieldTitle     SortField = "title"
)

// Sort is a concrete store-level ordering.
type Sort struct {
	Field SortField
	Desc  bool
}

// Query is one paginated predicate query against the document store.
type Query struct {
	Filter *filter.Filter
	Sort   Sort
	Offset int
	Limit  int
	// HydrateRatings asks the store to compute the rating aggregate for the
	// returned page even when no rating predicate requires it (rating sort).
	HydrateRatings bool
}

// Store is the document store contract for search operations.
type Store interface {
	// Search runs a paginated predicate query and returns the page plus the
	// total number of matches.
	Search(ctx context.Context, q *Query) ([]filter.Candidate, int64, error)
	// SearchAll returns every match, unpaged, for facet aggregation and
	// semantic ranking.
	SearchAll(ctx context.Context, flt *filter.Filter) ([]filter.Candidate, error)
}

// GroupReader resolves a user's group memberships.
type GroupReader interface {
	GroupsOf(ctx context.Context, userID string) ([]string, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
