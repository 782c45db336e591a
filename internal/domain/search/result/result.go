// Package result holds the search result envelopes.
package result

import (
	"time"

	"github.com/harbormind/docsearch/internal/domain"
)

// Page is one page of structured search results with pagination metadata.
type Page struct {
	Documents     []domain.Document
	Page          int
	PageSize      int
	TotalElements int64
	TotalPages    int
	Query         string
	Took          time.Duration
	Facets        *Facets // nil unless facets were requested
}

// Bucket is one facet entry. Buckets are ordered, so facet maps that need a
// defined order (tags, owners) are slices rather than Go maps.
type Bucket struct {
	Key   string
	Count int64
}

// Facets are categorical counts over the filtered, unpaged result set.
type Facets struct {
	Tags          []Bucket
	FileTypes     map[string]int64
	SharingLevels map[string]int64
	Owners        []Bucket
}

// SemanticHit is a document with its cosine similarity score.
type SemanticHit struct {
	Document domain.Document
	Score    float64
}

// SemanticResult is the semantic search envelope: ranked hits, no pagination.
type SemanticResult struct {
	Hits  []SemanticHit
	Query string
	Took  time.Duration
}
