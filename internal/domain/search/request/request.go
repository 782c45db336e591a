// Package request holds the search query model: every criterion is optional.
package request

import "time"

// Pagination and semantic search limits.
const (
	DefaultPageSize = 10

	DefaultSemanticLimit = 10
	MaxSemanticLimit     = 50
)

// SortKey is a logical sort order resolved by the sort policy.
type SortKey string

// Logical sort keys.
const (
	SortRecent    SortKey = "recent"
	SortOldest    SortKey = "oldest"
	SortTitle     SortKey = "title"
	SortRating    SortKey = "rating"
	SortPopular   SortKey = "popular"
	SortRelevance SortKey = "relevance"
)

// ParseSortKey maps a string to a sort key; unknown values fall back to recent.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortOldest, SortTitle, SortRating, SortPopular, SortRelevance:
		return SortKey(s)
	}
	return SortRecent
}

// Request is a structured search query. All fields are optional; an absent
// field imposes no constraint.
type Request struct {
	Keyword string

	Tags         []string
	MatchAllTags bool

	SharingLevel  string
	FileType      string
	OwnerID       string
	OwnerUsername string
	GroupIDs      []string

	MinRating *float64
	MaxRating *float64

	FromDate *time.Time
	ToDate   *time.Time

	SortBy    SortKey
	SortOrder string // "asc" or "desc"; default depends on SortBy

	Page int // zero-based
	Size int

	IncludeArchived bool
	OnlyFavorited   bool
}

// Normalize applies pagination and sort defaults in place.
// The structured path deliberately enforces no maximum page size.
func (r *Request) Normalize() {
	if r.Page < 0 {
		r.Page = 0
	}
	if r.Size <= 0 {
		r.Size = DefaultPageSize
	}
	if r.SortBy == "" {
		r.SortBy = SortRecent
	}
}

// ClampSemanticLimit keeps the semantic top-K inside [1, MaxSemanticLimit];
// out-of-range values reset to the default.
func ClampSemanticLimit(n int) int {
	if n < 1 || n > MaxSemanticLimit {
		return DefaultSemanticLimit
	}
	return n
}
