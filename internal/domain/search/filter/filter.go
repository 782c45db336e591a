// Package filter composes optional search criteria into a single
// conjunctive predicate evaluated by the document store.
package filter

import "github.com/harbormind/docsearch/internal/domain"

// Candidate is the store-hydrated view a predicate evaluates: the document
// plus the derived data (rating aggregate, favorite mark) that lives in
// related records rather than on the document itself.
type Candidate struct {
	Doc           *domain.Document
	AverageRating float64
	RatingCount   int
	Favorited     bool
}

// Predicate is a single filter clause.
type Predicate func(c *Candidate) bool

// Filter is a list of predicates combined with logical AND, plus hydration
// hints telling the store which related records the predicates need.
type Filter struct {
	preds        []Predicate
	distinct     bool
	needsRatings bool
	favoritesFor string
}

// New creates an empty filter that matches everything.
func New() *Filter {
	return &Filter{}
}

// Add appends a predicate.
func (f *Filter) Add(p Predicate) *Filter {
	f.preds = append(f.preds, p)
	return f
}

// Matches reports whether the candidate satisfies every predicate.
func (f *Filter) Matches(c *Candidate) bool {
	for _, p := range f.preds {
		if !p(c) {
			return false
		}
	}
	return true
}

// Distinct reports whether a multi-valued relation (tags, groups, favorites)
// is part of the filter. A store that joins those relations must deduplicate
// matches; the in-process evaluator visits each document once and needs no
// dedup, so it never consults the flag.
func (f *Filter) Distinct() bool { return f.distinct }

// NeedsRatings reports whether the rating aggregate must be hydrated before
// evaluation.
func (f *Filter) NeedsRatings() bool { return f.needsRatings }

// FavoritesFor returns the user whose favorites must be hydrated, or ""
// when no favorite predicate is present.
func (f *Filter) FavoritesFor() string { return f.favoritesFor }
