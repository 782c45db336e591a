package search

import (
	"sort"
	"strings"

	"github.com/harbormind/docsearch/internal/domain/search/filter"
	"github.com/harbormind/docsearch/internal/domain/search/request"
)

// pagePlan resolves a logical sort key into a store-level ordering plus an
// optional in-memory rating re-sort of the fetched page.
type pagePlan struct {
	store          Sort
	resortByRating bool
	ratingDesc     bool
}

// planSort maps a logical sort key to a concrete plan.
//
// rating/popular sort on a computed aggregate the store cannot order by, so
// the page is fetched in createdAt-desc order (preserving correct pagination
// counts) and only the fetched page's contents are re-sorted in memory. This
// is a documented contract baseline: it does not promote a better-rated item
// from a later page. relevance has no scoring model on the structured path
// and falls back to recent.
func planSort(sortBy request.SortKey, sortOrder string) pagePlan {
	asc := strings.EqualFold(sortOrder, "asc")
	desc := strings.EqualFold(sortOrder, "desc")

	switch sortBy {
	case request.SortOldest:
		return pagePlan{store: Sort{Field: FieldCreatedAt, Desc: false}}
	case request.SortTitle:
		return pagePlan{store: Sort{Field: FieldTitle, Desc: desc}}
	case request.SortRating:
		return pagePlan{
			store:          Sort{Field: FieldCreatedAt, Desc: true},
			resortByRating: true,
			ratingDesc:     !asc,
		}
	case request.SortPopular:
		return pagePlan{
			store:          Sort{Field: FieldCreatedAt, Desc: true},
			resortByRating: true,
			ratingDesc:     true,
		}
	case request.SortRecent, request.SortRelevance:
		return pagePlan{store: Sort{Field: FieldCreatedAt, Desc: true}}
	default:
		return pagePlan{store: Sort{Field: FieldCreatedAt, Desc: true}}
	}
}

// resortPageByRating re-orders the fetched page in place by average rating.
func resortPageByRating(page []filter.Candidate, desc bool) {
	sort.SliceStable(page, func(i, j int) bool {
		if desc {
			return page[i].AverageRating > page[j].AverageRating
		}
		return page[i].AverageRating < page[j].AverageRating
	})
}
