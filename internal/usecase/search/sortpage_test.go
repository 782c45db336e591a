package search

import (
	"testing"

	"github.com/harbormind/docsearch/internal/domain"
	"github.com/harbormind/docsearch/internal/domain/search/filter"
	"github.com/harbormind/docsearch/internal/domain/search/request"
)

func TestPlanSort(t *testing.T) {
	tests := []struct {
		name       string
		sortBy     request.SortKey
		sortOrder  string
		wantField  SortField
		wantDesc   bool
		wantResort bool
		wantRDesc  bool
	}{
		{"recent", request.SortRecent, "", FieldCreatedAt, true, false, false},
		{"relevance falls back to recent", request.SortRelevance, "", FieldCreatedAt, true, false, false},
		{"oldest", request.SortOldest, "", FieldCreatedAt, false, false, false},
		{"title default ascending", request.SortTitle, "", FieldTitle, false, false, false},
		{"title descending", request.SortTitle, "desc", FieldTitle, true, false, false},
		{"rating defaults descending", request.SortRating, "", FieldCreatedAt, true, true, true},
		{"rating ascending", request.SortRating, "asc", FieldCreatedAt, true, true, false},
		{"popular always descending", request.SortPopular, "asc", FieldCreatedAt, true, true, true},
		{"unknown key", request.SortKey("bogus"), "", FieldCreatedAt, true, false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plan := planSort(tc.sortBy, tc.sortOrder)
			if plan.store.Field != tc.wantField {
				t.Errorf("field: expected %s, got %s", tc.wantField, plan.store.Field)
			}
			if plan.store.Desc != tc.wantDesc {
				t.Errorf("desc: expected %v, got %v", tc.wantDesc, plan.store.Desc)
			}
			if plan.resortByRating != tc.wantResort {
				t.Errorf("resort: expected %v, got %v", tc.wantResort, plan.resortByRating)
			}
			if plan.resortByRating && plan.ratingDesc != tc.wantRDesc {
				t.Errorf("rating desc: expected %v, got %v", tc.wantRDesc, plan.ratingDesc)
			}
		})
	}
}

func TestResortPageByRating_StableOnTies(t *testing.T) {
	page := []filter.Candidate{
		{Doc: &domain.Document{ID: "a"}, AverageRating: 3.0},
		{Doc: &domain.Document{ID: "b"}, AverageRating: 4.0},
		{Doc: &domain.Document{ID: "c"}, AverageRating: 4.0},
		{Doc: &domain.Document{ID: "d"}, AverageRating: 2.0},
	}

	resortPageByRating(page, true)

	want := []string{"b", "c", "a", "d"}
	for i, c := range page {
		if c.Doc.ID != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], c.Doc.ID)
		}
	}
}
