package chi

import (
	"net/url"
	"testing"
	"time"

	"github.com/harbormind/docsearch/internal/domain/search/request"
)

func TestParseSearchRequest_Defaults(t *testing.T) {
	req, err := parseSearchRequest(url.Values{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.Keyword != "" || len(req.Tags) != 0 {
		t.Errorf("expected empty request, got %+v", req)
	}
	if req.SortBy != request.SortRecent {
		t.Errorf("expected default sort recent, got %s", req.SortBy)
	}
	if req.MinRating != nil || req.FromDate != nil {
		t.Error("expected nil optional fields")
	}
}

func TestParseSearchRequest_FullQuery(t *testing.T) {
	q := url.Values{
		"keyword":       {"kubernetes"},
		"tags":          {"infra, ops ,"},
		"matchAllTags":  {"true"},
		"sharingLevel":  {"GROUP"},
		"fileType":      {"pdf"},
		"ownerId":       {"u1"},
		"ownerUsername": {"ali"},
		"groupIds":      {"g1,g2"},
		"minRating":     {"3.5"},
		"maxRating":     {"5"},
		"fromDate":      {"2025-01-01"},
		"toDate":        {"2025-06-30"},
		"sortBy":        {"rating"},
		"sortOrder":     {"asc"},
		"page":          {"2"},
		"size":          {"25"},
		"onlyFavorited": {"true"},
	}

	req, err := parseSearchRequest(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.Keyword != "kubernetes" {
		t.Errorf("keyword: got %q", req.Keyword)
	}
	if len(req.Tags) != 2 || req.Tags[0] != "infra" || req.Tags[1] != "ops" {
		t.Errorf("tags: got %v", req.Tags)
	}
	if !req.MatchAllTags || !req.OnlyFavorited {
		t.Error("expected boolean flags set")
	}
	if req.MinRating == nil || *req.MinRating != 3.5 {
		t.Errorf("minRating: got %v", req.MinRating)
	}
	if req.SortBy != request.SortRating || req.SortOrder != "asc" {
		t.Errorf("sort: got %s/%s", req.SortBy, req.SortOrder)
	}
	if req.Page != 2 || req.Size != 25 {
		t.Errorf("paging: got %d/%d", req.Page, req.Size)
	}
	if req.FromDate == nil || !req.FromDate.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("fromDate: got %v", req.FromDate)
	}
	// A plain toDate covers the whole day.
	if req.ToDate == nil || req.ToDate.Before(time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)) {
		t.Errorf("toDate: got %v", req.ToDate)
	}
}

func TestParseSearchRequest_RFC3339Dates(t *testing.T) {
	q := url.Values{"fromDate": {"2025-03-15T10:30:00Z"}}

	req, err := parseSearchRequest(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)
	if req.FromDate == nil || !req.FromDate.Equal(want) {
		t.Errorf("fromDate: got %v, want %v", req.FromDate, want)
	}
}

func TestParseSearchRequest_UnknownSortFallsBack(t *testing.T) {
	req, err := parseSearchRequest(url.Values{"sortBy": {"bogus"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.SortBy != request.SortRecent {
		t.Errorf("expected fallback to recent, got %s", req.SortBy)
	}
}

func TestParseSearchRequest_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
	}{
		{"bad page", url.Values{"page": {"abc"}}},
		{"bad size", url.Values{"size": {"1.5"}}},
		{"bad minRating", url.Values{"minRating": {"high"}}},
		{"bad bool", url.Values{"onlyFavorited": {"yep"}}},
		{"bad date", url.Values{"fromDate": {"yesterday"}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseSearchRequest(tc.query); err == nil {
				t.Errorf("expected error for %v", tc.query)
			}
		})
	}
}

func TestSplitCSV(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"a,b,c", 3},
		{" a , ,b", 2},
		{",,", 0},
	}

	for _, tc := range tests {
		got := splitCSV(tc.in)
		if len(got) != tc.want {
			t.Errorf("splitCSV(%q) = %v, want %d items", tc.in, got, tc.want)
		}
	}
}
