package chi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/harbormind/docsearch/internal/domain/search/request"
)

// parseSearchRequest maps query parameters to a search request. Unknown enum
// values (sharingLevel, fileType, sortBy) pass through and are ignored or
// defaulted downstream; malformed numbers, booleans, and dates are rejected.
func parseSearchRequest(q url.Values) (*request.Request, error) {
	req := &request.Request{
		Keyword:       q.Get("keyword"),
		SharingLevel:  q.Get("sharingLevel"),
		FileType:      q.Get("fileType"),
		OwnerID:       q.Get("ownerId"),
		OwnerUsername: q.Get("ownerUsername"),
		Tags:          splitCSV(q.Get("tags")),
		GroupIDs:      splitCSV(q.Get("groupIds")),
		SortBy:        request.ParseSortKey(q.Get("sortBy")),
		SortOrder:     q.Get("sortOrder"),
	}

	var err error
	if req.MatchAllTags, err = parseBoolParam(q, "matchAllTags"); err != nil {
		return nil, err
	}
	if req.IncludeArchived, err = parseBoolParam(q, "includeArchived"); err != nil {
		return nil, err
	}
	if req.OnlyFavorited, err = parseBoolParam(q, "onlyFavorited"); err != nil {
		return nil, err
	}

	if req.Page, err = parseIntParam(q, "page", 0); err != nil {
		return nil, err
	}
	if req.Size, err = parseIntParam(q, "size", 0); err != nil {
		return nil, err
	}

	if req.MinRating, err = parseFloatParam(q, "minRating"); err != nil {
		return nil, err
	}
	if req.MaxRating, err = parseFloatParam(q, "maxRating"); err != nil {
		return nil, err
	}

	if req.FromDate, err = parseTimeParam(q, "fromDate"); err != nil {
		return nil, err
	}
	if req.ToDate, err = parseTimeParam(q, "toDate"); err != nil {
		return nil, err
	}

	return req, nil
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseBoolParam(q url.Values, name string) (bool, error) {
	raw := q.Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("parameter %s must be a boolean", name)
	}
	return v, nil
}

func parseIntParam(q url.Values, name string, def int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parameter %s must be an integer", name)
	}
	return v, nil
}

func parseFloatParam(q url.Values, name string) (*float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("parameter %s must be a number", name)
	}
	return &v, nil
}

// parseTimeParam accepts RFC 3339 timestamps and plain dates. A plain date
// for an upper bound covers the whole day.
func parseTimeParam(q url.Values, name string) (*time.Time, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}

	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("parameter %s must be an RFC 3339 timestamp or YYYY-MM-DD date", name)
	}
	if name == "toDate" {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
