package search

import (
	"sort"

	"github.com/harbormind/docsearch/internal/domain/search/filter"
	"github.com/harbormind/docsearch/internal/domain/search/result"
)

const maxOwnerBuckets = 20

// aggregateFacets computes categorical counts over the full filtered match
// set, ignoring pagination. Tag and owner buckets are ordered by descending
// count; ties keep first-encounter order. The owner facet is truncated to the
// top entries, the others are returned whole.
func aggregateFacets(matches []filter.Candidate) *result.Facets {
	f := &result.Facets{
		FileTypes:     make(map[string]int64),
		SharingLevels: make(map[string]int64),
	}

	tagIdx := make(map[string]int)
	ownerIdx := make(map[string]int)

	for i := range matches {
		doc := matches[i].Doc

		for _, tag := range doc.Tags {
			if tag == "" {
				continue
			}
			j, ok := tagIdx[tag]
			if !ok {
				j = len(f.Tags)
				tagIdx[tag] = j
				f.Tags = append(f.Tags, result.Bucket{Key: tag})
			}
			f.Tags[j].Count++
		}

		if doc.FileType != "" {
			f.FileTypes[string(doc.FileType)]++
		}
		if doc.SharingLevel != "" {
			f.SharingLevels[string(doc.SharingLevel)]++
		}

		if owner := ownerKey(doc.OwnerUsername, doc.OwnerID); owner != "" {
			j, ok := ownerIdx[owner]
			if !ok {
				j = len(f.Owners)
				ownerIdx[owner] = j
				f.Owners = append(f.Owners, result.Bucket{Key: owner})
			}
			f.Owners[j].Count++
		}
	}

	sort.SliceStable(f.Tags, func(i, j int) bool {
		return f.Tags[i].Count > f.Tags[j].Count
	})
	sort.SliceStable(f.Owners, func(i, j int) bool {
		return f.Owners[i].Count > f.Owners[j].Count
	})
	if len(f.Owners) > maxOwnerBuckets {
		f.Owners = f.Owners[:maxOwnerBuckets]
	}

	return f
}

// ownerKey prefers the display username, falling back to the owner ID.
func ownerKey(username, id string) string {
	if username != "" {
		return username
	}
	return id
}
