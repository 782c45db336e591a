package filter

import (
	"strings"
	"time"

	"github.com/harbormind/docsearch/internal/domain"
	"github.com/harbormind/docsearch/internal/domain/search/request"
)

// Compose turns a search request into a conjunctive filter. Every rule is a
// no-op when its input is absent: an absent field means "no constraint",
// never "match nothing". Unparseable sharingLevel/fileType values are
// ignored, not rejected. Conflicting rating bounds (min > max) are passed
// through unvalidated.
func Compose(req *request.Request, requesterID string) *Filter {
	f := New()

	if !req.IncludeArchived {
		f.Add(NotArchived())
	}

	if kw := strings.TrimSpace(req.Keyword); kw != "" {
		f.Add(keyword(kw))
	}

	if req.SharingLevel != "" {
		if level, ok := domain.ParseSharingLevel(req.SharingLevel); ok {
			f.Add(sharingLevelIs(level))
		}
	}

	if req.FileType != "" {
		if ft, ok := domain.ParseFileType(req.FileType); ok {
			f.Add(fileTypeIs(ft))
		}
	}

	if req.OwnerID != "" {
		f.Add(ownerIs(req.OwnerID))
	}
	if req.OwnerUsername != "" {
		f.Add(ownerUsernameLike(req.OwnerUsername))
	}

	if len(req.Tags) > 0 {
		f.distinct = true
		if req.MatchAllTags {
			f.Add(hasAllTags(req.Tags))
		} else {
			f.Add(hasAnyTag(req.Tags))
		}
	}

	if len(req.GroupIDs) > 0 {
		f.distinct = true
		f.Add(inAnyGroup(req.GroupIDs))
	}

	if req.MinRating != nil || req.MaxRating != nil {
		f.needsRatings = true
		f.Add(ratingBetween(req.MinRating, req.MaxRating))
	}

	if req.FromDate != nil || req.ToDate != nil {
		f.Add(createdBetween(req.FromDate, req.ToDate))
	}

	if req.OnlyFavorited && requesterID != "" {
		f.distinct = true
		f.favoritesFor = requesterID
		f.Add(favorited())
	}

	return f
}

// NotArchived excludes archived documents.
func NotArchived() Predicate {
	return func(c *Candidate) bool { return !c.Doc.Archived }
}

// Visibility is the access predicate applied uniformly on the structured and
// semantic paths: visible iff the requester owns the document, the document
// is PUBLIC, or it is GROUP-shared and the requester belongs to at least one
// attached group. Inaccessible documents are fully excluded, never redacted.
func Visibility(requesterID string, requesterGroups []string) Predicate {
	groups := make(map[string]struct{}, len(requesterGroups))
	for _, g := range requesterGroups {
		groups[g] = struct{}{}
	}

	return func(c *Candidate) bool {
		if requesterID != "" && c.Doc.OwnerID == requesterID {
			return true
		}
		switch c.Doc.SharingLevel {
		case domain.SharingPublic:
			return true
		case domain.SharingGroup:
			for _, g := range c.Doc.GroupIDs {
				if _, ok := groups[g]; ok {
					return true
				}
			}
		}
		return false
	}
}

// keyword matches a case-insensitive substring against title, summary, or content.
func keyword(kw string) Predicate {
	lower := strings.ToLower(kw)
	return func(c *Candidate) bool {
		return strings.Contains(strings.ToLower(c.Doc.Title), lower) ||
			strings.Contains(strings.ToLower(c.Doc.Summary), lower) ||
			strings.Contains(strings.ToLower(c.Doc.Content), lower)
	}
}

func sharingLevelIs(level domain.SharingLevel) Predicate {
	return func(c *Candidate) bool { return c.Doc.SharingLevel == level }
}

func fileTypeIs(ft domain.FileType) Predicate {
	return func(c *Candidate) bool { return c.Doc.FileType == ft }
}

func ownerIs(id string) Predicate {
	return func(c *Candidate) bool { return c.Doc.OwnerID == id }
}

func ownerUsernameLike(name string) Predicate {
	lower := strings.ToLower(name)
	return func(c *Candidate) bool {
		return strings.Contains(strings.ToLower(c.Doc.OwnerUsername), lower)
	}
}

// hasAllTags requires the document's tag set to be a superset of the
// requested tags.
func hasAllTags(tags []string) Predicate {
	return func(c *Candidate) bool {
		for _, t := range tags {
			if !c.Doc.HasTag(t) {
				return false
			}
		}
		return true
	}
}

// hasAnyTag requires the document's tag set to intersect the requested tags.
func hasAnyTag(tags []string) Predicate {
	return func(c *Candidate) bool {
		for _, t := range tags {
			if c.Doc.HasTag(t) {
				return true
			}
		}
		return false
	}
}

func inAnyGroup(ids []string) Predicate {
	return func(c *Candidate) bool {
		for _, id := range ids {
			if c.Doc.InGroup(id) {
				return true
			}
		}
		return false
	}
}

// ratingBetween compares the computed average rating inclusively against the
// bounds. A document with no ratings has no average and never matches,
// mirroring SQL AVG over an empty set.
func ratingBetween(minRating, maxRating *float64) Predicate {
	return func(c *Candidate) bool {
		if c.RatingCount == 0 {
			return false
		}
		if minRating != nil && c.AverageRating < *minRating {
			return false
		}
		if maxRating != nil && c.AverageRating > *maxRating {
			return false
		}
		return true
	}
}

// createdBetween keeps documents created within [from, to] inclusive.
func createdBetween(from, to *time.Time) Predicate {
	return func(c *Candidate) bool {
		if from != nil && c.Doc.CreatedAt.Before(*from) {
			return false
		}
		if to != nil && c.Doc.CreatedAt.After(*to) {
			return false
		}
		return true
	}
}

func favorited() Predicate {
	return func(c *Candidate) bool { return c.Favorited }
}
