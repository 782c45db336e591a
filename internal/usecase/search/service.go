// Package search orchestrates structured and semantic document search.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/harbormind/docsearch/internal/domain"
	"github.com/harbormind/docsearch/internal/domain/search/filter"
	"github.com/harbormind/docsearch/internal/domain/search/request"
	"github.com/harbormind/docsearch/internal/domain/search/result"
	"github.com/harbormind/docsearch/internal/metrics"
)

// Service handles structured, faceted, and semantic document search.
type Service struct {
	store  Store
	groups GroupReader
	embed  Embedder
	logger *zap.Logger
}

// New creates a search service.
func New(store Store, groups GroupReader, embed Embedder, logger *zap.Logger) *Service {
	return &Service{store: store, groups: groups, embed: embed, logger: logger}
}

// Search runs a structured search and returns one page of results.
func (s *Service) Search(
	ctx context.Context, req *request.Request, requesterID string,
) (*result.Page, error) {
	return s.search(ctx, req, requesterID, false)
}

// SearchWithFacets runs a structured search and additionally aggregates
// facets over the full filtered match set.
func (s *Service) SearchWithFacets(
	ctx context.Context, req *request.Request, requesterID string,
) (*result.Page, error) {
	return s.search(ctx, req, requesterID, true)
}

func (s *Service) search(
	ctx context.Context, req *request.Request, requesterID string, withFacets bool,
) (*result.Page, error) {
	start := time.Now()
	kind := "structured"
	if withFacets {
		kind = "facets"
	}

	req.Normalize()

	flt, err := s.composeFilter(ctx, req, requesterID)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(kind, "error").Inc()
		return nil, err
	}

	plan := planSort(req.SortBy, req.SortOrder)

	q := &Query{
		Filter:         flt,
		Sort:           plan.store,
		Offset:         req.Page * req.Size,
		Limit:          req.Size,
		HydrateRatings: plan.resortByRating || flt.NeedsRatings(),
	}

	page, total, err := s.store.Search(ctx, q)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(kind, "error").Inc()
		return nil, fmt.Errorf("search documents: %w", err)
	}

	if plan.resortByRating {
		resortPageByRating(page, plan.ratingDesc)
	}

	docs := make([]domain.Document, 0, len(page))
	for i := range page {
		docs = append(docs, *page[i].Doc)
	}

	res := &result.Page{
		Documents:     docs,
		Page:          req.Page,
		PageSize:      req.Size,
		TotalElements: total,
		TotalPages:    totalPages(total, req.Size),
		Query:         req.Keyword,
		Took:          time.Since(start),
	}

	if withFacets {
		matches, err := s.store.SearchAll(ctx, flt)
		if err != nil {
			metrics.SearchRequestsTotal.WithLabelValues(kind, "error").Inc()
			return nil, fmt.Errorf("aggregate facets: %w", err)
		}
		res.Facets = aggregateFacets(matches)
	}

	metrics.SearchRequestsTotal.WithLabelValues(kind, "ok").Inc()
	metrics.SearchRequestDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	metrics.SearchResultsReturned.WithLabelValues(kind).Observe(float64(len(docs)))

	s.logger.Debug("structured search",
		zap.String("keyword", req.Keyword),
		zap.Int("page", req.Page),
		zap.Int64("total", total),
		zap.Bool("facets", withFacets),
		zap.Duration("took", res.Took),
	)

	return res, nil
}

// composeFilter builds the conjunctive filter for a request, including the
// requester's visibility predicate. An unknown requester gets no group
// memberships rather than an error, so anonymous searches still work.
func (s *Service) composeFilter(
	ctx context.Context, req *request.Request, requesterID string,
) (*filter.Filter, error) {
	var groups []string
	if requesterID != "" {
		var err error
		groups, err = s.groups.GroupsOf(ctx, requesterID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("resolve groups for %s: %w", requesterID, err)
		}
	}

	flt := filter.Compose(req, requesterID)
	flt.Add(filter.Visibility(requesterID, groups))
	return flt, nil
}

func totalPages(total int64, size int) int {
	if size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
