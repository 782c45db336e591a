package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/harbormind/docsearch/internal/domain"
	"github.com/harbormind/docsearch/internal/domain/search/filter"
	"github.com/harbormind/docsearch/internal/domain/search/request"
	"github.com/harbormind/docsearch/internal/domain/search/result"
	"github.com/harbormind/docsearch/internal/metrics"
)

// Semantic ranks the requester's visible, non-archived documents by cosine
// similarity to the query and returns the top hits. Documents without an
// embedding are skipped; a failure to embed the query itself is fatal.
func (s *Service) Semantic(
	ctx context.Context, query, requesterID string, limit int,
) (*result.SemanticResult, error) {
	start := time.Now()
	limit = request.ClampSemanticLimit(limit)

	embRes, err := s.embed.Embed(ctx, query)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("semantic", "error").Inc()
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	var groups []string
	if requesterID != "" {
		groups, err = s.groups.GroupsOf(ctx, requesterID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			metrics.SearchRequestsTotal.WithLabelValues("semantic", "error").Inc()
			return nil, fmt.Errorf("resolve groups for %s: %w", requesterID, err)
		}
	}

	flt := filter.New().
		Add(filter.NotArchived()).
		Add(filter.Visibility(requesterID, groups))

	matches, err := s.store.SearchAll(ctx, flt)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("semantic", "error").Inc()
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	hits := make([]result.SemanticHit, 0, len(matches))
	for i := range matches {
		doc := matches[i].Doc
		if !doc.HasEmbedding() {
			continue
		}

		score, err := domain.CosineSimilarity(embRes.Embedding, doc.Embedding)
		if err != nil {
			// Stale embedding from a previous model dimension. Skip the
			// document rather than failing the whole search.
			s.logger.Warn("skipping document with incompatible embedding",
				zap.String("doc_id", doc.ID),
				zap.Error(err),
			)
			continue
		}

		hits = append(hits, result.SemanticHit{Document: *doc, Score: score})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}

	took := time.Since(start)
	metrics.SearchRequestsTotal.WithLabelValues("semantic", "ok").Inc()
	metrics.SearchRequestDuration.WithLabelValues("semantic").Observe(took.Seconds())
	metrics.SearchResultsReturned.WithLabelValues("semantic").Observe(float64(len(hits)))

	s.logger.Debug("semantic search",
		zap.Int("candidates", len(matches)),
		zap.Int("hits", len(hits)),
		zap.Duration("took", took),
	)

	return &result.SemanticResult{Hits: hits, Query: query, Took: took}, nil
}
