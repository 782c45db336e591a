// Package backfill computes embeddings for documents that do not have one,
// on a fixed schedule. Embedding presence is the completion marker, so runs
// are idempotent and safe to repeat.
package backfill

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/harbormind/docsearch/internal/domain"
	"github.com/harbormind/docsearch/internal/metrics"
)

// DefaultInterval is the pause between backfill runs.
const DefaultInterval = time.Hour

// Stats summarizes one backfill run.
type Stats struct {
	Scanned  int
	Embedded int
	Skipped  int
	Failed   int
}

// Service is the embedding backfill scheduler.
type Service struct {
	store    Store
	embed    domain.Embedder
	interval time.Duration
	logger   *zap.Logger
}

// New creates a backfill service. A non-positive interval falls back to
// DefaultInterval.
func New(store Store, embed domain.Embedder, interval time.Duration, logger *zap.Logger) *Service {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Service{store: store, embed: embed, interval: interval, logger: logger}
}

// Run executes one backfill immediately, then repeats on the configured
// interval until the context is canceled. The interval is measured from the
// end of one run to the start of the next.
func (s *Service) Run(ctx context.Context) {
	for {
		if stats, err := s.RunOnce(ctx); err != nil {
			s.logger.Error("backfill run failed", zap.Error(err))
		} else if stats.Scanned > 0 {
			s.logger.Info("backfill run complete",
				zap.Int("scanned", stats.Scanned),
				zap.Int("embedded", stats.Embedded),
				zap.Int("skipped", stats.Skipped),
				zap.Int("failed", stats.Failed),
			)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.interval):
		}
	}
}

// RunOnce processes every document missing an embedding. A failure on one
// document is logged and counted, never fatal for the run; the document is
// retried on the next run.
func (s *Service) RunOnce(ctx context.Context) (Stats, error) {
	start := time.Now()

	docs, err := s.store.MissingEmbeddings(ctx)
	if err != nil {
		metrics.BackfillRunsTotal.WithLabelValues("error").Inc()
		return Stats{}, fmt.Errorf("list documents missing embeddings: %w", err)
	}

	stats := Stats{Scanned: len(docs)}

	for i := range docs {
		doc := &docs[i]

		if err := ctx.Err(); err != nil {
			metrics.BackfillRunsTotal.WithLabelValues("error").Inc()
			return stats, fmt.Errorf("backfill interrupted: %w", err)
		}

		text := doc.EmbeddingText()
		if text == "" {
			stats.Skipped++
			metrics.BackfillDocumentsTotal.WithLabelValues("skipped").Inc()
			continue
		}

		res, err := s.embed.Embed(ctx, text)
		if err != nil {
			stats.Failed++
			metrics.BackfillDocumentsTotal.WithLabelValues("failed").Inc()
			s.logger.Warn("backfill embedding failed",
				zap.String("doc_id", doc.ID),
				zap.Error(err),
			)
			continue
		}

		if err := s.store.SaveEmbedding(ctx, doc.ID, res.Embedding); err != nil {
			stats.Failed++
			metrics.BackfillDocumentsTotal.WithLabelValues("failed").Inc()
			s.logger.Warn("backfill save failed",
				zap.String("doc_id", doc.ID),
				zap.Error(err),
			)
			continue
		}

		stats.Embedded++
		metrics.BackfillDocumentsTotal.WithLabelValues("embedded").Inc()
	}

	metrics.BackfillRunsTotal.WithLabelValues("success").Inc()
	metrics.BackfillRunDuration.Observe(time.Since(start).Seconds())

	return stats, nil
}
