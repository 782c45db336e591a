package backfill

import (
	"context"

	"github.com/harbormind/docsearch/internal/domain"
)

// Store is the document store surface the backfill needs.
type Store interface {
	// MissingEmbeddings returns every document that has no embedding yet.
	MissingEmbeddings(ctx context.Context) ([]domain.Document, error)
	// SaveEmbedding persists a computed embedding for a document.
	SaveEmbedding(ctx context.Context, docID string, embedding []float32) error
}
