package driving

import (
	"context"

	"github.com/custodia-labs/ragkit/internal/core/domain"
)

// DocumentService provides access to imported documents.
type DocumentService interface {
	// List returns all imported documents.
	List(ctx context.Context) ([]domain.Document, error)

	// Get returns a document by ID.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Chunks returns the chunks of a document.
	Chunks(ctx context.Context, id string) ([]domain.Chunk, error)

	// Delete removes a document and its chunks.
	Delete(ctx context.Context, id string) error
}
