package driven

import (
	"context"

	"github.com/custodia-labs/ragkit/internal/core/domain"
)

// DocumentImporter is the storage step embedders hand finished documents to.
type DocumentImporter interface {
	// ImportDocuments persists documents and their chunks.
	// It assigns Document.ID and Chunk.DocUUID.
	ImportDocuments(ctx context.Context, docs []*domain.Document) error
}

// DocumentStore persists documents and chunks and searches chunk vectors.
type DocumentStore interface {
	DocumentImporter

	// GetDocument retrieves a document by ID, without its chunks.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunks retrieves all chunks for a document, ordered by ChunkID.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// ListDocuments returns every stored document, without chunks.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error

	// SearchChunks returns the k chunks most similar to query,
	// best first, with Score set to the cosine similarity.
	SearchChunks(ctx context.Context, query []float32, k int) ([]domain.Chunk, error)

	// Close releases resources.
	Close() error
}
