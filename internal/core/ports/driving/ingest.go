package driving

import (
	"context"

	"github.com/custodia-labs/ragkit/internal/core/domain"
)

// IngestService runs the reader, chunker and embedder pipeline.
type IngestService interface {
	// Load fetches documents with the named reader without storing them.
	Load(ctx context.Context, reader string, req domain.LoadRequest) ([]*domain.Document, error)

	// Ingest loads, chunks and embeds documents, then imports them.
	Ingest(ctx context.Context, reader string, req domain.LoadRequest) (*IngestResult, error)

	// Query embeds text and returns the most similar stored chunks.
	Query(ctx context.Context, text string, limit int) ([]domain.Chunk, error)
}

// IngestResult summarises an Ingest call.
type IngestResult struct {
	// Documents is the number of documents imported.
	Documents int

	// Chunks is the number of chunks imported.
	Chunks int

	// Unembedded counts chunks left with an empty vector.
	Unembedded int
}
