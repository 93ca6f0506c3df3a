package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/ragkit/internal/core/domain"
	"github.com/custodia-labs/ragkit/internal/core/ports/driven"
	"github.com/custodia-labs/ragkit/internal/core/ports/driving"
	"github.com/custodia-labs/ragkit/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// DefaultQueryLimit is the number of chunks Query returns when no limit is given.
const DefaultQueryLimit = 5

// IngestService runs documents through reader, chunker and embedder into the store.
type IngestService struct {
	readers  map[string]driven.Reader
	chunker  driven.Chunker
	embedder driven.Embedder
	store    driven.DocumentStore
}

// NewIngestService creates a new ingest service.
// The chunker, embedder and store are optional (can be nil) for load-only use;
// Ingest and Query report which one is missing.
func NewIngestService(
	readers []driven.Reader,
	chunker driven.Chunker,
	embedder driven.Embedder,
	store driven.DocumentStore,
) *IngestService {
	s := &IngestService{
		readers:  make(map[string]driven.Reader, len(readers)),
		chunker:  chunker,
		embedder: embedder,
		store:    store,
	}
	for _, r := range readers {
		s.readers[r.Info().Name] = r
	}
	return s
}

// Load fetches documents with the named reader without storing them.
func (s *IngestService) Load(
	ctx context.Context, reader string, req domain.LoadRequest,
) ([]*domain.Document, error) {
	r, ok := s.readers[reader]
	if !ok {
		return nil, fmt.Errorf("%w: reader %q", domain.ErrUnsupportedType, reader)
	}

	logger.Section("Load")
	logger.Debug("Reader: %s, paths: %v, type: %s", reader, req.Paths, req.TypeOrDefault())

	docs, err := r.Load(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return docs, nil
}

// Ingest loads, chunks and embeds documents, then imports them.
// The embedder performs the import so that vectors and documents land together.
func (s *IngestService) Ingest(
	ctx context.Context, reader string, req domain.LoadRequest,
) (*driving.IngestResult, error) {
	if s.chunker == nil {
		return nil, errors.New("ingest: chunker not configured")
	}
	if s.embedder == nil {
		return nil, fmt.Errorf("ingest: %w", domain.ErrModelUnavailable)
	}
	if s.store == nil {
		return nil, fmt.Errorf("ingest: %w", domain.ErrStoreUnavailable)
	}

	docs, err := s.Load(ctx, reader, req)
	if err != nil {
		return nil, err
	}

	logger.Section("Chunk")
	if err := s.chunker.Chunk(ctx, docs); err != nil {
		return nil, fmt.Errorf("chunk: %w", err)
	}

	result := &driving.IngestResult{Documents: len(docs)}
	for _, doc := range docs {
		result.Chunks += len(doc.Chunks)
	}
	logger.Debug("Chunked %d documents into %d chunks", result.Documents, result.Chunks)

	logger.Section("Embed")
	if err := s.embedder.Embed(ctx, docs, s.store); err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}

	for _, doc := range docs {
		for i := range doc.Chunks {
			if len(doc.Chunks[i].Vector) == 0 {
				result.Unembedded++
			}
		}
	}

	if result.Unembedded > 0 {
		logger.Warn("%d of %d chunks have no vector", result.Unembedded, result.Chunks)
	}
	logger.Info("Imported %d documents (%d chunks)", result.Documents, result.Chunks)

	return result, nil
}

// Query embeds text and returns the most similar stored chunks.
func (s *IngestService) Query(ctx context.Context, text string, limit int) ([]domain.Chunk, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return nil, fmt.Errorf("query: %w", domain.ErrModelUnavailable)
	}
	if s.store == nil {
		return nil, fmt.Errorf("query: %w", domain.ErrStoreUnavailable)
	}
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	logger.Section("Query")
	logger.Debug("Query: %q, limit: %d", text, limit)

	vector, err := s.embedder.VectorizeQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	chunks, err := s.store.SearchChunks(ctx, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	logger.Debug("Results: %d chunks", len(chunks))
	return chunks, nil
}
