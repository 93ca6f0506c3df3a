// Package memory provides in-memory implementations of driven ports,
// used by tests and by dry runs that should not touch disk.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragkit/internal/core/domain"
	"github.com/custodia-labs/ragkit/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	chunks    map[string][]domain.Chunk
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string][]domain.Chunk),
	}
}

// ImportDocuments stores documents and their chunks, replacing earlier
// imports with the same name.
func (s *DocumentStore) ImportDocuments(_ context.Context, docs []*domain.Document) error {
	for _, doc := range docs {
		if doc.Name == "" {
			return fmt.Errorf("%w: document without a name", domain.ErrInvalidInput)
		}
		if id, dup := doc.DuplicateChunkID(); dup {
			return fmt.Errorf("%w: %s has chunk ID %d more than once", domain.ErrInvalidInput, doc.Name, id)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range docs {
		for id, existing := range s.documents {
			if existing.Name == doc.Name {
				delete(s.documents, id)
				delete(s.chunks, id)
			}
		}

		doc.ID = uuid.NewString()
		for i := range doc.Chunks {
			doc.Chunks[i].DocUUID = doc.ID
		}

		stored := *doc
		stored.Chunks = nil
		s.documents[doc.ID] = stored

		chunks := make([]domain.Chunk, len(doc.Chunks))
		copy(chunks, doc.Chunks)
		sort.SliceStable(chunks, func(i, j int) bool { return chunks[i].ChunkID < chunks[j].ChunkID })
		s.chunks[doc.ID] = chunks
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// GetChunks retrieves all chunks for a document.
func (s *DocumentStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.documents[documentID]; !ok {
		return nil, domain.ErrNotFound
	}
	chunks := make([]domain.Chunk, len(s.chunks[documentID]))
	copy(chunks, s.chunks[documentID])
	return chunks, nil
}

// ListDocuments returns every document ordered by name.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

// DeleteDocument removes a document and its chunks.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.documents, id)
	delete(s.chunks, id)
	return nil
}

// SearchChunks ranks every stored chunk by cosine similarity.
func (s *DocumentStore) SearchChunks(_ context.Context, query []float32, k int) ([]domain.Chunk, error) {
	if len(query) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", domain.ErrInvalidInput)
	}

	s.mu.RLock()
	var all []domain.Chunk
	for _, chunks := range s.chunks {
		for _, c := range chunks {
			if len(c.Vector) == len(query) {
				all = append(all, c)
			}
		}
	}
	s.mu.RUnlock()

	return domain.RankChunks(query, all, k), nil
}

// Close is a no-op.
func (s *DocumentStore) Close() error {
	return nil
}
