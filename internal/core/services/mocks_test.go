package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/ragkit/internal/core/domain"
	"github.com/custodia-labs/ragkit/internal/core/ports/driven"
)

// mockReader implements driven.Reader for testing.
type mockReader struct {
	name string
	docs []*domain.Document
	err  error
	reqs []domain.LoadRequest
}

func (m *mockReader) Info() domain.PluginInfo {
	return domain.PluginInfo{Name: m.name, Kind: domain.PluginReader}
}

func (m *mockReader) Load(_ context.Context, req domain.LoadRequest) ([]*domain.Document, error) {
	m.reqs = append(m.reqs, req)
	if m.err != nil {
		return nil, m.err
	}
	return m.docs, nil
}

// mockChunker splits text on whitespace, one word per chunk.
type mockChunker struct {
	err error
}

func (m *mockChunker) Info() domain.PluginInfo {
	return domain.PluginInfo{Name: "mock-chunker", Kind: domain.PluginChunker}
}

func (m *mockChunker) Chunk(_ context.Context, docs []*domain.Document) error {
	if m.err != nil {
		return m.err
	}
	for _, doc := range docs {
		if doc.HasChunks() {
			continue
		}
		for i, w := range strings.Fields(doc.Text) {
			doc.Chunks = append(doc.Chunks, domain.Chunk{
				Text: w, DocName: doc.Name, DocType: doc.Type, ChunkID: i, Tokens: 1,
			})
		}
	}
	return nil
}

// mockEmbedder maps text to a fixed vector. Text listed in fail gets an empty vector.
type mockEmbedder struct {
	vectors  map[string][]float32
	fail     map[string]bool
	queryErr error
	embedErr error
}

func (m *mockEmbedder) Info() domain.PluginInfo {
	return domain.PluginInfo{Name: "mock-embedder", Kind: domain.PluginEmbedder}
}

func (m *mockEmbedder) Embed(ctx context.Context, docs []*domain.Document, importer driven.DocumentImporter) error {
	if m.embedErr != nil {
		return m.embedErr
	}
	for _, doc := range docs {
		for i := range doc.Chunks {
			if m.fail[doc.Chunks[i].Text] {
				doc.Chunks[i].Vector = []float32{}
				continue
			}
			doc.Chunks[i].Vector = m.vector(doc.Chunks[i].Text)
		}
	}
	return importer.ImportDocuments(ctx, docs)
}

func (m *mockEmbedder) VectorizeQuery(_ context.Context, query string) ([]float32, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.vector(query), nil
}

func (m *mockEmbedder) Dimensions() int { return 2 }

func (m *mockEmbedder) vector(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		return v
	}
	return []float32{1, 1}
}
