// Package chunker provides a word-window chunker.
package chunker

import (
	"context"
	"strings"

	"github.com/custodia-labs/ragkit/internal/core/domain"
	"github.com/custodia-labs/ragkit/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.Chunker = (*Processor)(nil)

// ChunkerName is the registry name of the chunker.
const ChunkerName = "WordChunker"

// DefaultUnits is the default number of words per chunk.
const DefaultUnits = 100

// DefaultOverlap is the default number of words shared by neighbouring chunks.
const DefaultOverlap = 50

// Processor splits document text into overlapping windows of words.
type Processor struct {
	units   int
	overlap int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithUnits sets the chunk size in words.
func WithUnits(units int) Option {
	return func(p *Processor) {
		if units > 0 {
			p.units = units
		}
	}
}

// WithOverlap sets the overlap between chunks in words.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		units:   DefaultUnits,
		overlap: DefaultOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't reach the chunk size
	if p.overlap >= p.units {
		p.overlap = p.units / 2
	}

	return p
}

// FromSettings creates a chunker from application settings.
func FromSettings(s domain.ChunkerSettings) *Processor {
	return New(WithUnits(s.Units), WithOverlap(s.Overlap))
}

// Info describes the chunker.
func (p *Processor) Info() domain.PluginInfo {
	return domain.PluginInfo{
		Name:        ChunkerName,
		Kind:        domain.PluginChunker,
		Description: "Splits documents into overlapping windows of words",
	}
}

// Chunk sets chunks on every document that has none yet.
// Documents that arrive pre-chunked, such as JSON records, are left as they are.
func (p *Processor) Chunk(ctx context.Context, docs []*domain.Document) error {
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if doc.HasChunks() {
			doc.NormalizeChunks()
			continue
		}
		doc.Chunks = p.split(doc)
	}
	return nil
}

func (p *Processor) split(doc *domain.Document) []domain.Chunk {
	words := strings.Fields(doc.Text)
	if len(words) == 0 {
		// Empty text produces no chunks
		return nil
	}

	step := p.units - p.overlap
	chunks := make([]domain.Chunk, 0, len(words)/step+1)

	for start := 0; start < len(words); start += step {
		end := start + p.units
		if end > len(words) {
			end = len(words)
		}

		chunks = append(chunks, domain.Chunk{
			Text:    strings.Join(words[start:end], " "),
			DocName: doc.Name,
			DocType: doc.Type,
			ChunkID: len(chunks),
			Tokens:  end - start,
		})

		if end == len(words) {
			break
		}
	}

	return chunks
}
