package driven

import (
	"context"

	"github.com/custodia-labs/ragkit/internal/core/domain"
)

// Chunker splits document text into chunks.
type Chunker interface {
	// Info describes the chunker.
	Info() domain.PluginInfo

	// Chunk sets Chunks on every document that has none yet.
	Chunk(ctx context.Context, docs []*domain.Document) error
}
