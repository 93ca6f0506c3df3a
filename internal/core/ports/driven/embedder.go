package driven

import (
	"context"

	"github.com/custodia-labs/ragkit/internal/core/domain"
)

// Embedder attaches vectors to document chunks.
type Embedder interface {
	// Info describes the embedder.
	Info() domain.PluginInfo

	// Embed sets a vector on every chunk of every document, then hands the
	// documents to importer. Per-chunk failures leave an empty vector and do
	// not fail the call; the importer's error is returned.
	Embed(ctx context.Context, docs []*domain.Document, importer DocumentImporter) error

	// VectorizeQuery embeds a search query.
	VectorizeQuery(ctx context.Context, query string) ([]float32, error)

	// Dimensions returns the vector size (e.g. 384).
	Dimensions() int
}

// EncoderModel is a loaded tokenizer and transformer encoder.
// Implementations own native resources and must be closed.
type EncoderModel interface {
	// Name returns the model identifier.
	Name() string

	// Tokenize splits text into word-piece tokens without special tokens.
	Tokenize(text string) ([]string, error)

	// TokenLength returns how many ids a single token encodes to,
	// without special tokens.
	TokenLength(token string) (int, error)

	// MaxLength returns the longest input, in ids, the model accepts.
	MaxLength() int

	// SpecialTokens returns how many ids the tokenizer adds around an input
	// (2 for [CLS] and [SEP]).
	SpecialTokens() int

	// Dimensions returns the hidden size.
	Dimensions() int

	// Forward encodes text and returns the last hidden states,
	// one row per position, plus the attention mask for those positions.
	Forward(ctx context.Context, text string) (hidden [][]float32, mask []int, err error)

	// Close releases the model.
	Close() error
}
