package minilm

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/custodia-labs/ragkit/internal/core/domain"
	"github.com/custodia-labs/ragkit/internal/core/ports/driven"
	"github.com/custodia-labs/ragkit/internal/logger"
)

// Ensure Embedder implements the interface.
var _ driven.Embedder = (*Embedder)(nil)

// EmbedderName is the registry name of the embedder.
const EmbedderName = "MiniLMEmbedder"

// Embedder computes chunk vectors with a MiniLM encoder.
type Embedder struct {
	model    driven.EncoderModel
	progress io.Writer
}

// Option configures an Embedder.
type Option func(*Embedder)

// WithProgressWriter sets where the progress bar is drawn. Defaults to os.Stderr.
func WithProgressWriter(w io.Writer) Option {
	return func(e *Embedder) {
		e.progress = w
	}
}

// New creates an embedder over a loaded model. The caller owns the model.
func New(model driven.EncoderModel, opts ...Option) *Embedder {
	e := &Embedder{
		model:    model,
		progress: os.Stderr,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Info describes the embedder.
func (e *Embedder) Info() domain.PluginInfo {
	return Info()
}

// Info describes the embedder without a loaded model.
func Info() domain.PluginInfo {
	return domain.PluginInfo{
		Name:            EmbedderName,
		Kind:            domain.PluginEmbedder,
		Description:     "Embeds and retrieves objects using SentenceTransformer's all-MiniLM-L6-v2 model",
		RequiresLibrary: []string{"onnxruntime", "model.onnx", "tokenizer.json"},
	}
}

// Dimensions returns the model's hidden size.
func (e *Embedder) Dimensions() int {
	return e.model.Dimensions()
}

// Embed sets a vector on every chunk, then imports the documents.
// A chunk that cannot be embedded keeps an empty vector.
func (e *Embedder) Embed(ctx context.Context, docs []*domain.Document, importer driven.DocumentImporter) error {
	if importer == nil {
		return domain.ErrStoreUnavailable
	}

	bar := progressbar.NewOptions(len(docs),
		progressbar.OptionSetDescription("Vectorizing document chunks"),
		progressbar.OptionSetWriter(e.progress),
		progressbar.OptionShowCount(),
	)

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}

		for i := range doc.Chunks {
			chunk := &doc.Chunks[i]
			vector, err := e.VectorizeChunk(ctx, chunk.Text)
			if err != nil {
				logger.Warn("Embedding chunk %d of %s failed: %v", chunk.ChunkID, doc.Name, err)
				vector = []float32{}
			}
			chunk.Vector = vector
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	return importer.ImportDocuments(ctx, docs)
}

// VectorizeChunk embeds a single text.
func (e *Embedder) VectorizeChunk(ctx context.Context, text string) ([]float32, error) {
	tokens, err := e.model.Tokenize(text)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("tokenize: text has no tokens")
	}

	batches, err := splitBatches(tokens, e.budget(), e.model.TokenLength)
	if err != nil {
		return nil, fmt.Errorf("measure tokens: %w", err)
	}

	vectors := make([][]float32, 0, len(batches))
	for i, batch := range batches {
		hidden, mask, err := e.model.Forward(ctx, joinTokens(batch))
		if err != nil {
			return nil, fmt.Errorf("forward batch %d: %w", i, err)
		}
		vector, err := meanPool(hidden, mask)
		if err != nil {
			return nil, fmt.Errorf("pool batch %d: %w", i, err)
		}
		vectors = append(vectors, vector)
	}
	logger.Debug("Embedded %d tokens in %d batches", len(tokens), len(batches))

	vector, err := average(vectors)
	if err != nil {
		return nil, err
	}
	if dims := e.model.Dimensions(); len(vector) != dims {
		return nil, fmt.Errorf("model returned %d dimensions, want %d", len(vector), dims)
	}
	return vector, nil
}

// VectorizeQuery embeds a search query.
func (e *Embedder) VectorizeQuery(ctx context.Context, query string) ([]float32, error) {
	vector, err := e.VectorizeChunk(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingFailed, err)
	}
	return vector, nil
}

// budget is the number of ids available to a batch once special tokens are added.
func (e *Embedder) budget() int {
	b := e.model.MaxLength() - e.model.SpecialTokens()
	if b < 1 {
		return 1
	}
	return b
}
