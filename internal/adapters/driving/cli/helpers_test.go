package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragkit/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragkit/internal/core/domain"
	"github.com/custodia-labs/ragkit/internal/core/ports/driven"
	"github.com/custodia-labs/ragkit/internal/core/services"
	"github.com/custodia-labs/ragkit/internal/postprocessors/chunker"
)

// testReader returns a fixed set of documents.
type testReader struct{}

func (testReader) Info() domain.PluginInfo {
	return domain.PluginInfo{
		Name:        DefaultReader,
		Kind:        domain.PluginReader,
		Description: "Test reader",
		RequiresEnv: []string{"RAGKIT_TEST_UNSET_TOKEN"},
	}
}

func (testReader) Load(_ context.Context, req domain.LoadRequest) ([]*domain.Document, error) {
	return []*domain.Document{
		{
			Name: "docs/intro.md",
			Type: req.TypeOrDefault(),
			Link: "https://github.com/owner/repo/blob/main/docs/intro.md",
			Text: "ragkit loads documents from github",
		},
		{
			Name: "docs/guide.md",
			Type: req.TypeOrDefault(),
			Text: "embedding runs locally with onnx",
		},
	}, nil
}

// testEmbedder gives every word its own axis so searches are predictable.
type testEmbedder struct{}

var testAxes = map[string]int{"ragkit": 0, "github": 1, "onnx": 2}

func (testEmbedder) Info() domain.PluginInfo {
	return domain.PluginInfo{Name: "MiniLMEmbedder", Kind: domain.PluginEmbedder}
}

func (e testEmbedder) Embed(ctx context.Context, docs []*domain.Document, importer driven.DocumentImporter) error {
	for _, doc := range docs {
		for i := range doc.Chunks {
			doc.Chunks[i].Vector = e.vector(doc.Chunks[i].Text)
		}
	}
	return importer.ImportDocuments(ctx, docs)
}

func (e testEmbedder) VectorizeQuery(_ context.Context, query string) ([]float32, error) {
	return e.vector(query), nil
}

func (testEmbedder) Dimensions() int { return 4 }

func (testEmbedder) vector(text string) []float32 {
	v := []float32{0, 0, 0, 0.01}
	for w, axis := range testAxes {
		if strings.Contains(text, w) {
			v[axis] = 1
		}
	}
	return v
}

// setupTestServices installs services backed by an in-memory store and
// resets flag variables left over from earlier commands.
func setupTestServices() func() {
	store := memory.NewDocumentStore()
	registry := services.NewPluginRegistry()
	registry.Register(testReader{}.Info(), nil)
	registry.Register(chunker.New().Info(), nil)
	registry.Register(testEmbedder{}.Info(), func() error { return domain.ErrModelUnavailable })

	SetServices(&Services{
		Ingest: services.NewIngestService(
			[]driven.Reader{testReader{}},
			chunker.New(chunker.WithUnits(3), chunker.WithOverlap(1)),
			testEmbedder{},
			store,
		),
		Documents: services.NewDocumentService(store),
		Plugins:   registry,
	})
	resetFlags()

	return func() {
		SetServices(nil)
		resetFlags()
	}
}

func resetFlags() {
	loadReader, loadType, loadJSON = DefaultReader, domain.DefaultDocumentType, false
	ingestReader, ingestType, ingestDryRun = DefaultReader, domain.DefaultDocumentType, false
	queryLimit, queryJSON = 5, false
	configPath, verbose = "", false
	configOverwrite = false
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// ingestFixtures imports the test reader's documents and returns their IDs by name.
func ingestFixtures(t *testing.T) map[string]string {
	t.Helper()
	_, err := execute(t, "ingest", "owner/repo")
	require.NoError(t, err)

	docs, err := documentService.List(context.Background())
	require.NoError(t, err)

	ids := make(map[string]string, len(docs))
	for _, d := range docs {
		ids[d.Name] = d.ID
	}
	return ids
}
