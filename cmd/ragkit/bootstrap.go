package main

import (
	"fmt"

	"github.com/custodia-labs/ragkit/internal/adapters/driven/auth"
	"github.com/custodia-labs/ragkit/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ragkit/internal/adapters/driven/model/onnx"
	"github.com/custodia-labs/ragkit/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragkit/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ragkit/internal/adapters/driving/cli"
	"github.com/custodia-labs/ragkit/internal/core/domain"
	"github.com/custodia-labs/ragkit/internal/core/ports/driven"
	"github.com/custodia-labs/ragkit/internal/core/services"
	"github.com/custodia-labs/ragkit/internal/embedders/minilm"
	"github.com/custodia-labs/ragkit/internal/logger"
	"github.com/custodia-labs/ragkit/internal/postprocessors/chunker"
	"github.com/custodia-labs/ragkit/internal/readers/github"
)

// openModel loads the encoder. Replaced in tests.
var openModel = func(cfg onnx.Config) (driven.EncoderModel, error) {
	return onnx.Open(cfg)
}

// bootstrap builds the services a command needs from the settings file.
// The model is loaded only for commands that embed; the model check runs
// first so a missing runtime fails before any network or disk work.
func bootstrap(opts cli.Options) (*cli.Services, func(), error) {
	store, err := file.NewSettingsStore(opts.ConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("settings: %w", err)
	}
	settings, err := store.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, nil, fmt.Errorf("settings %s: %w", store.Path(), err)
	}
	logger.Debug("Settings loaded from %s", store.Path())

	modelCfg := onnx.ConfigFromSettings(settings.Embedding)
	reader := github.New(
		github.ConfigFromSettings(settings.GitHub),
		auth.NewEnvTokenProvider(settings.GitHub.TokenEnv),
	)
	words := chunker.FromSettings(settings.Chunker)

	registry := services.NewPluginRegistry()
	registry.Register(reader.Info(), nil)
	registry.Register(words.Info(), nil)
	registry.Register(minilm.Info(), func() error { return onnx.Check(modelCfg) })

	var closers []func() error
	release := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn("Cleanup failed: %v", err)
			}
		}
	}

	docStore, err := openStore(settings.Storage, opts.InMemory)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, docStore.Close)

	var embedder driven.Embedder
	if opts.LoadModel {
		if err := onnx.Check(modelCfg); err != nil {
			release()
			return nil, nil, err
		}
		model, err := openModel(modelCfg)
		if err != nil {
			release()
			return nil, nil, err
		}
		closers = append(closers, model.Close)
		embedder = minilm.New(model, minilm.WithProgressWriter(logger.Output()))
		logger.Debug("Model %s loaded from %s", model.Name(), modelCfg.ModelDir)
	}

	return &cli.Services{
		Ingest:    services.NewIngestService([]driven.Reader{reader}, words, embedder, docStore),
		Documents: services.NewDocumentService(docStore),
		Plugins:   registry,
		Config:    services.NewConfigService(store),
	}, release, nil
}

func openStore(s domain.StorageSettings, inMemory bool) (driven.DocumentStore, error) {
	if inMemory {
		logger.Debug("Using in-memory document store")
		return memory.NewDocumentStore(), nil
	}
	store, err := sqlite.NewStore(s.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}
	logger.Debug("Document store at %s", store.Path())
	return store, nil
}
