package onnx

import (
	"path/filepath"

	"github.com/custodia-labs/ragkit/internal/core/domain"
)

const (
	// ModelFile is the ONNX graph inside the model directory.
	ModelFile = "model.onnx"

	// TokenizerFile is the tokenizer definition inside the model directory.
	TokenizerFile = "tokenizer.json"

	// DefaultMaxLength is the position limit of BERT-style encoders.
	DefaultMaxLength = 512

	// DefaultDimensions is the hidden size of all-MiniLM-L6-v2.
	DefaultDimensions = 384
)

// Config locates and sizes the model.
type Config struct {
	ModelDir      string
	SharedLibrary string
	MaxLength     int
	Dimensions    int
}

// ConfigFromSettings builds a Config from application settings.
func ConfigFromSettings(s domain.EmbeddingSettings) Config {
	cfg := Config{
		ModelDir:      s.ModelDir,
		SharedLibrary: s.SharedLibrary,
		MaxLength:     s.MaxLength,
		Dimensions:    s.Dimensions,
	}
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = DefaultMaxLength
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = DefaultDimensions
	}
	return cfg
}

// ModelPath returns the path of model.onnx.
func (c Config) ModelPath() string {
	return filepath.Join(c.ModelDir, ModelFile)
}

// TokenizerPath returns the path of tokenizer.json.
func (c Config) TokenizerPath() string {
	return filepath.Join(c.ModelDir, TokenizerFile)
}

// Name returns the model directory's base name, e.g. "all-MiniLM-L6-v2".
func (c Config) Name() string {
	return filepath.Base(c.ModelDir)
}
