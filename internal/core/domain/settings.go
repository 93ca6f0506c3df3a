package domain

import (
	"fmt"
	"time"
)

// GitHubSettings configures the GitHub reader.
type GitHubSettings struct {
	// BaseURL is the REST API root. Must end with a slash.
	BaseURL string `toml:"base_url"`

	// Branch is the tree-ish listed by the reader.
	Branch string `toml:"branch"`

	// TokenEnv names the environment variable holding the bearer token.
	TokenEnv string `toml:"token_env"`

	// Extensions is the allow-list of file extensions, including the dot.
	Extensions []string `toml:"extensions"`

	// Exclude lists glob patterns ("**" allowed) of tree paths to skip.
	Exclude []string `toml:"exclude"`

	// TimeoutSeconds bounds each HTTP request. Zero disables the timeout.
	TimeoutSeconds int `toml:"timeout_seconds"`

	// RequestsPerSecond enables proactive throttling when positive.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Timeout returns TimeoutSeconds as a duration.
func (g GitHubSettings) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// EmbeddingSettings configures the local embedding model.
type EmbeddingSettings struct {
	// ModelDir holds model.onnx and tokenizer.json.
	ModelDir string `toml:"model_dir"`

	// SharedLibrary is the path to the ONNX Runtime shared library.
	// Empty uses the runtime's default lookup.
	SharedLibrary string `toml:"shared_library"`

	// MaxLength is the model's maximum input length in tokens.
	MaxLength int `toml:"max_length"`

	// Dimensions is the model's hidden size.
	Dimensions int `toml:"dimensions"`
}

// ChunkerSettings configures the word chunker.
type ChunkerSettings struct {
	// Units is the number of words per chunk.
	Units int `toml:"units"`

	// Overlap is the number of words shared by neighbouring chunks.
	Overlap int `toml:"overlap"`
}

// StorageSettings configures the document store.
type StorageSettings struct {
	// DataDir holds the SQLite database.
	DataDir string `toml:"data_dir"`
}

// Settings holds all application settings.
type Settings struct {
	GitHub    GitHubSettings    `toml:"github"`
	Embedding EmbeddingSettings `toml:"embedding"`
	Chunker   ChunkerSettings   `toml:"chunker"`
	Storage   StorageSettings   `toml:"storage"`
}

// DefaultExtensions returns the file extensions the GitHub reader accepts by default.
func DefaultExtensions() []string {
	return []string{".md", ".mdx", ".txt", ".json"}
}

// DefaultSettings returns settings with sensible defaults.
// Paths that depend on the home directory are left empty and resolved by the config store.
func DefaultSettings() Settings {
	return Settings{
		GitHub: GitHubSettings{
			BaseURL:        "https://api.github.com/",
			Branch:         "main",
			TokenEnv:       "GITHUB_TOKEN",
			Extensions:     DefaultExtensions(),
			Exclude:        []string{},
			TimeoutSeconds: 30,
		},
		Embedding: EmbeddingSettings{
			MaxLength:  512,
			Dimensions: 384, // all-MiniLM-L6-v2 hidden size
		},
		Chunker: ChunkerSettings{
			Units:   100,
			Overlap: 50,
		},
	}
}

// Validate checks the settings are internally consistent.
func (s Settings) Validate() error {
	if s.GitHub.Branch == "" {
		return fmt.Errorf("%w: github.branch is empty", ErrInvalidInput)
	}
	if len(s.GitHub.Extensions) == 0 {
		return fmt.Errorf("%w: github.extensions is empty", ErrInvalidInput)
	}
	if s.GitHub.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: github.timeout_seconds must not be negative", ErrInvalidInput)
	}
	if s.Embedding.MaxLength <= 0 {
		return fmt.Errorf("%w: embedding.max_length must be positive", ErrInvalidInput)
	}
	if s.Embedding.Dimensions <= 0 {
		return fmt.Errorf("%w: embedding.dimensions must be positive", ErrInvalidInput)
	}
	if s.Chunker.Units <= 0 {
		return fmt.Errorf("%w: chunker.units must be positive", ErrInvalidInput)
	}
	if s.Chunker.Overlap < 0 || s.Chunker.Overlap >= s.Chunker.Units {
		return fmt.Errorf("%w: chunker.overlap must be in [0, units)", ErrInvalidInput)
	}
	return nil
}
