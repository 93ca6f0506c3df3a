package github

import (
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/custodia-labs/ragkit/internal/core/domain"
)

const (
	// ReaderName is the registry name of the reader and the Reader field of its documents.
	ReaderName = "GithubReader"

	// DefaultBaseURL is the public GitHub REST API root.
	DefaultBaseURL = "https://api.github.com/"

	// DefaultBranch is the tree-ish listed when none is configured.
	DefaultBranch = "main"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
)

// Config holds the reader configuration.
type Config struct {
	// BaseURL is the REST API root. A trailing slash is added if missing.
	BaseURL string

	// Branch is the tree-ish to list and download from.
	Branch string

	// TokenEnv names the environment variable holding the token.
	TokenEnv string

	// Extensions is the allow-list of file extensions.
	Extensions []string

	// Exclude lists glob patterns of tree paths to skip, e.g. "**/CHANGELOG.md".
	Exclude []string

	// Timeout bounds each HTTP request. Zero disables it.
	Timeout time.Duration

	// RequestsPerSecond enables proactive throttling when positive.
	RequestsPerSecond float64
}

// DefaultConfig returns the configuration used against github.com.
func DefaultConfig() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		Branch:     DefaultBranch,
		TokenEnv:   "GITHUB_TOKEN",
		Extensions: domain.DefaultExtensions(),
		Timeout:    DefaultTimeout,
	}
}

// ConfigFromSettings builds a Config from application settings.
// Empty fields fall back to DefaultConfig.
func ConfigFromSettings(s domain.GitHubSettings) Config {
	cfg := DefaultConfig()
	if s.BaseURL != "" {
		cfg.BaseURL = s.BaseURL
	}
	if s.Branch != "" {
		cfg.Branch = s.Branch
	}
	if s.TokenEnv != "" {
		cfg.TokenEnv = s.TokenEnv
	}
	if len(s.Extensions) > 0 {
		cfg.Extensions = s.Extensions
	}
	cfg.Exclude = s.Exclude
	cfg.Timeout = s.Timeout()
	cfg.RequestsPerSecond = s.RequestsPerSecond
	return cfg
}

// baseURL returns BaseURL with exactly one trailing slash.
func (c Config) baseURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/"
}

// Validate checks the exclude patterns are well-formed.
func (c Config) Validate() error {
	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: bad exclude pattern %q", domain.ErrInvalidInput, pattern)
		}
	}
	return nil
}

// excluded reports whether a tree path matches any exclude pattern.
func (c Config) excluded(path string) bool {
	for _, pattern := range c.Exclude {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}
