package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/ragkit/internal/core/domain"
	"github.com/custodia-labs/ragkit/internal/core/ports/driven"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

const (
	configFileName = "config.toml"
	defaultModel   = "all-MiniLM-L6-v2"
)

// SettingsStore persists domain.Settings as a TOML file.
// Keys missing from the file keep their defaults, so a partial file is valid.
type SettingsStore struct {
	mu       sync.Mutex
	filePath string
}

// NewSettingsStore creates a TOML-based settings store.
// If filePath is empty, defaults to ~/.ragkit/config.toml.
func NewSettingsStore(filePath string) (*SettingsStore, error) {
	if filePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		filePath = filepath.Join(home, ".ragkit", configFileName)
	}
	return &SettingsStore{filePath: filePath}, nil
}

// Path returns the settings file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}

// Load reads settings from disk, layered over the defaults.
// A missing file yields the defaults.
func (s *SettingsStore) Load() (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := domain.DefaultSettings()

	data, err := os.ReadFile(s.filePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No config file yet - defaults only
	case err != nil:
		return domain.Settings{}, err
	default:
		if err := toml.Unmarshal(data, &settings); err != nil {
			return domain.Settings{}, fmt.Errorf("parse %s: %w", s.filePath, err)
		}
	}

	s.resolvePaths(&settings)
	return settings, nil
}

// Save writes settings to disk, creating the parent directory if needed.
func (s *SettingsStore) Save(settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0700); err != nil {
		return err
	}

	data, err := toml.Marshal(settings)
	if err != nil {
		return err
	}

	// Write with restricted permissions
	return os.WriteFile(s.filePath, data, 0600)
}

// Exists reports whether the settings file is present on disk.
func (s *SettingsStore) Exists() (bool, error) {
	_, err := os.Stat(s.filePath)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// resolvePaths fills home-relative defaults next to the config file and expands "~/".
func (s *SettingsStore) resolvePaths(settings *domain.Settings) {
	base := filepath.Dir(s.filePath)

	if settings.Embedding.ModelDir == "" {
		settings.Embedding.ModelDir = filepath.Join(base, "models", defaultModel)
	}
	if settings.Storage.DataDir == "" {
		settings.Storage.DataDir = filepath.Join(base, "data")
	}

	settings.Embedding.ModelDir = expandHome(settings.Embedding.ModelDir)
	settings.Embedding.SharedLibrary = expandHome(settings.Embedding.SharedLibrary)
	settings.Storage.DataDir = expandHome(settings.Storage.DataDir)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
