package driven

import "github.com/custodia-labs/ragkit/internal/core/domain"

// SettingsStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files).
type SettingsStore interface {
	// Load reads settings from storage, applying defaults for missing keys.
	Load() (domain.Settings, error)

	// Save persists settings.
	Save(settings domain.Settings) error

	// Exists reports whether the configuration file has been created.
	Exists() (bool, error)

	// Path returns the configuration file path.
	Path() string
}
