package driving

import "github.com/custodia-labs/ragkit/internal/core/domain"

// ConfigService inspects and creates the settings file.
type ConfigService interface {
	// Path returns the settings file location.
	Path() string

	// Exists reports whether the settings file has been written.
	Exists() (bool, error)

	// Settings returns the effective settings: the file layered over defaults.
	Settings() (domain.Settings, error)

	// Init writes the effective settings to the settings file. An existing
	// file is kept unless overwrite is set. Reports whether the file was written.
	Init(overwrite bool) (bool, error)
}
