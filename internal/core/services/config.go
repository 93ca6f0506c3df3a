package services

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/ragkit/internal/core/domain"
	"github.com/custodia-labs/ragkit/internal/core/ports/driven"
	"github.com/custodia-labs/ragkit/internal/core/ports/driving"
)

// Ensure ConfigService implements the interface.
var _ driving.ConfigService = (*ConfigService)(nil)

var errNoSettingsStore = errors.New("settings store not configured")

// ConfigService manages the settings file.
type ConfigService struct {
	store driven.SettingsStore
}

// NewConfigService creates a new config service.
func NewConfigService(store driven.SettingsStore) *ConfigService {
	return &ConfigService{store: store}
}

// Path returns the settings file location.
func (s *ConfigService) Path() string {
	if s.store == nil {
		return ""
	}
	return s.store.Path()
}

// Exists reports whether the settings file has been written.
func (s *ConfigService) Exists() (bool, error) {
	if s.store == nil {
		return false, errNoSettingsStore
	}
	return s.store.Exists()
}

// Settings returns the effective settings.
func (s *ConfigService) Settings() (domain.Settings, error) {
	if s.store == nil {
		return domain.Settings{}, errNoSettingsStore
	}
	return s.store.Load()
}

// Init writes the effective settings to the settings file.
func (s *ConfigService) Init(overwrite bool) (bool, error) {
	if s.store == nil {
		return false, errNoSettingsStore
	}

	if !overwrite {
		exists, err := s.store.Exists()
		if err != nil {
			return false, err
		}
		if exists {
			return false, nil
		}
	}

	settings, err := s.store.Load()
	if err != nil {
		return false, err
	}
	if err := settings.Validate(); err != nil {
		return false, err
	}
	if err := s.store.Save(settings); err != nil {
		return false, fmt.Errorf("save settings: %w", err)
	}
	return true, nil
}
