package driving

import "github.com/custodia-labs/ragkit/internal/core/domain"

// PluginRegistry lists the available pipeline plugins.
type PluginRegistry interface {
	// List returns every registered plugin, readers first, sorted by name.
	List() []domain.PluginInfo

	// Status checks whether each plugin can run in this environment.
	Status() []domain.PluginStatus
}
