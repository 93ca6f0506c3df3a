package services

import (
	"os"
	"sort"
	"strings"

	"github.com/custodia-labs/ragkit/internal/core/domain"
	"github.com/custodia-labs/ragkit/internal/core/ports/driving"
)

// Ensure PluginRegistry implements the interface.
var _ driving.PluginRegistry = (*PluginRegistry)(nil)

// LibraryCheck reports whether the native libraries and assets a plugin
// needs are present. A nil check always passes.
type LibraryCheck func() error

type registeredPlugin struct {
	info  domain.PluginInfo
	check LibraryCheck
}

// PluginRegistry lists the pipeline plugins and checks their readiness.
type PluginRegistry struct {
	plugins   map[string]registeredPlugin
	lookupEnv func(string) (string, bool)
}

// NewPluginRegistry creates an empty plugin registry.
func NewPluginRegistry() *PluginRegistry {
	return &PluginRegistry{
		plugins:   make(map[string]registeredPlugin),
		lookupEnv: os.LookupEnv,
	}
}

// Register adds a plugin. Registering a name twice replaces the earlier entry.
func (r *PluginRegistry) Register(info domain.PluginInfo, check LibraryCheck) {
	r.plugins[info.Name] = registeredPlugin{info: info, check: check}
}

// Get returns a plugin by name.
func (r *PluginRegistry) Get(name string) (domain.PluginInfo, bool) {
	p, ok := r.plugins[name]
	return p.info, ok
}

// List returns every registered plugin, readers first, sorted by name.
func (r *PluginRegistry) List() []domain.PluginInfo {
	sorted := r.sorted()
	infos := make([]domain.PluginInfo, len(sorted))
	for i, p := range sorted {
		infos[i] = p.info
	}
	return infos
}

// Status checks whether each plugin can run in this environment.
func (r *PluginRegistry) Status() []domain.PluginStatus {
	sorted := r.sorted()
	statuses := make([]domain.PluginStatus, 0, len(sorted))
	for _, p := range sorted {
		status := domain.PluginStatus{Info: p.info}
		for _, name := range p.info.RequiresEnv {
			if v, ok := r.lookupEnv(name); !ok || strings.TrimSpace(v) == "" {
				status.MissingEnv = append(status.MissingEnv, name)
			}
		}
		if p.check != nil {
			status.Err = p.check()
		}
		statuses = append(statuses, status)
	}
	return statuses
}

func (r *PluginRegistry) sorted() []registeredPlugin {
	plugins := make([]registeredPlugin, 0, len(r.plugins))
	for _, p := range r.plugins {
		plugins = append(plugins, p)
	}
	sort.Slice(plugins, func(i, j int) bool {
		ki, kj := kindOrder(plugins[i].info.Kind), kindOrder(plugins[j].info.Kind)
		if ki != kj {
			return ki < kj
		}
		return plugins[i].info.Name < plugins[j].info.Name
	})
	return plugins
}

func kindOrder(kind domain.PluginKind) int {
	switch kind {
	case domain.PluginReader:
		return 0
	case domain.PluginChunker:
		return 1
	case domain.PluginEmbedder:
		return 2
	default:
		return 3
	}
}
