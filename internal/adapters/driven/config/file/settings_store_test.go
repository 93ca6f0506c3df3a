package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragkit/internal/core/domain"
)

func TestNewSettingsStore_DefaultPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	store, err := NewSettingsStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".ragkit", "config.toml"), store.Path())
}

func TestSettingsStore_Load_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSettingsStore(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)

	settings, err := store.Load()

	require.NoError(t, err)
	assert.Equal(t, "main", settings.GitHub.Branch)
	assert.Equal(t, "GITHUB_TOKEN", settings.GitHub.TokenEnv)
	assert.Equal(t, domain.DefaultExtensions(), settings.GitHub.Extensions)
	assert.Equal(t, []string{}, settings.GitHub.Exclude)
	assert.Equal(t, 512, settings.Embedding.MaxLength)
	assert.Equal(t, filepath.Join(dir, "models", "all-MiniLM-L6-v2"), settings.Embedding.ModelDir)
	assert.Equal(t, filepath.Join(dir, "data"), settings.Storage.DataDir)
}

func TestSettingsStore_Load_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[github]
branch = "develop"
requests_per_second = 2.5

[chunker]
units = 200
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	store, err := NewSettingsStore(path)
	require.NoError(t, err)

	settings, err := store.Load()

	require.NoError(t, err)
	assert.Equal(t, "develop", settings.GitHub.Branch)
	assert.InDelta(t, 2.5, settings.GitHub.RequestsPerSecond, 1e-9)
	assert.Equal(t, 200, settings.Chunker.Units)
	assert.Equal(t, 50, settings.Chunker.Overlap)
	assert.Equal(t, 30, settings.GitHub.TimeoutSeconds)
}

func TestSettingsStore_Load_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[github\nbranch ="), 0600))
	store, err := NewSettingsStore(path)
	require.NoError(t, err)

	_, err = store.Load()

	assert.Error(t, err)
}

func TestSettingsStore_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	store, err := NewSettingsStore(path)
	require.NoError(t, err)

	settings := domain.DefaultSettings()
	settings.GitHub.Branch = "trunk"
	settings.Embedding.ModelDir = "/opt/models/minilm"
	settings.Storage.DataDir = "/var/lib/ragkit"

	require.NoError(t, store.Save(settings))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestSettingsStore_SaveAndLoad_ExcludePatterns(t *testing.T) {
	store, err := NewSettingsStore(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	settings := domain.DefaultSettings()
	settings.GitHub.Exclude = []string{"**/CHANGELOG.md", "docs/drafts/**"}
	require.NoError(t, store.Save(settings))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, settings.GitHub.Exclude, loaded.GitHub.Exclude)
}

func TestSettingsStore_Exists(t *testing.T) {
	store, err := NewSettingsStore(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	exists, err := store.Exists()
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Save(domain.DefaultSettings()))

	exists, err = store.Exists()
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	assert.Equal(t, filepath.Join(home, "models"), expandHome("~/models"))
	assert.Equal(t, "/abs/path", expandHome("/abs/path"))
	assert.Equal(t, "", expandHome(""))
}
