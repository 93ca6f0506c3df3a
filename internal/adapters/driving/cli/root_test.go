package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_HasCommands(t *testing.T) {
	commands := rootCmd.Commands()
	names := make([]string, 0, len(commands))
	for _, cmd := range commands {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"plugins", "load", "ingest", "query", "documents", "config", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
}

func TestBootstrap_Options(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	tests := []struct {
		name string
		args []string
		want Options
	}{
		{
			name: "load needs no model",
			args: []string{"load", "owner/repo", "--config", "/tmp/ragkit.toml"},
			want: Options{ConfigPath: "/tmp/ragkit.toml"},
		},
		{
			name: "ingest loads the model",
			args: []string{"ingest", "owner/repo"},
			want: Options{LoadModel: true},
		},
		{
			name: "dry run uses memory",
			args: []string{"ingest", "owner/repo", "--dry-run"},
			want: Options{LoadModel: true, InMemory: true},
		},
		{
			name: "query loads the model",
			args: []string{"query", "github"},
			want: Options{LoadModel: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			installed := Services{Ingest: ingestService, Documents: documentService, Plugins: pluginRegistry}

			var got Options
			released := false
			SetBootstrap(func(opts Options) (*Services, func(), error) {
				got = opts
				return &installed, func() { released = true }, nil
			})
			defer SetBootstrap(nil)

			rootCmd.SetArgs(tt.args)
			defer rootCmd.SetArgs(nil)

			err := Execute()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, released, "cleanup should run after the command")
		})
	}
}

func TestBootstrap_Error(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	bootErr := errors.New("embedding model unavailable: model.onnx missing")
	SetBootstrap(func(Options) (*Services, func(), error) {
		return nil, nil, bootErr
	})
	defer SetBootstrap(nil)

	_, err := execute(t, "query", "github")
	assert.ErrorIs(t, err, bootErr)
}
