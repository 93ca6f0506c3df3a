package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragkit/internal/core/domain"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List plugins and whether they can run",
	Long: `Lists the readers, chunkers and embedders ragkit ships with and checks
their requirements: environment variables, the ONNX Runtime library and the
model files.`,
	Args: cobra.NoArgs,
	RunE: runPlugins,
}

func init() {
	rootCmd.AddCommand(pluginsCmd)
}

func runPlugins(cmd *cobra.Command, _ []string) error {
	if pluginRegistry == nil {
		return errors.New("plugin registry not configured")
	}

	statuses := pluginRegistry.Status()
	if len(statuses) == 0 {
		cmd.Println("No plugins registered.")
		return nil
	}

	for _, s := range statuses {
		cmd.Printf("%-16s %-9s %s\n", s.Info.Name, s.Info.Kind, statusLabel(s))
		if s.Info.Description != "" {
			cmd.Printf("  %s\n", s.Info.Description)
		}
		if len(s.MissingEnv) > 0 {
			cmd.Printf("  Missing env: %s\n", strings.Join(s.MissingEnv, ", "))
		}
		if s.Err != nil {
			cmd.Printf("  Error: %v\n", s.Err)
		}
	}
	return nil
}

func statusLabel(s domain.PluginStatus) string {
	switch {
	case !s.Ready():
		return "unavailable"
	case s.Degraded():
		return "degraded"
	default:
		return "ready"
	}
}
