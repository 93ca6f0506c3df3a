package cli

import (
	"errors"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

var configOverwrite bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective settings",
	Long: `Prints the settings file location and the settings in effect: the file
layered over the built-in defaults.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective settings to the settings file",
	Long: `Creates the settings file from the settings in effect so they can be edited.
An existing file is left alone unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configOverwrite, "force", false, "overwrite an existing settings file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	if configService == nil {
		return errors.New("config service not configured")
	}

	settings, err := configService.Settings()
	if err != nil {
		return err
	}
	exists, err := configService.Exists()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(settings)
	if err != nil {
		return err
	}

	if exists {
		cmd.Printf("# %s\n", configService.Path())
	} else {
		cmd.Printf("# %s (not created, defaults shown)\n", configService.Path())
	}
	cmd.Print(string(data))
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if configService == nil {
		return errors.New("config service not configured")
	}

	written, err := configService.Init(configOverwrite)
	if err != nil {
		return err
	}
	if !written {
		cmd.Printf("Settings file %s already exists, use --force to overwrite\n", configService.Path())
		return nil
	}
	cmd.Printf("Wrote %s\n", configService.Path())
	return nil
}
