// Package cli implements the ragkit command-line interface with cobra.
//
// Commands talk to the core through driving ports only. The services are
// built by a Bootstrap function that cmd/ragkit installs; tests install
// services directly with SetServices.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragkit/internal/core/ports/driving"
	"github.com/custodia-labs/ragkit/internal/logger"
)

// annotationModel marks commands that need the embedding model loaded.
const annotationModel = "ragkit/model"

// version is set at build time via -ldflags.
var version = "dev"

var (
	configPath string
	verbose    bool
)

var (
	ingestService   driving.IngestService
	documentService driving.DocumentService
	pluginRegistry  driving.PluginRegistry
	configService   driving.ConfigService
)

// Services holds the driving ports the commands use.
type Services struct {
	Ingest    driving.IngestService
	Documents driving.DocumentService
	Plugins   driving.PluginRegistry
	Config    driving.ConfigService
}

// Options tells Bootstrap what the running command needs.
type Options struct {
	// ConfigPath is the --config flag; empty means the default location.
	ConfigPath string

	// LoadModel is set for commands that embed text (ingest, query).
	LoadModel bool

	// InMemory selects the in-memory document store (ingest --dry-run).
	InMemory bool
}

// Bootstrap builds services for a command. The returned cleanup func
// releases anything the services own, such as the model and the database.
type Bootstrap func(opts Options) (*Services, func(), error)

var (
	bootstrap Bootstrap
	cleanup   func()
)

var rootCmd = &cobra.Command{
	Use:   "ragkit",
	Short: "Load, embed and search documents for retrieval-augmented generation",
	Long: `ragkit loads documents from GitHub repositories, splits them into chunks,
embeds the chunks with a local all-MiniLM-L6-v2 model and stores them in SQLite
for semantic search.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupServices,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.ragkit/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap installs the function that builds services for each command.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices installs services directly.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	ingestService = s.Ingest
	documentService = s.Documents
	pluginRegistry = s.Plugins
	configService = s.Config
}

// Execute runs the root command and releases services afterwards.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

func setupServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if bootstrap == nil {
		return nil
	}

	opts := Options{
		ConfigPath: configPath,
		LoadModel:  cmd.Annotations[annotationModel] == "true",
		InMemory:   cmd == ingestCmd && ingestDryRun,
	}
	logger.Debug("Bootstrap: config=%q model=%t memory=%t", opts.ConfigPath, opts.LoadModel, opts.InMemory)

	svc, release, err := bootstrap(opts)
	if err != nil {
		return err
	}
	SetServices(svc)
	cleanup = release
	return nil
}

func closeServices() {
	if cleanup != nil {
		cleanup()
		cleanup = nil
	}
}
