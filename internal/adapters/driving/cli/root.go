// Package cli implements the command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/datascribe-labs/datascribe-cli/internal/core/ports/driven"
	"github.com/datascribe-labs/datascribe-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Collaborators injected by Configure before Execute runs.
var (
	warehouseFactory driven.WarehouseFactory
	artifactRenderer driven.Renderer
	newConfigLoader  func(path string) driven.ConfigLoader
)

// Flags shared across commands.
var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "datascribe",
	Short: "Generate Markdown documentation for warehouse tables",
	Long: `datascribe connects to configured databases, reads table metadata
and samples, and writes a Markdown documentation tree. Repeated runs
converge: artifacts for dropped schemas and tables are removed.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the configuration file (default datascribe.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// Configure injects the collaborators the commands need. Called by main
// before Execute.
func Configure(factory driven.WarehouseFactory, renderer driven.Renderer, loader func(path string) driven.ConfigLoader) {
	warehouseFactory = factory
	artifactRenderer = renderer
	newConfigLoader = loader
}

// SetVersion overrides the build version string.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
