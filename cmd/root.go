package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/workflow-recorder/internal"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	dataDir    string
	configPath string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"

	// resolved in PersistentPreRunE
	settings  internal.Config
	dataPaths internal.DataPaths
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "workflow-recorder",
	Short: "Record browser interactions as replayable workflows",
	Long: `A local agent that records what you do in the browser and turns it into
an ordered list of replayable workflow steps.

The browser extension posts captured events and tab signals to the agent;
the agent merges rapid text edits, drops duplicate navigations, and builds
a globally time-ordered workflow across all tabs.

Features:
  • HTTP control surface for the extension (start, stop, status, events)
  • Live update feed over WebSocket
  • SQLite archive of finished workflows
  • Export in multiple formats (JSON, JSONL, YAML, Markdown)
  • Prometheus metrics

Quick Start:
  workflow-recorder serve                   # Start the agent
  workflow-recorder list                    # List recorded workflows
  workflow-recorder show <workflow-id>      # View a workflow
  workflow-recorder export --format md      # Export as Markdown`,
	Version:           fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:      true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return loadSettings() },
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadSettings resolves the data directory and layered configuration
func loadSettings() error {
	base := dataDir
	if base == "" {
		base = os.Getenv("RECORDER_DATA_DIR")
	}
	paths, err := internal.GetDataPaths(base)
	if err != nil {
		return fmt.Errorf("failed to resolve data directory: %w", err)
	}

	path := configPath
	if path == "" {
		path = paths.ConfigPath
	}
	cfg, err := internal.LoadConfig(path)
	if err != nil {
		return err
	}
	if base == "" && cfg.DataDir != "" {
		paths = internal.NewDataPaths(cfg.DataDir)
	}

	internal.SetLogLevel(internal.ParseLogLevel(cfg.LogLevel))
	if verbose {
		internal.SetVerbose(true)
	}

	settings = cfg
	dataPaths = paths
	internal.LogDebug("Data directory: %s", paths.BasePath)
	return nil
}

// openArchive opens the workflow archive under the data directory
func openArchive() (*internal.Archive, error) {
	if err := dataPaths.Ensure(); err != nil {
		return nil, err
	}
	archive, err := internal.OpenArchive(dataPaths.ArchiveDB)
	if err != nil {
		return nil, fmt.Errorf("failed to open workflow archive: %w", err)
	}
	return archive, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Custom data directory (archive, config, exports)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default <data-dir>/config.yaml)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
