package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/workflow-recorder/internal/server"
	"github.com/spf13/cobra"
)

var (
	healthcheckProbe bool
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that the recorder can store and serve workflows",
	Long: `Check the health of the workflow recorder by verifying:
  • Data directory resolution
  • Configuration file
  • Workflow archive access
  • Running agent reachability (with --probe)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("🔍 Workflow Recorder Health Check"))
		fmt.Fprintln(out)

		// Step 1: data directory
		fmt.Fprintln(out, infoStyle.Render("Step 1: Checking data directory..."))
		if err := dataPaths.Ensure(); err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Data directory not writable:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		fmt.Fprintln(out, successStyle.Render("✅ Data directory ready"))
		if verbose {
			fmt.Fprintf(out, "   Base path: %s\n", dataPaths.BasePath)
		}
		fmt.Fprintln(out)

		// Step 2: configuration
		fmt.Fprintln(out, infoStyle.Render("Step 2: Checking configuration..."))
		if dataPaths.ConfigExists() || configPath != "" {
			fmt.Fprintln(out, successStyle.Render("✅ Configuration loaded"))
		} else {
			fmt.Fprintln(out, warningStyle.Render("⚠️  No config file, using defaults"))
		}
		if verbose {
			fmt.Fprintf(out, "   Listen address: %s\n", settings.Addr)
			fmt.Fprintf(out, "   Merge window: %dms\n", settings.MergeWindowMs)
			fmt.Fprintf(out, "   Auto-save: %t\n", settings.AutoSave)
		}
		fmt.Fprintln(out)

		// Step 3: archive
		fmt.Fprintln(out, infoStyle.Render("Step 3: Opening workflow archive..."))
		archive, err := openArchive()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to open archive:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		defer archive.Close()
		count, err := archive.CountWorkflows(cmd.Context())
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to read archive:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Archive available (%d workflow(s))", count)))
		if verbose {
			fmt.Fprintf(out, "   Database: %s\n", dataPaths.ArchiveDB)
		}
		fmt.Fprintln(out)

		// Step 4: running agent
		if healthcheckProbe {
			fmt.Fprintln(out, infoStyle.Render("Step 4: Probing running agent..."))
			if err := server.NewClient(settings.Addr).Healthz(cmd.Context()); err != nil {
				fmt.Fprintln(out, errorStyle.Render("❌ Agent not reachable:"), err)
				return fmt.Errorf("health check failed: %w", err)
			}
			fmt.Fprintln(out, successStyle.Render("✅ Agent responding on "+settings.Addr))
			fmt.Fprintln(out)
		}

		fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
		fmt.Fprintln(out)
		fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVar(&healthcheckProbe, "probe", false, "Also check that an agent is serving on the configured address")
}
