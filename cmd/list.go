package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/workflow-recorder/internal"
	"github.com/spf13/cobra"
)

var (
	listJSON bool
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived workflows",
	Long:  `List all workflows saved in the local archive, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, err := openArchive()
		if err != nil {
			return err
		}
		defer archive.Close()

		summaries, err := archive.ListWorkflows(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list workflows: %w", err)
		}

		if listJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(summaries)
		}
		displayWorkflows(cmd.OutOrStdout(), summaries, time.Now())
		return nil
	},
}

func displayWorkflows(out io.Writer, summaries []internal.WorkflowSummary, now time.Time) {
	if len(summaries) == 0 {
		fmt.Fprintln(out, headerStyle.Render("📋 No workflows recorded"))
		return
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📋 Found %d workflow(s)", len(summaries))))
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Start URL")+"\t"+titleStyle.Render("Steps")+"\t"+titleStyle.Render("Tabs")+"\t"+titleStyle.Render("Duration")+"\t"+titleStyle.Render("Recorded")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 100))

	for _, s := range summaries {
		startURL := s.StartURL
		if startURL == "" {
			startURL = "—"
		}
		if len(startURL) > 45 {
			startURL = startURL[:42] + "..."
		}

		duration := (time.Duration(s.Duration) * time.Millisecond).Round(time.Second)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			idStyle.Render(shortID(s.ID)),
			urlStyle.Render(startURL),
			countStyle.Render(strconv.Itoa(s.StepCount)),
			strconv.Itoa(s.TabCount),
			duration,
			dateStyle.Render(relativeDate(s.GetStartTime(), now)),
		)
	}

	_ = w.Flush()
	fmt.Fprintln(out)
	fmt.Fprintln(out, idStyle.Render("💡 Tip: Use the ID (or a unique prefix, e.g. ")+
		lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render(shortID(summaries[0].ID))+
		idStyle.Render(") with `workflow-recorder show <id>`"))
}

// shortID trims ids for table display
func shortID(id string) string {
	if len(id) > 13 {
		return id[:13]
	}
	return id
}

// relativeDate formats t relative to now
func relativeDate(t, now time.Time) string {
	if t.IsZero() {
		return "—"
	}
	diff := now.Sub(t)
	switch {
	case diff < 24*time.Hour:
		return t.Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print the listing as JSON")
}
