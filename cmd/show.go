package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/workflow-recorder/internal"
	"github.com/spf13/cobra"
)

var (
	limit       int
	showDetails bool
)

var (
	// Styles for show command
	workflowHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	workflowMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243"))

	stepTypeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	navigateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Bold(true)

	stepDetailStyle = lipgloss.NewStyle().
			Padding(0, 4).
			Foreground(lipgloss.Color("250"))

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <workflow-id>",
	Short: "Show the steps of an archived workflow",
	Long:  `Display the ordered steps of a workflow. A unique id prefix is accepted.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, err := openArchive()
		if err != nil {
			return err
		}
		defer archive.Close()

		id, err := archive.ResolveID(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		wf, err := archive.LoadWorkflow(cmd.Context(), id)
		if err != nil {
			return err
		}

		displayWorkflow(cmd.OutOrStdout(), wf, limit, showDetails)
		return nil
	},
}

func displayWorkflow(out io.Writer, wf *internal.Workflow, limit int, details bool) {
	m := wf.Metadata
	fmt.Fprintln(out, workflowHeaderStyle.Render("🎬 Workflow "+wf.ID))

	meta := []string{
		fmt.Sprintf("%d step(s)", len(wf.Steps)),
		fmt.Sprintf("%d tab(s)", m.TabCount),
		(time.Duration(m.Duration) * time.Millisecond).Round(time.Millisecond).String(),
	}
	if m.RecordedAt != "" {
		meta = append(meta, m.RecordedAt)
	}
	fmt.Fprintln(out, workflowMetaStyle.Render(strings.Join(meta, " · ")))
	if m.Name != "" {
		fmt.Fprintln(out, workflowMetaStyle.Render("Name: "+m.Name))
	}
	fmt.Fprintln(out)

	steps := wf.Steps
	if limit > 0 && len(steps) > limit {
		steps = steps[:limit]
	}

	for _, step := range steps {
		style := stepTypeStyle
		if step.Type == internal.StepNavigate {
			style = navigateStyle
		}
		offset := ""
		if m.StartTime > 0 {
			offset = timestampStyle.Render(fmt.Sprintf("+%s", (time.Duration(step.Timestamp-m.StartTime) * time.Millisecond)))
		}
		fmt.Fprintf(out, "%3d  %s  %s  %s\n", step.Index, style.Render(fmt.Sprintf("%-10s", step.Type)), stepSummary(step), offset)

		if details {
			for _, line := range stepDetails(step) {
				fmt.Fprintln(out, stepDetailStyle.Render(line))
			}
		}
	}

	if len(steps) < len(wf.Steps) {
		fmt.Fprintln(out)
		fmt.Fprintln(out, workflowMetaStyle.Render(fmt.Sprintf("… %d more step(s), use --limit 0 to show all", len(wf.Steps)-len(steps))))
	}
}

// stepSummary is the one-line description of a step
func stepSummary(step internal.Step) string {
	switch step.Type {
	case internal.StepClick:
		return fmt.Sprintf("%q", step.TargetText)
	case internal.StepInput:
		return fmt.Sprintf("%s ← %q", step.TargetText, step.Value)
	case internal.StepKeypress:
		return step.Key
	case internal.StepNavigate:
		return step.URL
	case internal.StepScroll:
		x, y := 0.0, 0.0
		if step.ScrollX != nil {
			x = *step.ScrollX
		}
		if step.ScrollY != nil {
			y = *step.ScrollY
		}
		return fmt.Sprintf("(%g, %g)", x, y)
	case internal.StepExtraction:
		return step.ExtractionType
	default:
		return step.Action
	}
}

func stepDetails(step internal.Step) []string {
	var lines []string
	add := func(label, value string) {
		if value != "" {
			lines = append(lines, label+": "+value)
		}
	}
	add("tab", fmt.Sprintf("%d %s", step.TabID, step.TabURL))
	add("selector", step.TargetSelector)
	add("xpath", step.XPath)
	add("css", step.CSSSelector)
	add("element", step.ElementTag)
	if step.Screenshot != "" {
		add("screenshot", fmt.Sprintf("%d bytes", len(step.Screenshot)))
	}
	return lines
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Limit number of steps to show (0 = all)")
	showCmd.Flags().BoolVar(&showDetails, "details", false, "Show selectors and tab for each step")
}
