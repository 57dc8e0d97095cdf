package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/iksnae/workflow-recorder/internal"
)

// MarkdownExporter renders a workflow as a numbered list of human-readable steps
type MarkdownExporter struct{}

// Export exports a workflow to Markdown format
func (e *MarkdownExporter) Export(workflow *internal.Workflow, w io.Writer) error {
	m := workflow.Metadata

	_, _ = fmt.Fprintf(w, "# Workflow %s\n\n", workflow.ID)

	if m.Name != "" {
		_, _ = fmt.Fprintf(w, "**Name:** %s  \n", escapeMarkdown(m.Name))
	}
	if u := workflow.StartURL(); u != "" {
		_, _ = fmt.Fprintf(w, "**Start URL:** %s  \n", u)
	}
	if m.RecordedAt != "" {
		_, _ = fmt.Fprintf(w, "**Recorded:** %s  \n", m.RecordedAt)
	}
	_, _ = fmt.Fprintf(w, "**Duration:** %s  \n", time.Duration(m.Duration)*time.Millisecond)
	_, _ = fmt.Fprintf(w, "**Steps:** %d across %d tab(s)\n\n", len(workflow.Steps), m.TabCount)

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Steps\n\n")

	if len(workflow.Steps) == 0 {
		_, _ = fmt.Fprintf(w, "_No steps recorded._\n")
		return nil
	}

	for i, step := range workflow.Steps {
		_, _ = fmt.Fprintf(w, "%d. %s _(tab %d)_\n", i+1, describeStep(step), step.TabID)
	}

	return nil
}

// describeStep renders one step as a sentence
func describeStep(step internal.Step) string {
	var b strings.Builder

	switch step.Type {
	case internal.StepClick:
		fmt.Fprintf(&b, "Click %q", escapeMarkdown(step.TargetText))
		writeSelector(&b, step.TargetSelector)
	case internal.StepInput:
		fmt.Fprintf(&b, "Type %q", escapeMarkdown(step.Value))
		if step.TargetText != "" {
			fmt.Fprintf(&b, " into %s", escapeMarkdown(step.TargetText))
		}
		writeSelector(&b, step.TargetSelector)
	case internal.StepKeypress:
		fmt.Fprintf(&b, "Press %s", keyCombo(step))
		writeSelector(&b, step.TargetSelector)
	case internal.StepNavigate:
		fmt.Fprintf(&b, "Navigate to %s", step.URL)
		if step.Title != "" {
			fmt.Fprintf(&b, " (%s)", escapeMarkdown(step.Title))
		}
	case internal.StepScroll:
		fmt.Fprintf(&b, "Scroll to (%s, %s)", formatOffset(step.ScrollX), formatOffset(step.ScrollY))
	case internal.StepExtraction:
		fmt.Fprintf(&b, "Extract %s", escapeMarkdown(step.ExtractionType))
		writeSelector(&b, step.Selector)
	default:
		fmt.Fprintf(&b, "Page event %s", escapeMarkdown(step.Action))
	}

	return b.String()
}

func writeSelector(b *strings.Builder, selector string) {
	if selector != "" {
		fmt.Fprintf(b, " `%s`", selector)
	}
}

func keyCombo(step internal.Step) string {
	var parts []string
	if m := step.Modifiers; m != nil {
		if m.Ctrl {
			parts = append(parts, "Ctrl")
		}
		if m.Alt {
			parts = append(parts, "Alt")
		}
		if m.Shift {
			parts = append(parts, "Shift")
		}
		if m.Meta {
			parts = append(parts, "Meta")
		}
	}
	parts = append(parts, step.Key)
	return "`" + strings.Join(parts, "+") + "`"
}

func formatOffset(v *float64) string {
	if v == nil {
		return "0"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// escapeMarkdown escapes emphasis markers outside code fences
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
