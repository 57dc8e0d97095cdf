package export

import (
	"fmt"
	"io"

	"github.com/iksnae/workflow-recorder/internal"
)

// Exporter writes a workflow in one output format
type Exporter interface {
	Export(workflow *internal.Workflow, w io.Writer) error
	Extension() string
}

// Formats lists the accepted format names
var Formats = []string{"json", "jsonl", "yaml", "md"}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: jsonl, md, yaml, json)", format)
	}
}

// ContentType returns the HTTP media type for an exporter's output
func ContentType(e Exporter) string {
	switch e.Extension() {
	case "json":
		return "application/json"
	case "jsonl":
		return "application/x-ndjson"
	case "yaml":
		return "application/yaml"
	case "md":
		return "text/markdown; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
