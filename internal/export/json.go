package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/workflow-recorder/internal"
)

// JSONExporter writes the whole workflow as indented JSON
type JSONExporter struct{}

// Export exports a workflow to JSON format
func (e *JSONExporter) Export(workflow *internal.Workflow, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(workflow)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
