package export

import (
	"io"

	"github.com/iksnae/workflow-recorder/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports workflows in YAML format
type YAMLExporter struct{}

// Export exports a workflow to YAML format
func (e *YAMLExporter) Export(workflow *internal.Workflow, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	return enc.Encode(workflow)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
