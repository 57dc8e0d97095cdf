package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/workflow-recorder/internal"
)

// JSONLExporter writes one step per line
type JSONLExporter struct{}

// Export exports a workflow to JSONL format
func (e *JSONLExporter) Export(workflow *internal.Workflow, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, step := range workflow.Steps {
		if err := enc.Encode(step); err != nil {
			return fmt.Errorf("failed to encode step %d: %w", step.Index, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
