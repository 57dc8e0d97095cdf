package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/iksnae/workflow-recorder/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONExporter_Export(t *testing.T) {
	tests := []struct {
		name     string
		workflow *internal.Workflow
	}{
		{name: "basic workflow", workflow: internal.CreateTestWorkflow("wf-1")},
		{name: "empty workflow", workflow: &internal.Workflow{ID: "wf-2", Steps: []internal.Step{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, (&JSONExporter{}).Export(tt.workflow, &buf))

			var got internal.Workflow
			require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
			assert.Equal(t, tt.workflow.ID, got.ID)
			assert.Len(t, got.Steps, len(tt.workflow.Steps))
			assert.Contains(t, buf.String(), "\n  \"id\"", "output should be indented")
		})
	}
}

func TestJSONExporter_WireFieldNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONExporter{}).Export(internal.CreateTestWorkflow("wf-1"), &buf))

	out := buf.String()
	for _, key := range []string{`"target_text"`, `"target_selector"`, `"tabId"`, `"elementTag"`, `"eventCount"`} {
		assert.Contains(t, out, key)
	}
}

func TestJSONExporter_Extension(t *testing.T) {
	assert.Equal(t, "json", (&JSONExporter{}).Extension())
}
