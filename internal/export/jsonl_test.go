package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iksnae/workflow-recorder/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLExporter_Export(t *testing.T) {
	t.Run("one line per step", func(t *testing.T) {
		wf := internal.CreateTestWorkflow("wf-1")
		var buf bytes.Buffer
		require.NoError(t, (&JSONLExporter{}).Export(wf, &buf))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, len(wf.Steps))
		for i, line := range lines {
			var step internal.Step
			require.NoError(t, json.Unmarshal([]byte(line), &step), "line %d", i)
			assert.Equal(t, i, step.Index)
			assert.Equal(t, wf.Steps[i].Type, step.Type)
		}
	})

	t.Run("empty workflow writes nothing", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&JSONLExporter{}).Export(&internal.Workflow{ID: "wf-2"}, &buf))
		assert.Empty(t, buf.String())
	})
}

func TestJSONLExporter_Extension(t *testing.T) {
	assert.Equal(t, "jsonl", (&JSONLExporter{}).Extension())
}
