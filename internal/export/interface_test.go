package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExporter(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		want    Exporter
		wantExt string
		wantErr bool
	}{
		{name: "jsonl format", format: "jsonl", want: &JSONLExporter{}, wantExt: "jsonl"},
		{name: "markdown format", format: "md", want: &MarkdownExporter{}, wantExt: "md"},
		{name: "markdown format long", format: "markdown", want: &MarkdownExporter{}, wantExt: "md"},
		{name: "yaml format", format: "yaml", want: &YAMLExporter{}, wantExt: "yaml"},
		{name: "yml alias", format: "yml", want: &YAMLExporter{}, wantExt: "yaml"},
		{name: "json format", format: "json", want: &JSONExporter{}, wantExt: "json"},
		{name: "unsupported format", format: "xml", wantErr: true},
		{name: "empty format", format: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter, err := NewExporter(tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, exporter)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, exporter)
			assert.Equal(t, tt.wantExt, exporter.Extension())
		})
	}
}

func TestContentType(t *testing.T) {
	for _, format := range Formats {
		exporter, err := NewExporter(format)
		require.NoError(t, err)
		assert.NotEqual(t, "application/octet-stream", ContentType(exporter), format)
	}
}
