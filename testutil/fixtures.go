package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/iksnae/workflow-recorder/internal"
)

// FixtureBase is the start timestamp used by the message log fixtures
const FixtureBase = int64(1700000000000)

// SampleMessageLog is a login session on one tab: a page load, four rapid
// edits of one field and a submit click. It yields three steps.
func SampleMessageLog() []map[string]any {
	event := func(tag string, offset int64, data map[string]any) map[string]any {
		data["timestamp"] = FixtureBase + offset
		return map[string]any{"type": internal.MsgRecordEvent, "tabId": 1, "eventType": tag, "data": data}
	}
	return []map[string]any{
		{"type": internal.MsgStartRecording, "timestamp": FixtureBase},
		{"type": "TAB_EVENT", "timestamp": FixtureBase + 10, "event": "updated", "tabId": 1, "status": "complete", "url": "https://example.com/login", "title": "Login"},
		event("input", 100, map[string]any{"selector": "#user", "value": "a", "tagName": "INPUT"}),
		event("input", 600, map[string]any{"selector": "#user", "value": "ab", "tagName": "INPUT"}),
		event("input", 1100, map[string]any{"selector": "#user", "value": "abc", "tagName": "INPUT"}),
		event("input", 1600, map[string]any{"selector": "#user", "value": "abcd", "tagName": "INPUT"}),
		event("click", 3000, map[string]any{"selector": "button.submit", "targetText": "Sign in", "tagName": "BUTTON"}),
		{"type": internal.MsgStopRecording, "timestamp": FixtureBase + 4000},
	}
}

// CreateTestArchive opens a file archive in dir seeded with workflows
func CreateTestArchive(t *testing.T, dir string, workflows ...*internal.Workflow) *internal.Archive {
	t.Helper()
	archive, err := internal.OpenArchive(filepath.Join(dir, "workflows.db"))
	if err != nil {
		t.Fatalf("Failed to open archive: %v", err)
	}
	for _, wf := range workflows {
		if err := archive.SaveWorkflow(context.Background(), wf); err != nil {
			archive.Close()
			t.Fatalf("Failed to seed workflow %s: %v", wf.ID, err)
		}
	}
	return archive
}
