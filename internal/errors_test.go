package internal

import (
	"errors"
	"strings"
	"testing"
)

func TestArchiveError(t *testing.T) {
	originalErr := errors.New("disk I/O error")
	err := &ArchiveError{Op: "save", WorkflowID: "wf-1", Err: originalErr}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "archive error") {
		t.Errorf("ArchiveError.Error() should contain 'archive error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "wf-1") {
		t.Errorf("ArchiveError.Error() should contain workflow id, got: %q", errorMsg)
	}
	if !errors.Is(err, originalErr) {
		t.Error("ArchiveError.Unwrap() should return original error")
	}

	noID := &ArchiveError{Op: "list", Err: originalErr}
	if strings.Contains(noID.Error(), "list  ") {
		t.Errorf("ArchiveError without id has stray spacing: %q", noID.Error())
	}
}

func TestArchiveErrorWrapsNotFound(t *testing.T) {
	var err error = &ArchiveError{Op: "load", WorkflowID: "missing", Err: ErrWorkflowNotFound}
	if !errors.Is(err, ErrWorkflowNotFound) {
		t.Error("errors.Is should see ErrWorkflowNotFound through ArchiveError")
	}
}

func TestConfigError(t *testing.T) {
	originalErr := errors.New("bad value")
	err := &ConfigError{Path: "/etc/recorder.yaml", Key: "merge_window_ms", Err: originalErr}

	if !strings.Contains(err.Error(), "merge_window_ms") {
		t.Errorf("ConfigError.Error() should contain key, got: %q", err.Error())
	}
	if !errors.Is(err, originalErr) {
		t.Error("ConfigError.Unwrap() should return original error")
	}

	noKey := &ConfigError{Path: "/etc/recorder.yaml", Err: originalErr}
	if !strings.Contains(noKey.Error(), "/etc/recorder.yaml") {
		t.Errorf("ConfigError.Error() should contain path, got: %q", noKey.Error())
	}
}

func TestExportError(t *testing.T) {
	originalErr := errors.New("permission denied")
	err := &ExportError{Format: "md", Path: "/out/wf.md", Err: originalErr}

	if !strings.Contains(err.Error(), "[md]") {
		t.Errorf("ExportError.Error() should contain format, got: %q", err.Error())
	}
	if !errors.Is(err, originalErr) {
		t.Error("ExportError.Unwrap() should return original error")
	}
}
