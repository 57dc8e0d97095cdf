package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownEventType is returned for an ingest tag the recorder does not know
	ErrUnknownEventType = errors.New("unknown event type")
	// ErrNotRecording is returned when stopping an idle recorder
	ErrNotRecording = errors.New("not recording")
	// ErrWorkflowNotFound is returned when the archive has no workflow with the given id
	ErrWorkflowNotFound = errors.New("workflow not found")
)

// ArchiveError represents errors reading or writing the workflow archive
type ArchiveError struct {
	Op         string // "open", "save", "load", "list", "delete"
	WorkflowID string
	Err        error
}

func (e *ArchiveError) Error() string {
	if e.WorkflowID == "" {
		return fmt.Sprintf("archive error: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("archive error: %s %s: %v", e.Op, e.WorkflowID, e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// ConfigError represents errors loading configuration
type ConfigError struct {
	Path string
	Key  string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("config error [%s] %s: %v", e.Key, e.Path, e.Err)
	}
	return fmt.Sprintf("config error %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
