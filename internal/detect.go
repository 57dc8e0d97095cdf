package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DataPaths holds the locations the agent reads and writes
type DataPaths struct {
	BasePath   string // application data directory
	ConfigPath string // optional config.yaml
	ArchiveDB  string // SQLite workflow archive
	ExportDir  string // default export target
}

// DetectDataDir returns the platform-specific application data directory
func DetectDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "WorkflowRecorder"), nil
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "WorkflowRecorder"), nil
	default: // linux and others
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, "workflow-recorder"), nil
		}
		return filepath.Join(home, ".local", "share", "workflow-recorder"), nil
	}
}

// GetDataPaths resolves the data paths, honoring a custom base directory
func GetDataPaths(customDir string) (DataPaths, error) {
	base := customDir
	if base == "" {
		detected, err := DetectDataDir()
		if err != nil {
			return DataPaths{}, err
		}
		base = detected
	}
	return NewDataPaths(base), nil
}

// NewDataPaths lays out the data paths under base
func NewDataPaths(base string) DataPaths {
	return DataPaths{
		BasePath:   base,
		ConfigPath: filepath.Join(base, "config.yaml"),
		ArchiveDB:  filepath.Join(base, "workflows.db"),
		ExportDir:  filepath.Join(base, "exports"),
	}
}

// Ensure creates the base directory if missing
func (dp DataPaths) Ensure() error {
	if err := os.MkdirAll(dp.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// ArchiveExists checks if the archive database exists
func (dp DataPaths) ArchiveExists() bool {
	_, err := os.Stat(dp.ArchiveDB)
	return err == nil
}

// ConfigExists checks if a config file exists
func (dp DataPaths) ConfigExists() bool {
	_, err := os.Stat(dp.ConfigPath)
	return err == nil
}
