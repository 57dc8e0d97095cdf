package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 2000, cfg.MergeWindowMs)
	assert.True(t, cfg.AutoSave)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: 0.0.0.0:9000
merge_window_ms: 1500
auto_save: false
skip_url_prefixes: ["chrome://", "file://"]
`), 0o644))

	t.Setenv("RECORDER_ADDR", "127.0.0.1:7000")
	t.Setenv("RECORDER_AUTO_SAVE", "true")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.Addr, "env overrides file")
	assert.Equal(t, 1500, cfg.MergeWindowMs, "file overrides default")
	assert.True(t, cfg.AutoSave)
	assert.Equal(t, []string{"chrome://", "file://"}, cfg.SkipURLPrefixes)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("RECORDER_MERGE_WINDOW_MS", "750")
	t.Setenv("RECORDER_SKIP_URL_PREFIXES", " chrome:// , ,about: ")
	t.Setenv("RECORDER_LOG_LEVEL", "debug")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 750, cfg.MergeWindowMs)
	assert.Equal(t, []string{"chrome://", "about:"}, cfg.SkipURLPrefixes)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_BadEnvIntIgnored(t *testing.T) {
	t.Setenv("RECORDER_MERGE_WINDOW_MS", "soon")
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 2000, cfg.MergeWindowMs)
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed yaml", content: "addr: [unterminated"},
		{name: "negative window", content: "merge_window_ms: -1"},
		{name: "empty addr", content: `addr: ""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := LoadConfig(path)
			require.Error(t, err)
			var cfgErr *ConfigError
			assert.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, path, cfgErr.Path)
		})
	}
}

func TestConfigRecorderOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeWindowMs = 300
	cfg.InteractionHistory = 4

	opts := cfg.RecorderOptions()
	assert.Equal(t, 300*time.Millisecond, opts.MergeWindow)
	assert.Equal(t, 4, opts.InteractionHistory)
}
