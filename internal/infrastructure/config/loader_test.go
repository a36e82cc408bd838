package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("XDG_DOWNLOAD_DIR", "/data/dl")
	cfg := DefaultConfig()

	assert.Equal(t, 40, cfg.Window.TabBarHeight)
	assert.Equal(t, "about:blank", cfg.Browser.Homepage)
	assert.Equal(t, "/data/dl", cfg.Downloads.Path)
	assert.True(t, cfg.Downloads.AskDestination)
	assert.Equal(t, "127.0.0.1:7766", cfg.Bridge.Listen)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 256, cfg.Events.Buffer)
	require.NoError(t, validateConfig(cfg))
}

func TestSetDefaults(t *testing.T) {
	mgr := &Manager{viper: viper.New()}
	mgr.setDefaults()

	assert.Equal(t, 40, mgr.viper.GetInt("window.tab_bar_height"))
	assert.Equal(t, "https://duckduckgo.com/?q=%s", mgr.viper.GetString("search.default_engine"))
	assert.True(t, mgr.viper.GetBool("bridge.enabled"))
}

func TestManager_LoadCreatesDefaultFile(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManagerAt(dir)
	require.NoError(t, err)

	require.NoError(t, mgr.Load())

	_, err = os.Stat(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	schema, err := os.ReadFile(filepath.Join(dir, "config.schema.json"))
	require.NoError(t, err)
	assert.True(t, json.Valid(schema))

	cfg := mgr.Get()
	assert.Equal(t, 40, cfg.Window.TabBarHeight)
	assert.Contains(t, cfg.Search.Shortcuts, "gh")
}

func TestManager_LoadReadsFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := `[window]
tab_bar_height = 56

[search]
default_engine = 'https://search.example/?q=%s'

[logging]
level = 'DEBUG'
format = 'pretty'
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644))
	t.Setenv("MULTITAB_DOWNLOADS_PATH", "/env/downloads")

	mgr, err := NewManagerAt(dir)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	assert.Equal(t, 56, cfg.Window.TabBarHeight)
	assert.Equal(t, 1200, cfg.Window.Width)
	assert.Equal(t, "https://search.example/?q=%s", cfg.Search.DefaultEngine)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "/env/downloads", cfg.Downloads.Path)
}

func TestManager_LoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	content := `[window]
tab_bar_height = -5

[events]
buffer = 0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644))

	mgr, err := NewManagerAt(dir)
	require.NoError(t, err)

	err = mgr.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window.tab_bar_height")
	assert.Contains(t, err.Error(), "events.buffer")
}

func TestManager_SaveAndReloadNotifies(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManagerAt(dir)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	var got *Config
	mgr.OnConfigChange(func(cfg *Config) { got = cfg })

	cfg := mgr.Get()
	cfg.Window.TabBarHeight = 32
	require.NoError(t, mgr.Save(cfg))
	assert.Equal(t, 32, mgr.Get().Window.TabBarHeight)

	require.NoError(t, mgr.Reload())
	require.NotNil(t, got)
	assert.Equal(t, 32, got.Window.TabBarHeight)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(*Config) {}, ""},
		{"search template without placeholder", func(c *Config) { c.Search.DefaultEngine = "https://x" }, "search.default_engine"},
		{"shortcut without placeholder", func(c *Config) { c.Search.Shortcuts = map[string]string{"x": "https://x"} }, "search.shortcuts.x"},
		{"bad listen address", func(c *Config) { c.Bridge.Listen = "nope" }, "bridge.listen"},
		{"disabled bridge ignores address", func(c *Config) { c.Bridge.Enabled = false; c.Bridge.Listen = "" }, ""},
		{"unknown log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"poll too fast", func(c *Config) { c.Window.ResizePollMs = 1 }, "window.resize_poll_ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "multitab configuration", doc["title"])
	assert.Contains(t, string(data), "tab_bar_height")
}
