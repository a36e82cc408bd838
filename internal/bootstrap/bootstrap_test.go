package bootstrap

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/multitab/internal/application/port/mocks"
	"github.com/bnema/multitab/internal/infrastructure/config"
	"github.com/bnema/multitab/internal/infrastructure/portal"
	"github.com/bnema/multitab/internal/logging"
)

func testContext() context.Context {
	return logging.WithContext(context.Background(), logging.NewFromConfigValues("debug", "console"))
}

type availability bool

func (p availability) Available() bool { return bool(p) }

func TestSettingsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Window.TabBarHeight = 52
	cfg.Downloads.Path = "/data/dl"
	cfg.Search.Shortcuts = map[string]string{"gh": "https://github.com/search?q=%s"}

	settings := SettingsFromConfig(cfg)

	assert.Equal(t, 52, settings.TabBarHeight)
	assert.Equal(t, "/data/dl", settings.DownloadDir)
	assert.Equal(t, cfg.Search.DefaultEngine, settings.Resolver.DefaultSearch)
	assert.Equal(t, "https://github.com/search?q=%s", settings.Resolver.Shortcuts["gh"])

	cfg.Search.Shortcuts["gh"] = "changed"
	assert.Equal(t, "https://github.com/search?q=%s", settings.Resolver.Shortcuts["gh"], "shortcuts are copied")
}

func TestReadBootstrapScript(t *testing.T) {
	script, err := readBootstrapScript("")
	require.NoError(t, err)
	assert.Empty(t, script)

	path := filepath.Join(t.TempDir(), "preload.js")
	require.NoError(t, os.WriteFile(path, []byte("window.__shell = true;"), 0o644))
	script, err = readBootstrapScript(path)
	require.NoError(t, err)
	assert.Equal(t, "window.__shell = true;", script)

	_, err = readBootstrapScript(filepath.Join(t.TempDir(), "missing.js"))
	assert.Error(t, err)
}

func TestSelectPrompt(t *testing.T) {
	ctx := testContext()
	dialog := mocks.NewMockSavePrompt(t)

	cfg := config.DefaultConfig()
	cfg.Downloads.AskDestination = true
	assert.Same(t, dialog, selectPrompt(ctx, cfg, availability(true), dialog))
	assert.Equal(t, portal.AutoAccept{}, selectPrompt(ctx, cfg, availability(false), dialog))
	assert.Equal(t, portal.AutoAccept{}, selectPrompt(ctx, cfg, nil, dialog))

	cfg.Downloads.AskDestination = false
	assert.Equal(t, portal.AutoAccept{}, selectPrompt(ctx, cfg, availability(true), dialog))
}

func TestPollInterval(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Window.ResizePollMs = 120
	assert.Equal(t, 120*time.Millisecond, pollInterval(cfg))
}

func TestIgnoreCancel(t *testing.T) {
	assert.NoError(t, ignoreCancel(nil))
	assert.NoError(t, ignoreCancel(context.Canceled))
	boom := errors.New("boom")
	assert.ErrorIs(t, ignoreCancel(boom), boom)
}

func TestStartupTimer(t *testing.T) {
	timer := NewStartupTimer()
	timer.Mark("config")
	timer.Mark("browser")

	require.Len(t, timer.phases, 2)
	assert.Equal(t, "config", timer.phases[0].name)
	assert.Equal(t, "browser", timer.phases[1].name)
	timer.Log(testContext())
}
