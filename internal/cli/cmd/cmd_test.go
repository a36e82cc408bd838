package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/multitab/internal/domain/build"
	"github.com/bnema/multitab/internal/infrastructure/config"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		configDir = ""
		configForce = false
		statusAddr = ""
		app = nil
	})
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestVersion(t *testing.T) {
	SetBuildInfo(build.Info{Version: "1.2.3", Commit: "abc123", BuildDate: "2026-01-01", GoVersion: "go1.25"})

	out := execute(t, "version")

	assert.Contains(t, out, "multitab 1.2.3")
	assert.Contains(t, out, "abc123")
	assert.Contains(t, out, build.RepoURL())
}

func TestConfigPath(t *testing.T) {
	dir := t.TempDir()

	out := execute(t, "--config-dir", dir, "config", "path")

	assert.Equal(t, filepath.Join(dir, "config.toml")+"\n", out)
}

func TestConfigSchema(t *testing.T) {
	out := execute(t, "config", "schema")

	assert.Contains(t, out, `"tab_bar_height"`)
	assert.Contains(t, out, `"downloads"`)
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	// Loading creates the defaults, so init reports the existing file.
	out := execute(t, "--config-dir", dir, "config", "init")
	assert.Contains(t, out, "already exists")

	require.NoError(t, os.WriteFile(path, []byte("[window]\ntab_bar_height = 60\n"), 0o644))
	out = execute(t, "--config-dir", dir, "config", "init", "--force")
	assert.Contains(t, out, "wrote "+path)

	mgr, err := config.NewManagerAt(dir)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())
	assert.Equal(t, 40, mgr.Get().Window.TabBarHeight)
}

func TestApplyRunFlags(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().BoolVar(&runHeadless, "headless", false, "")
	cmd.Flags().StringVar(&runListen, "listen", "", "")
	cmd.Flags().BoolVar(&runNoBridge, "no-bridge", false, "")
	t.Cleanup(func() {
		runHeadless, runListen, runNoBridge = false, "", false
	})

	require.NoError(t, cmd.Flags().Parse([]string{"--headless", "--listen", "127.0.0.1:9000", "--no-bridge"}))

	cfg := config.DefaultConfig()
	applyRunFlags(cmd, cfg)

	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, "127.0.0.1:9000", cfg.Bridge.Listen)
	assert.False(t, cfg.Bridge.Enabled)
}

func TestApplyRunFlagsKeepsConfigByDefault(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().BoolVar(&runHeadless, "headless", false, "")
	require.NoError(t, cmd.Flags().Parse(nil))

	cfg := config.DefaultConfig()
	cfg.Browser.Headless = true
	applyRunFlags(cmd, cfg)

	assert.True(t, cfg.Browser.Headless)
	assert.True(t, cfg.Bridge.Enabled)
}

func TestStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tabs", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"active":"tab-1","tabs":[{"id":"tab-1","url":"https://example.com","title":"Example"}]}`))
	})
	mux.HandleFunc("/downloads", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("human"))
		_, _ = w.Write([]byte(`{"downloads":[],"active":0,"completed":0}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out := execute(t, "--config-dir", t.TempDir(), "status", "--addr", srv.URL)

	assert.Contains(t, out, "Tabs (1)")
	assert.Contains(t, out, "Example")
	assert.Contains(t, out, "no downloads")
}
