package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bnema/multitab/internal/application/port"
	"github.com/bnema/multitab/internal/domain/url"
	"github.com/bnema/multitab/internal/infrastructure/config"
	"github.com/bnema/multitab/internal/infrastructure/portal"
	"github.com/bnema/multitab/internal/logging"
	"github.com/bnema/multitab/internal/ui/coordinator"
)

// SettingsFromConfig extracts the values a running shell can pick up live.
func SettingsFromConfig(cfg *config.Config) coordinator.Settings {
	return coordinator.Settings{
		TabBarHeight: cfg.Window.TabBarHeight,
		DownloadDir:  cfg.Downloads.Path,
		Resolver:     resolverFromConfig(cfg),
	}
}

func resolverFromConfig(cfg *config.Config) url.Resolver {
	shortcuts := make(map[string]string, len(cfg.Search.Shortcuts))
	for k, v := range cfg.Search.Shortcuts {
		shortcuts[k] = v
	}
	return url.Resolver{DefaultSearch: cfg.Search.DefaultEngine, Shortcuts: shortcuts}
}

// readBootstrapScript loads the script injected into every document.
func readBootstrapScript(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read bootstrap script: %w", err)
	}
	return string(data), nil
}

// portalProbe is the part of the portal connection the prompt choice needs.
type portalProbe interface {
	Available() bool
}

// selectPrompt picks the save dialog, or auto-accept when it is disabled or
// no portal is reachable.
func selectPrompt(ctx context.Context, cfg *config.Config, conn portalProbe, dialog port.SavePrompt) port.SavePrompt {
	if !cfg.Downloads.AskDestination {
		return portal.AutoAccept{}
	}
	if conn == nil || !conn.Available() {
		logging.FromContext(ctx).Warn().Msg("no desktop portal, downloads are saved without asking")
		return portal.AutoAccept{}
	}
	return dialog
}

func pollInterval(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Window.ResizePollMs) * time.Millisecond
}
