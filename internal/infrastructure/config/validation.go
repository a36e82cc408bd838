package config

import (
	"fmt"
	"net"
	"strings"
)

// validateConfig performs comprehensive validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateWindow(config)...)
	validationErrors = append(validationErrors, validateSearch(config)...)
	validationErrors = append(validationErrors, validateBridge(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)
	validationErrors = append(validationErrors, validateEvents(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}

	return nil
}

func validateWindow(config *Config) []string {
	var validationErrors []string
	if config.Window.TabBarHeight < 0 {
		validationErrors = append(validationErrors, "window.tab_bar_height must be non-negative")
	}
	if config.Window.Width <= 0 || config.Window.Height <= 0 {
		validationErrors = append(validationErrors, "window.width and window.height must be positive")
	}
	if config.Window.ResizePollMs < minResizePollMs {
		validationErrors = append(validationErrors, fmt.Sprintf("window.resize_poll_ms must be at least %d", minResizePollMs))
	}
	return validationErrors
}

func validateSearch(config *Config) []string {
	var validationErrors []string
	if config.Search.DefaultEngine != "" && !strings.Contains(config.Search.DefaultEngine, "%s") {
		validationErrors = append(validationErrors, "search.default_engine must contain a %s placeholder")
	}
	for key, template := range config.Search.Shortcuts {
		if strings.TrimSpace(key) == "" {
			validationErrors = append(validationErrors, "search.shortcuts keys cannot be empty")
			continue
		}
		if !strings.Contains(template, "%s") {
			validationErrors = append(validationErrors, fmt.Sprintf("search.shortcuts.%s must contain a %%s placeholder", key))
		}
	}
	return validationErrors
}

func validateBridge(config *Config) []string {
	if !config.Bridge.Enabled {
		return nil
	}
	if _, _, err := net.SplitHostPort(config.Bridge.Listen); err != nil {
		return []string{fmt.Sprintf("bridge.listen must be host:port: %v", err)}
	}
	return nil
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("logging.level %q is not one of trace, debug, info, warn, error", config.Logging.Level))
	}
	switch config.Logging.Format {
	case "console", "json":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("logging.format %q must be console or json", config.Logging.Format))
	}
	return validationErrors
}

func validateEvents(config *Config) []string {
	if config.Events.Buffer <= 0 {
		return []string{"events.buffer must be positive"}
	}
	return nil
}
