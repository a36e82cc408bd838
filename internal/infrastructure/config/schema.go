package config

// Config represents the complete configuration for multitab.
type Config struct {
	// Window controls the host window and the tab bar strip.
	Window WindowConfig `mapstructure:"window" toml:"window" json:"window"`
	// Browser controls the browser process that hosts every tab.
	Browser BrowserConfig `mapstructure:"browser" toml:"browser" json:"browser"`
	// Search controls how typed input becomes a URL.
	Search SearchConfig `mapstructure:"search" toml:"search" json:"search"`
	// Downloads controls where downloads are saved.
	Downloads DownloadsConfig `mapstructure:"downloads" toml:"downloads" json:"downloads"`
	// Bridge controls the local display-layer endpoint.
	Bridge  BridgeConfig  `mapstructure:"bridge" toml:"bridge" json:"bridge"`
	Logging LoggingConfig `mapstructure:"logging" toml:"logging" json:"logging"`
	// Events controls the outbound notification queue.
	Events EventsConfig `mapstructure:"events" toml:"events" json:"events"`
}

// WindowConfig holds window geometry settings.
type WindowConfig struct {
	// TabBarHeight is the strip, in pixels, reserved above the visible tab.
	TabBarHeight int `mapstructure:"tab_bar_height" toml:"tab_bar_height" json:"tab_bar_height" jsonschema:"minimum=0"`
	Width        int `mapstructure:"width" toml:"width" json:"width" jsonschema:"minimum=1"`
	Height       int `mapstructure:"height" toml:"height" json:"height" jsonschema:"minimum=1"`
	// ResizePollMs is how often the window geometry is sampled.
	ResizePollMs int `mapstructure:"resize_poll_ms" toml:"resize_poll_ms" json:"resize_poll_ms" jsonschema:"minimum=50"`
}

// BrowserConfig holds browser process settings.
type BrowserConfig struct {
	// ExecPath overrides the Chromium binary. Empty means auto-detect.
	ExecPath string `mapstructure:"exec_path" toml:"exec_path" json:"exec_path"`
	Headless bool   `mapstructure:"headless" toml:"headless" json:"headless"`
	// UserDataDir is the profile directory shared by every tab.
	UserDataDir string `mapstructure:"user_data_dir" toml:"user_data_dir" json:"user_data_dir"`
	// BootstrapScript is a JavaScript file injected into every document.
	BootstrapScript string `mapstructure:"bootstrap_script" toml:"bootstrap_script" json:"bootstrap_script"`
	// Homepage is loaded by tabs opened without a URL.
	Homepage string `mapstructure:"homepage" toml:"homepage" json:"homepage"`
}

// SearchConfig holds search engine settings.
type SearchConfig struct {
	// DefaultEngine is a URL template with one %s placeholder.
	DefaultEngine string `mapstructure:"default_engine" toml:"default_engine" json:"default_engine"`
	// Shortcuts maps bang keys ("!g query") to URL templates.
	Shortcuts map[string]string `mapstructure:"shortcuts" toml:"shortcuts" json:"shortcuts"`
}

// DownloadsConfig holds download settings.
type DownloadsConfig struct {
	// Path is the default download directory.
	Path string `mapstructure:"path" toml:"path" json:"path"`
	// AskDestination shows a save dialog for every download. When false,
	// downloads go straight to Path.
	AskDestination bool `mapstructure:"ask_destination" toml:"ask_destination" json:"ask_destination"`
}

// BridgeConfig holds the display-layer endpoint settings.
type BridgeConfig struct {
	Enabled bool   `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	Listen  string `mapstructure:"listen" toml:"listen" json:"listen"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error"`
	Format string `mapstructure:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json"`
}

// EventsConfig holds notification queue settings.
type EventsConfig struct {
	// Buffer is how many events may wait for delivery before new ones are dropped.
	Buffer int `mapstructure:"buffer" toml:"buffer" json:"buffer" jsonschema:"minimum=1"`
}
