package config

const (
	dirPerm  = 0o755
	filePerm = 0o644

	defaultTabBarHeight = 40
	defaultWindowWidth  = 1200
	defaultWindowHeight = 800
	defaultResizePollMs = 250
	defaultEventBuffer  = 256
	defaultBridgeListen = "127.0.0.1:7766"
	defaultHomepage     = "about:blank"
	defaultSearchEngine = "https://duckduckgo.com/?q=%s"
	defaultLogLevel     = "info"
	defaultLogFormat    = "console"
	minResizePollMs     = 50
)

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() *Config {
	downloadDir, err := GetDownloadDir()
	if err != nil {
		downloadDir = ""
	}

	return &Config{
		Window: WindowConfig{
			TabBarHeight: defaultTabBarHeight,
			Width:        defaultWindowWidth,
			Height:       defaultWindowHeight,
			ResizePollMs: defaultResizePollMs,
		},
		Browser: BrowserConfig{
			Homepage: defaultHomepage,
		},
		Search: SearchConfig{
			DefaultEngine: defaultSearchEngine,
			Shortcuts: map[string]string{
				"g":  "https://www.google.com/search?q=%s",
				"gh": "https://github.com/search?q=%s",
				"w":  "https://en.wikipedia.org/wiki/Special:Search?search=%s",
				"yt": "https://www.youtube.com/results?search_query=%s",
			},
		},
		Downloads: DownloadsConfig{
			Path:           downloadDir,
			AskDestination: true,
		},
		Bridge: BridgeConfig{
			Enabled: true,
			Listen:  defaultBridgeListen,
		},
		Logging: LoggingConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Events: EventsConfig{
			Buffer: defaultEventBuffer,
		},
	}
}
