// Package config loads, validates, watches and writes the multitab
// configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config         *Config
	viper          *viper.Viper
	configDir      string
	mu             sync.RWMutex
	callbacks      []func(*Config)
	watching       bool
	skipNextReload bool
}

// NewManager creates a configuration manager for the XDG config directory.
func NewManager() (*Manager, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	return NewManagerAt(configDir)
}

// NewManagerAt creates a configuration manager reading config.toml from configDir.
func NewManagerAt(configDir string) (*Manager, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	// MULTITAB_WINDOW_TAB_BAR_HEIGHT, MULTITAB_DOWNLOADS_PATH, ...
	v.SetEnvPrefix("MULTITAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("logging.level", "MULTITAB_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind MULTITAB_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "MULTITAB_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind MULTITAB_LOG_FORMAT: %w", err)
	}

	return &Manager{
		viper:     v,
		configDir: configDir,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables.
// A missing file is created with the defaults.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	config, err := m.unmarshalConfig()
	if err != nil {
		return err
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var configFileNotFoundError viper.ConfigFileNotFoundError
	if !errors.As(err, &configFileNotFoundError) {
		configFile := m.viper.ConfigFileUsed()
		if configFile == "" {
			configFile = m.ConfigFile()
		}
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", configFile, err)
	}

	if createErr := m.createDefaultConfig(); createErr != nil {
		return fmt.Errorf(
			"failed to create default config at %s: %w\nTry creating the directory manually or check permissions",
			m.configDir,
			createErr,
		)
	}
	if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
		return fmt.Errorf("failed to read newly created config file: %w", rereadErr)
	}
	return nil
}

func (m *Manager) unmarshalConfig() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.viper.ConfigFileUsed(),
			err,
		)
	}
	return config, nil
}

func normalizeConfig(config *Config) {
	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	config.Logging.Format = strings.ToLower(strings.TrimSpace(config.Logging.Format))
	if config.Logging.Format == "pretty" || config.Logging.Format == "text" {
		config.Logging.Format = defaultLogFormat
	}

	config.Browser.ExecPath = strings.TrimSpace(config.Browser.ExecPath)
	if strings.TrimSpace(config.Browser.Homepage) == "" {
		config.Browser.Homepage = defaultHomepage
	}

	config.Downloads.Path = strings.TrimSpace(config.Downloads.Path)
	if config.Downloads.Path == "" {
		if dir, err := GetDownloadDir(); err == nil {
			config.Downloads.Path = dir
		}
	}

	if config.Search.Shortcuts == nil {
		config.Search.Shortcuts = map[string]string{}
	}
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	configCopy := *m.config
	return &configCopy
}

// Save validates cfg and writes it to disk.
func (m *Manager) Save(cfg *Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := os.MkdirAll(m.configDir, dirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := WriteConfigOrdered(cfg, m.ConfigFile()); err != nil {
		return err
	}

	if m.watching {
		m.skipNextReload = true
		m.config = cfg
		return nil
	}
	return m.reload()
}

// ConfigFile returns the path of the configuration file.
func (m *Manager) ConfigFile() string {
	if used := m.viper.ConfigFileUsed(); used != "" {
		return used
	}
	return filepath.Join(m.configDir, configFileName)
}

// createDefaultConfig writes the defaults and the matching JSON schema.
func (m *Manager) createDefaultConfig() error {
	if err := os.MkdirAll(m.configDir, dirPerm); err != nil {
		return err
	}
	if err := WriteConfigOrdered(DefaultConfig(), filepath.Join(m.configDir, configFileName)); err != nil {
		return err
	}
	return WriteSchemaFile(filepath.Join(m.configDir, schemaFileName))
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.viper.SetDefault("window.tab_bar_height", defaults.Window.TabBarHeight)
	m.viper.SetDefault("window.width", defaults.Window.Width)
	m.viper.SetDefault("window.height", defaults.Window.Height)
	m.viper.SetDefault("window.resize_poll_ms", defaults.Window.ResizePollMs)

	m.viper.SetDefault("browser.exec_path", defaults.Browser.ExecPath)
	m.viper.SetDefault("browser.headless", defaults.Browser.Headless)
	m.viper.SetDefault("browser.user_data_dir", defaults.Browser.UserDataDir)
	m.viper.SetDefault("browser.bootstrap_script", defaults.Browser.BootstrapScript)
	m.viper.SetDefault("browser.homepage", defaults.Browser.Homepage)

	m.viper.SetDefault("search.default_engine", defaults.Search.DefaultEngine)
	m.viper.SetDefault("search.shortcuts", defaults.Search.Shortcuts)

	m.viper.SetDefault("downloads.path", defaults.Downloads.Path)
	m.viper.SetDefault("downloads.ask_destination", defaults.Downloads.AskDestination)

	m.viper.SetDefault("bridge.enabled", defaults.Bridge.Enabled)
	m.viper.SetDefault("bridge.listen", defaults.Bridge.Listen)

	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)

	m.viper.SetDefault("events.buffer", defaults.Events.Buffer)
}
