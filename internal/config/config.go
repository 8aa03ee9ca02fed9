// Package config loads and writes the per-project wwvault configuration.
// Config is an explicit value handed to whatever consumes it; there is no
// process-wide config singleton.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// FileName is the config file searched for in the working directory and in
// ~/.config/wwvault/.
const FileName = "wwvault.toml"

// StateDirName is the dot-directory under the vault root holding run
// history and logs.
const StateDirName = ".wwvault"

// Config is one project's settings.
type Config struct {
	// VaultRoot is the top of the markdown vault.
	VaultRoot string `mapstructure:"vault_root" toml:"vault_root"`

	// EventsDir is the folder under VaultRoot that synced event documents
	// are written into.
	EventsDir string `mapstructure:"events_dir" toml:"events_dir"`

	// ExportPath is the JSON export file written by the authoring tool.
	ExportPath string `mapstructure:"export_path" toml:"export_path"`

	// WaapiURL is the authoring tool's WAAPI websocket endpoint, used only
	// for lookup navigation.
	WaapiURL string `mapstructure:"waapi_url" toml:"waapi_url"`

	// DashboardPort is the local port the live dashboard listens on.
	DashboardPort int `mapstructure:"dashboard_port" toml:"dashboard_port"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		EventsDir:     "Events",
		WaapiURL:      "ws://127.0.0.1:8080/waapi",
		DashboardPort: 8765,
	}
}

// Load reads configuration from path, or, when path is empty, from the
// first of ./wwvault.toml and ~/.config/wwvault/wwvault.toml that exists.
// Environment variables prefixed WWV_ override file values (WWV_VAULT_ROOT
// and so on). A missing file is not an error; defaults plus environment
// apply, and Validate decides whether that is enough to run.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix("WWV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("vault_root", def.VaultRoot)
	v.SetDefault("events_dir", def.EventsDir)
	v.SetDefault("export_path", def.ExportPath)
	v.SetDefault("waapi_url", def.WaapiURL)
	v.SetDefault("dashboard_port", def.DashboardPort)

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file in the search
// order, or "".
func findConfigFile() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, ".config", "wwvault", FileName)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// Validate checks the settings a sync run depends on.
func (c Config) Validate() error {
	if c.VaultRoot == "" {
		return fmt.Errorf("vault_root is required")
	}
	if c.EventsDir == "" {
		return fmt.Errorf("events_dir is required")
	}
	if c.ExportPath == "" {
		return fmt.Errorf("export_path is required")
	}
	if c.DashboardPort < 0 || c.DashboardPort > 65535 {
		return fmt.Errorf("dashboard_port must be a valid port (got %d)", c.DashboardPort)
	}
	return nil
}

// OutputRoot is the directory synced documents are written under.
func (c Config) OutputRoot() string {
	return filepath.Join(c.VaultRoot, c.EventsDir)
}

// StateDir is the vault's state directory (history database, logs).
func (c Config) StateDir() string {
	return filepath.Join(c.VaultRoot, StateDirName)
}

// HistoryPath is the run-history database file.
func (c Config) HistoryPath() string {
	return filepath.Join(c.StateDir(), "history.db")
}

// LogPath is the rotating log file.
func (c Config) LogPath() string {
	return filepath.Join(c.StateDir(), "wwv.log")
}

// Write saves cfg as TOML at path, creating parent directories on demand.
func Write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
