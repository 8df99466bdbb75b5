// Package config loads and saves the mcro TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config holds all mcro configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Appearance AppearanceConfig `toml:"appearance"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds storage and display preferences.
type GeneralConfig struct {
	DataDir      string `toml:"data_dir,omitempty"`
	Backend      string `toml:"backend"`
	HistoryOrder string `toml:"history_order"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file,omitempty"`
}

// Known option values.
var (
	Backends      = []string{"sqlite", "json"}
	HistoryOrders = []string{"asc", "desc"}
	Themes        = []string{"flexoki-dark", "catppuccin-mocha", "tokyo-night", "terminal"}
	LogLevels     = []string{"debug", "info", "warn", "error"}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Backend:      "sqlite",
			HistoryOrder: "desc",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks every enumerated option.
func (c Config) Validate() error {
	return validation.Errors{
		"general.backend":       validation.Validate(c.General.Backend, validation.Required, validation.In(toAny(Backends)...)),
		"general.history_order": validation.Validate(c.General.HistoryOrder, validation.Required, validation.In(toAny(HistoryOrders)...)),
		"appearance.theme":      validation.Validate(c.Appearance.Theme, validation.Required, validation.In(toAny(Themes)...)),
		"log.level":             validation.Validate(c.Log.Level, validation.Required, validation.In(toAny(LogLevels)...)),
	}.Filter()
}

func toAny(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mcro")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "mcro")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DefaultDataDir returns the XDG-compliant data directory.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "mcro")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "mcro")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("invalid config %s: %w", ConfigPath(), err)
	}

	return cfg, nil
}

// Save validates and writes the config to disk.
func Save(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// GetDataDir returns the data directory from env var, config, or the default, in that order.
func GetDataDir(cfg Config) string {
	if dir := os.Getenv("MCRO_DATA_DIR"); dir != "" {
		return dir
	}
	if cfg.General.DataDir != "" {
		return cfg.General.DataDir
	}
	return DefaultDataDir()
}

// GetBackend returns the storage backend from env var or config.
func GetBackend(cfg Config) string {
	if b := os.Getenv("MCRO_BACKEND"); b != "" {
		return b
	}
	return cfg.General.Backend
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
