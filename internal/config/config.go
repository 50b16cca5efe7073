// Package config loads todue settings from ~/.todue/config.yaml and TODUE_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the full todue configuration
type Config struct {
	Database  DatabaseConfig  `yaml:"database" mapstructure:"database"`
	Tracker   TrackerConfig   `yaml:"tracker" mapstructure:"tracker"`
	Reminders RemindersConfig `yaml:"reminders" mapstructure:"reminders"`
	CSV       CSVConfig       `yaml:"csv" mapstructure:"csv"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	UI        UIConfig        `yaml:"ui" mapstructure:"ui"`
}

// DatabaseConfig locates the SQLite file
type DatabaseConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// TrackerConfig configures the time tracker
type TrackerConfig struct {
	TickInterval time.Duration `yaml:"tick_interval" mapstructure:"tick_interval"`
}

// RemindersConfig configures the deadline reminder scan
type RemindersConfig struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// CSVConfig sets the default import/export file
type CSVConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures the log file
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	File  string `yaml:"file" mapstructure:"file"`
}

// UIConfig holds display preferences
type UIConfig struct {
	NoUI bool `yaml:"no_ui" mapstructure:"no_ui"`
}

// Dir returns ~/.todue
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".todue"
	}
	return filepath.Join(home, ".todue")
}

// Path returns the path to the config file
func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(Dir(), "todue.db"),
		},
		Tracker: TrackerConfig{
			TickInterval: time.Second,
		},
		Reminders: RemindersConfig{
			Enabled:  true,
			Interval: time.Hour,
		},
		CSV: CSVConfig{
			Path: "tasks.csv",
		},
		Log: LogConfig{
			Level: "warn",
			File:  filepath.Join(Dir(), "todue.log"),
		},
	}
}

// Load reads the config file at path (Path() when empty) on top of the
// defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}
	cfg := DefaultConfig()

	v := viper.New()
	setDefaults(v, cfg)
	v.SetEnvPrefix("TODUE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	cfg.Database.Path = expandHome(cfg.Database.Path)
	cfg.Log.File = expandHome(cfg.Log.File)
	return cfg, nil
}

// setDefaults registers every key so environment overrides apply even when
// the file does not mention them
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("database.path", cfg.Database.Path)
	v.SetDefault("tracker.tick_interval", cfg.Tracker.TickInterval)
	v.SetDefault("reminders.enabled", cfg.Reminders.Enabled)
	v.SetDefault("reminders.interval", cfg.Reminders.Interval)
	v.SetDefault("csv.path", cfg.CSV.Path)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("ui.no_ui", cfg.UI.NoUI)
}

// WriteDefault writes the default configuration to path, refusing to
// overwrite an existing file
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	content, err := Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	header := "# todue configuration\n# Durations use Go syntax: 1s, 30m, 1h\n"
	return os.WriteFile(path, append([]byte(header), content...), 0644)
}

// Marshal renders cfg as YAML with durations in their short form
func Marshal(cfg *Config) ([]byte, error) {
	doc := map[string]interface{}{
		"database": map[string]interface{}{"path": cfg.Database.Path},
		"tracker":  map[string]interface{}{"tick_interval": cfg.Tracker.TickInterval.String()},
		"reminders": map[string]interface{}{
			"enabled":  cfg.Reminders.Enabled,
			"interval": cfg.Reminders.Interval.String(),
		},
		"csv": map[string]interface{}{"path": cfg.CSV.Path},
		"log": map[string]interface{}{"level": cfg.Log.Level, "file": cfg.Log.File},
		"ui":  map[string]interface{}{"no_ui": cfg.UI.NoUI},
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return out, nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
