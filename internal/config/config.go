// Package config loads mindcheck settings from an optional YAML file and
// MINDCHECK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. MINDCHECK_DB
// or MINDCHECK_LOG_LEVEL.
const EnvPrefix = "MINDCHECK"

type Config struct {
	DB       string         `mapstructure:"db"`
	Log      LogConfig      `mapstructure:"log"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	History  HistoryConfig  `mapstructure:"history"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console or json
	File   string `mapstructure:"file"`   // empty disables logging
}

type CatalogConfig struct {
	Default string `mapstructure:"default"` // fallback assessment id
	Strict  bool   `mapstructure:"strict"`  // unknown ids are errors instead of falling back
	Dir     string `mapstructure:"dir"`     // extra YAML definitions
}

type HistoryConfig struct {
	Limit int `mapstructure:"limit"`
}

type SnapshotConfig struct {
	Keep int `mapstructure:"keep"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", DefaultLogPath())
	v.SetDefault("catalog.default", "gad7")
	v.SetDefault("catalog.strict", false)
	v.SetDefault("catalog.dir", "")
	v.SetDefault("history.limit", 50)
	v.SetDefault("snapshot.keep", 10)
}

// Load reads configuration. When path is empty, config.yaml is looked up in
// the mindcheck config directory and may be absent; an explicit path must
// exist. Environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []string
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level %q: want debug, info, warn or error", c.Log.Level))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format %q: want console or json", c.Log.Format))
	}
	if c.Catalog.Default == "" {
		errs = append(errs, "catalog.default must not be empty")
	}
	if c.History.Limit <= 0 {
		errs = append(errs, fmt.Sprintf("history.limit must be positive, got %d", c.History.Limit))
	}
	if c.Snapshot.Keep <= 0 {
		errs = append(errs, fmt.Sprintf("snapshot.keep must be positive, got %d", c.Snapshot.Keep))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// configDir is $XDG_CONFIG_HOME/mindcheck, falling back to ~/.config/mindcheck.
func configDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "mindcheck")
}

// DefaultLogPath is $XDG_STATE_HOME/mindcheck/mindcheck.log, falling back
// to ~/.local/state/mindcheck/mindcheck.log.
func DefaultLogPath() string {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(base, "mindcheck", "mindcheck.log")
}
