// Package config resolves application configuration from viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/spendwise/internal/common"
	"github.com/spf13/viper"
)

// DefaultDatabasePath is used when database.path is not configured.
const DefaultDatabasePath = "$HOME/.local/share/spendwise/spendwise.db"

// DefaultMinConfidence is the lowest suggestion confidence applied automatically.
const DefaultMinConfidence = 0.6

// Config is the resolved application configuration.
type Config struct {
	DatabasePath  string
	LogLevel      string
	LogFormat     string
	MinConfidence float64
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("categorize.min_confidence", DefaultMinConfidence)
}

// Load reads the configuration from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabasePath:  ExpandPath(v.GetString("database.path")),
		LogLevel:      v.GetString("logging.level"),
		LogFormat:     v.GetString("logging.format"),
		MinConfidence: v.GetFloat64("categorize.min_confidence"),
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = ExpandPath(DefaultDatabasePath)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that configured values are usable.
func (c *Config) Validate() error {
	if c.MinConfidence <= 0 || c.MinConfidence > 1 {
		return fmt.Errorf("%w: categorize.min_confidence must be in (0, 1], got %v", common.ErrInvalidConfig, c.MinConfidence)
	}
	if _, err := common.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("%w: logging.format must be console or json, got %q", common.ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// ExpandPath expands a leading ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}

	return os.ExpandEnv(path)
}
