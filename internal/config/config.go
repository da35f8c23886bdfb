// Package config loads worker settings from defaults, an optional YAML file,
// TPLWORKER_* environment variables and bound command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/goliatone/go-tplworker/internal/logging"
)

// EnvPrefix namespaces environment overrides, e.g. TPLWORKER_ENGINES.
const EnvPrefix = "TPLWORKER"

// Config holds the worker settings.
type Config struct {
	// Engines is the comma separated inclusion list. Empty selects all.
	Engines string `mapstructure:"engines"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
	// Preload toggles the warmup pass.
	Preload bool `mapstructure:"preload"`
	// Catalog points at a catalog file replacing the embedded one.
	Catalog string `mapstructure:"catalog"`
	// ScratchDir is the parent for temporary template files.
	ScratchDir string `mapstructure:"scratch_dir"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		LogLevel: logging.DefaultLevel,
		Preload:  true,
	}
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	defaults := Defaults()
	v.SetDefault("engines", defaults.Engines)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("preload", defaults.Preload)
	v.SetDefault("catalog", defaults.Catalog)
	v.SetDefault("scratch_dir", defaults.ScratchDir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file into v and unmarshals the result. A
// missing explicit file is an error; no file at all is fine.
func Load(v *viper.Viper, file string) (Config, error) {
	if v == nil {
		v = New()
	}
	if file = strings.TrimSpace(file); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: file %s not found", file)
			}
			return Config{}, fmt.Errorf("config: read %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
