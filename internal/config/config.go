// Package config loads the CLI configuration file using viper.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"firestige.xyz/warts/internal/log"
)

// Config is the top-level configuration. Everything is optional; the zero
// file is a valid configuration.
type Config struct {
	Log *log.LoggerConfig `mapstructure:"log"`
}

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	return &Config{Log: log.DefaultConfig()}
}

// Load reads a YAML config file. An empty path returns Default. A missing
// log section falls back to the default console logger.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Log == nil {
		cfg.Log = log.DefaultConfig()
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Pattern == "" {
		cfg.Log.Pattern = log.DefaultConfig().Pattern
	}
	if cfg.Log.Time == "" {
		cfg.Log.Time = log.DefaultConfig().Time
	}
	if len(cfg.Log.Appenders) == 0 {
		cfg.Log.Appenders = log.DefaultConfig().Appenders
	}
	return cfg, nil
}
