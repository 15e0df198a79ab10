// Package config loads CLI-wide defaults for the refsinfo and refsls
// commands through Viper, the same way the teacher's device and disk
// packages load their DMG-handling defaults: a named config file searched
// across a handful of conventional paths, environment overrides, and
// SetDefault fallbacks so the tools run sensibly with no config file at all.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds settings shared by every command in this module.
type Config struct {
	// CacheEnabled turns on the in-memory metadata block cache (see
	// internal/blocksource.NewCachingSource) that sits between a Volume and
	// its underlying Block Source.
	CacheEnabled bool `mapstructure:"cache_enabled"`

	// CacheBlocks bounds how many metadata blocks the cache retains.
	CacheBlocks int `mapstructure:"cache_blocks"`

	// Verbose enables additional diagnostic output in CLI commands.
	Verbose bool `mapstructure:"verbose"`
}

// Load reads refs-config.yaml from the working directory, a "./config"
// subdirectory, or $HOME/.refs, falling back to built-in defaults when none
// is found. Values may also come from REFS_-prefixed environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("refs-config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.refs")

	v.SetDefault("cache_enabled", true)
	v.SetDefault("cache_blocks", 256)
	v.SetDefault("verbose", false)

	v.SetEnvPrefix("REFS")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}
