// Package config loads breeze configuration from
// ~/.config/breeze/breeze.yaml. Every failure mode degrades to built-in
// defaults with a warning; configuration can never prevent startup.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/breeze-nav/breeze/internal/logger"
)

// Options holds the behavioral knobs.
type Options struct {
	ShowHidden           bool     `mapstructure:"show_hidden"`
	ClearQueryOnEscape   bool     `mapstructure:"clear_query_on_escape"`
	PersistentSelection  bool     `mapstructure:"persistent_selection"`
	IncrementalThreshold int      `mapstructure:"incremental_threshold"`
	CacheTTLMS           int      `mapstructure:"cache_ttl_ms"`
	ListTimeoutMS        int      `mapstructure:"list_timeout_ms"`
	HistorySize          int      `mapstructure:"history_size"`
	IgnorePatterns       []string `mapstructure:"ignore_patterns"`
}

// Command is one user-defined command table row: a token the user can type
// in Normal mode, dispatched as data, never executed by breeze itself.
type Command struct {
	Token       string `mapstructure:"token"`
	Args        string `mapstructure:"args"`
	Destructive bool   `mapstructure:"destructive"`
}

// Config is the full loaded configuration.
type Config struct {
	Options     Options             `mapstructure:"options"`
	Keybindings map[string][]string `mapstructure:"keybindings"`
	Commands    []Command           `mapstructure:"commands"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Options: Options{
			ShowHidden:           false,
			ClearQueryOnEscape:   true,
			PersistentSelection:  false,
			IncrementalThreshold: 2000,
			CacheTTLMS:           2000,
			ListTimeoutMS:        3000,
			HistorySize:          100,
			IgnorePatterns:       []string{},
		},
		Keybindings: map[string][]string{},
	}
}

// Load reads the config file at path, or the default location when path is
// empty. It returns the configuration plus any warnings to surface once in
// the UI. Malformed configuration yields defaults, never an error.
func Load(path string) (*Config, []string) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			logger.Warn("cannot resolve home directory: %v", err)
			return Default(), nil
		}
		v.AddConfigPath(filepath.Join(home, ".config", "breeze"))
		v.SetConfigName("breeze")
	}

	def := Default()
	v.SetDefault("options.show_hidden", def.Options.ShowHidden)
	v.SetDefault("options.clear_query_on_escape", def.Options.ClearQueryOnEscape)
	v.SetDefault("options.persistent_selection", def.Options.PersistentSelection)
	v.SetDefault("options.incremental_threshold", def.Options.IncrementalThreshold)
	v.SetDefault("options.cache_ttl_ms", def.Options.CacheTTLMS)
	v.SetDefault("options.list_timeout_ms", def.Options.ListTimeoutMS)
	v.SetDefault("options.history_size", def.Options.HistorySize)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return def, nil
		}
		logger.Warn("config unreadable: %v", err)
		return def, []string{fmt.Sprintf("config ignored: %v", err)}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		logger.Warn("config malformed: %v", err)
		return def, []string{fmt.Sprintf("config ignored: %v", err)}
	}

	warnings := cfg.validate()
	return cfg, warnings
}

// validate clamps out-of-range values back to sane bounds and reports what
// it changed.
func (c *Config) validate() []string {
	var warnings []string
	def := Default()

	if c.Options.IncrementalThreshold < 0 {
		warnings = append(warnings, fmt.Sprintf("incremental_threshold %d invalid, using %d",
			c.Options.IncrementalThreshold, def.Options.IncrementalThreshold))
		c.Options.IncrementalThreshold = def.Options.IncrementalThreshold
	}
	if c.Options.CacheTTLMS < 0 || c.Options.CacheTTLMS > 60000 {
		warnings = append(warnings, fmt.Sprintf("cache_ttl_ms %d out of range, using %d",
			c.Options.CacheTTLMS, def.Options.CacheTTLMS))
		c.Options.CacheTTLMS = def.Options.CacheTTLMS
	}
	if c.Options.ListTimeoutMS < 100 || c.Options.ListTimeoutMS > 60000 {
		warnings = append(warnings, fmt.Sprintf("list_timeout_ms %d out of range, using %d",
			c.Options.ListTimeoutMS, def.Options.ListTimeoutMS))
		c.Options.ListTimeoutMS = def.Options.ListTimeoutMS
	}
	if c.Options.HistorySize < 1 || c.Options.HistorySize > 10000 {
		warnings = append(warnings, fmt.Sprintf("history_size %d out of range, using %d",
			c.Options.HistorySize, def.Options.HistorySize))
		c.Options.HistorySize = def.Options.HistorySize
	}

	kept := c.Commands[:0]
	for _, cmd := range c.Commands {
		if cmd.Token == "" {
			warnings = append(warnings, "command with empty token ignored")
			continue
		}
		kept = append(kept, cmd)
	}
	c.Commands = kept

	return warnings
}

// Path returns the default config file location.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "breeze", "breeze.yaml"), nil
}
