package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Build   BuildConfig   `mapstructure:"build" yaml:"build"`
	Help    HelpConfig    `mapstructure:"help" yaml:"help"`
	Verify  VerifyConfig  `mapstructure:"verify" yaml:"verify"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// OutputConfig contains settings for command output
type OutputConfig struct {
	// Format is "text" or "json"
	Format   string `mapstructure:"format" yaml:"format"`
	Progress bool   `mapstructure:"progress" yaml:"progress"`
}

// BuildConfig contains package build settings
type BuildConfig struct {
	// Python is the interpreter used to build wheels
	Python string `mapstructure:"python" yaml:"python"`
}

// HelpConfig contains help index settings
type HelpConfig struct {
	URLMinBuild int `mapstructure:"url_min_build" yaml:"url_min_build"`
}

// VerifyConfig contains archive verification settings
type VerifyConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// CacheConfig contains summary cache settings
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Directory string        `mapstructure:"directory" yaml:"directory"`
}

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate clamps out-of-range values to their defaults. Only an unknown
// log level is an error.
func (c *Config) Validate() error {
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	if !contains(logLevels, c.Logging.Level) {
		return fmt.Errorf("invalid logging.level %q: must be one of %s", c.Logging.Level, strings.Join(logLevels, ", "))
	}
	if c.Logging.Format != "pretty" && c.Logging.Format != "json" {
		c.Logging.Format = DefaultLogFormat
	}
	if c.Output.Format != OutputText && c.Output.Format != OutputJSON {
		c.Output.Format = DefaultOutputFormat
	}
	if strings.TrimSpace(c.Build.Python) == "" {
		c.Build.Python = DefaultPython
	}
	if c.Help.URLMinBuild < 1 {
		c.Help.URLMinBuild = DefaultURLMinBuild
	}
	if c.Verify.Workers < 1 {
		c.Verify.Workers = DefaultWorkers
	}
	if limit := runtime.NumCPU() * 4; c.Verify.Workers > limit {
		c.Verify.Workers = limit
	}
	if c.Cache.TTL < time.Minute {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Cache.Directory == "" {
		c.Cache.Directory = CacheDir()
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
