package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/quantmind-br/fmepackager/internal/help"
)

// Default values
const (
	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"

	// Output defaults
	DefaultOutputFormat = OutputText
	DefaultProgress     = false

	// Build defaults
	DefaultPython = "python"

	// Help defaults
	DefaultURLMinBuild = help.DefaultURLMinBuild

	// Verify defaults
	DefaultWorkers = 4

	// Cache defaults
	DefaultCacheEnabled = true
	DefaultCacheTTL     = 7 * 24 * time.Hour
)

// EnvPrefix prefixes environment overrides, e.g. FMEPACKAGER_VERIFY_WORKERS
const EnvPrefix = "FMEPACKAGER"

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fmepackager"
	}
	return filepath.Join(home, ".fmepackager")
}

// CacheDir returns the cache directory path
func CacheDir() string {
	return filepath.Join(ConfigDir(), "cache")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Output: OutputConfig{
			Format:   DefaultOutputFormat,
			Progress: DefaultProgress,
		},
		Build: BuildConfig{
			Python: DefaultPython,
		},
		Help: HelpConfig{
			URLMinBuild: DefaultURLMinBuild,
		},
		Verify: VerifyConfig{
			Workers: DefaultWorkers,
		},
		Cache: CacheConfig{
			Enabled:   DefaultCacheEnabled,
			TTL:       DefaultCacheTTL,
			Directory: CacheDir(),
		},
	}
}
