package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/quantmind-br/fmepackager/internal/config"
)

// ConfigValues holds form values that map to Config struct.
// Numeric and duration fields are stored as strings for form editing.
type ConfigValues struct {
	LogLevel  string
	LogFormat string

	OutputFormat   string
	OutputProgress bool

	Python      string
	URLMinBuild string
	Workers     string

	CacheEnabled   bool
	CacheTTL       string
	CacheDirectory string
}

// FromConfig converts a Config to ConfigValues for form editing
func FromConfig(cfg *config.Config) *ConfigValues {
	return &ConfigValues{
		LogLevel:  cfg.Logging.Level,
		LogFormat: cfg.Logging.Format,

		OutputFormat:   cfg.Output.Format,
		OutputProgress: cfg.Output.Progress,

		Python:      cfg.Build.Python,
		URLMinBuild: strconv.Itoa(cfg.Help.URLMinBuild),
		Workers:     strconv.Itoa(cfg.Verify.Workers),

		CacheEnabled:   cfg.Cache.Enabled,
		CacheTTL:       formatDuration(cfg.Cache.TTL),
		CacheDirectory: cfg.Cache.Directory,
	}
}

// ToConfig converts ConfigValues back to a Config struct
func (v *ConfigValues) ToConfig() (*config.Config, error) {
	workers, err := parseIntOrDefault(v.Workers, config.DefaultWorkers)
	if err != nil {
		return nil, fmt.Errorf("invalid workers: %w", err)
	}

	urlMinBuild, err := parseIntOrDefault(v.URLMinBuild, config.DefaultURLMinBuild)
	if err != nil {
		return nil, fmt.Errorf("invalid url_min_build: %w", err)
	}

	cacheTTL, err := parseDurationOrDefault(v.CacheTTL, config.DefaultCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid cache_ttl: %w", err)
	}

	cfg := &config.Config{
		Logging: config.LoggingConfig{
			Level:  strings.ToLower(v.LogLevel),
			Format: strings.ToLower(v.LogFormat),
		},
		Output: config.OutputConfig{
			Format:   strings.ToLower(v.OutputFormat),
			Progress: v.OutputProgress,
		},
		Build: config.BuildConfig{
			Python: strings.TrimSpace(v.Python),
		},
		Help: config.HelpConfig{
			URLMinBuild: urlMinBuild,
		},
		Verify: config.VerifyConfig{
			Workers: workers,
		},
		Cache: config.CacheConfig{
			Enabled:   v.CacheEnabled,
			TTL:       cacheTTL,
			Directory: strings.TrimSpace(v.CacheDirectory),
		},
	}

	return cfg, nil
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return ""
	}
	return d.String()
}

func parseDurationOrDefault(s string, defaultVal time.Duration) (time.Duration, error) {
	if s == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(s)
}

func parseIntOrDefault(s string, defaultVal int) (int, error) {
	if s == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(s)
}
