package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/quantmind-br/fmepackager/internal/config"
	"github.com/quantmind-br/fmepackager/internal/scaffold"
)

// newForm applies the theme; accessible forms prompt line by line for
// screen readers
func newForm(accessible bool, groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).
		WithTheme(Theme(accessible)).
		WithAccessible(accessible)
}

// CreateInitForm prompts for the values of a new package. The minimum FME
// build is edited as text in build.
func CreateInitForm(values *scaffold.Values, build *string, accessible bool) *huh.Form {
	return newForm(accessible,
		huh.NewGroup(
			huh.NewInput().
				Key("publisher_uid").
				Title("Publisher UID").
				Description("Your FME Hub publisher identifier").
				Value(&values.PublisherUID).
				Placeholder("example").
				Validate(ValidateUID),

			huh.NewInput().
				Key("uid").
				Title("Package UID").
				Description("Unique within the publisher").
				Value(&values.UID).
				Placeholder("my-package").
				Validate(ValidateUID),

			huh.NewInput().
				Key("name").
				Title("Name").
				Description("Display name of the package").
				Value(&values.Name).
				Validate(ValidateRequired),

			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&values.Description),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("version").
				Title("Version").
				Value(&values.Version).
				Placeholder(scaffold.DefaultVersion).
				Validate(ValidateSemver),

			huh.NewInput().
				Key("minimum_fme_build").
				Title("Minimum FME Build").
				Description("Oldest FME build the package supports").
				Value(build).
				Placeholder(strconv.Itoa(scaffold.DefaultMinimumFMEBuild)).
				Validate(ValidatePositiveInt),

			huh.NewInput().
				Key("transformer").
				Title("Transformer Name").
				Description("The package starts with one transformer").
				Value(&values.TransformerName).
				Placeholder(scaffold.DefaultTransformerName).
				Validate(ValidateComponentName),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("author_name").
				Title("Author Name").
				Value(&values.AuthorName).
				Validate(ValidateRequired),

			huh.NewInput().
				Key("author_email").
				Title("Author Email").
				Value(&values.AuthorEmail),
		),
	)
}

// RunInitForm fills values interactively
func RunInitForm(values *scaffold.Values, accessible bool) error {
	build := ""
	if values.MinimumFMEBuild > 0 {
		build = strconv.Itoa(values.MinimumFMEBuild)
	}
	if err := CreateInitForm(values, &build, accessible).Run(); err != nil {
		return err
	}
	return applyBuild(values, build)
}

func applyBuild(values *scaffold.Values, build string) error {
	build = strings.TrimSpace(build)
	if build == "" {
		values.MinimumFMEBuild = scaffold.DefaultMinimumFMEBuild
		return nil
	}
	n, err := strconv.Atoi(build)
	if err != nil {
		return fmt.Errorf("invalid minimum FME build: %w", err)
	}
	values.MinimumFMEBuild = n
	return nil
}

// CreateConfigForm edits the persisted configuration
func CreateConfigForm(values *ConfigValues, accessible bool) *huh.Form {
	return newForm(accessible,
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("log_level").
				Title("Log Level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&values.LogLevel),

			huh.NewSelect[string]().
				Key("log_format").
				Title("Log Format").
				Options(huh.NewOptions("pretty", "json")...).
				Value(&values.LogFormat),

			huh.NewSelect[string]().
				Key("output_format").
				Title("Output Format").
				Description("Format of verify and summarize results").
				Options(huh.NewOptions(config.OutputText, config.OutputJSON)...).
				Value(&values.OutputFormat),

			huh.NewConfirm().
				Key("progress").
				Title("Progress Bars").
				Description("Show progress while packing").
				Value(&values.OutputProgress),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("python").
				Title("Python").
				Description("Interpreter used to build wheels").
				Value(&values.Python).
				Placeholder(config.DefaultPython).
				Validate(ValidateRequired),

			huh.NewInput().
				Key("url_min_build").
				Title("URL Help Minimum Build").
				Description("First FME build that resolves help URLs").
				Value(&values.URLMinBuild).
				Placeholder(strconv.Itoa(config.DefaultURLMinBuild)).
				Validate(ValidatePositiveInt),

			huh.NewInput().
				Key("workers").
				Title("Verify Workers").
				Description("Archives verified at once (1-64)").
				Value(&values.Workers).
				Placeholder(strconv.Itoa(config.DefaultWorkers)).
				Validate(ValidateIntRange(1, 64)),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Key("cache_enabled").
				Title("Enable Cache").
				Description("Cache archive summaries by content hash").
				Value(&values.CacheEnabled),

			huh.NewInput().
				Key("cache_ttl").
				Title("Cache TTL").
				Description("How long to keep summaries (e.g., 24h, 168h)").
				Value(&values.CacheTTL).
				Placeholder("168h").
				Validate(ValidateDuration),

			huh.NewInput().
				Key("cache_directory").
				Title("Cache Directory").
				Value(&values.CacheDirectory).
				Placeholder("~/.fmepackager/cache"),
		),
	)
}

// RunConfigForm edits cfg interactively and returns the result
func RunConfigForm(cfg *config.Config, accessible bool) (*config.Config, error) {
	values := FromConfig(cfg)
	if err := CreateConfigForm(values, accessible).Run(); err != nil {
		return nil, err
	}
	return values.ToConfig()
}
