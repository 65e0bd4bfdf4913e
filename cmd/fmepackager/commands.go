package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/quantmind-br/fmepackager/internal/config"
	"github.com/quantmind-br/fmepackager/internal/domain"
	"github.com/quantmind-br/fmepackager/internal/help"
	"github.com/quantmind-br/fmepackager/internal/packager"
	"github.com/quantmind-br/fmepackager/internal/scaffold"
	"github.com/quantmind-br/fmepackager/internal/summarizer"
	"github.com/quantmind-br/fmepackager/internal/tui"
	"github.com/quantmind-br/fmepackager/internal/verifier"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a new package",
	Long: `Creates a package with one transformer that builds as is.
Missing values are prompted for unless --no-input is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

var applyHelpCmd = &cobra.Command{
	Use:   "apply-help <src> [pkg]",
	Short: "Replace package help with exported documentation",
	Long: `Copies a zip or directory of exported documentation into the package
help folder and writes package_help.csv from its package_aliases.flali.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runApplyHelp,
}

var packCmd = &cobra.Command{
	Use:   "pack [pkg]",
	Short: "Validate and build a package into an .fpkg",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPack,
}

var verifyCmd = &cobra.Command{
	Use:   "verify <file...>",
	Short: "Verify .fpkg archives",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runVerify,
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize <file>",
	Short: "Print the JSON summary of a package",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummarize,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Edit or show the configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	f := initCmd.Flags()
	f.String("publisher", "", "Publisher UID")
	f.String("uid", "", "Package UID")
	f.String("name", "", "Package name")
	f.String("description", "", "Package description")
	f.String("pkg-version", scaffold.DefaultVersion, "Package version")
	f.Int("min-build", scaffold.DefaultMinimumFMEBuild, "Minimum FME build")
	f.String("author", "", "Author name")
	f.String("email", "", "Author email")
	f.String("transformer", scaffold.DefaultTransformerName, "Name of the first transformer")
	f.Bool("no-input", false, "Never prompt")

	configCmd.Flags().Bool("show", false, "Print the effective configuration as YAML")
}

func runInit(cmd *cobra.Command, args []string) error {
	_, logger, err := loadConfig()
	if err != nil {
		return err
	}

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	f := cmd.Flags()
	v := scaffold.DefaultValues()
	v.PublisherUID, _ = f.GetString("publisher")
	v.UID, _ = f.GetString("uid")
	v.Name, _ = f.GetString("name")
	v.Description, _ = f.GetString("description")
	v.Version, _ = f.GetString("pkg-version")
	v.MinimumFMEBuild, _ = f.GetInt("min-build")
	v.AuthorName, _ = f.GetString("author")
	v.AuthorEmail, _ = f.GetString("email")
	v.TransformerName, _ = f.GetString("transformer")

	if noInput, _ := f.GetBool("no-input"); !noInput && v.Validate() != nil {
		if err := tui.RunInitForm(&v, accessible); err != nil {
			return err
		}
	}

	written, err := scaffold.Render(dir, v)
	if err != nil {
		return err
	}
	logger.Info().Str("dir", dir).Int("files", len(written)).Msg("Created package")

	out := cmd.OutOrStdout()
	for _, rel := range written {
		fmt.Fprintln(out, filepath.Join(dir, filepath.FromSlash(rel)))
	}
	return nil
}

func runApplyHelp(cmd *cobra.Command, args []string) error {
	_, logger, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(logger)
	defer cancel()

	pkgDir := "."
	if len(args) > 1 {
		pkgDir = args[1]
	}
	rows, err := help.ApplyHelp(ctx, args[0], pkgDir, logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d help contexts to %s\n",
		rows, filepath.Join(pkgDir, "help", help.IndexFileName))
	return nil
}

func runPack(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(logger)
	defer cancel()

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	p, err := packager.New(dir, packager.Options{
		Logger:         logger,
		WheelBuilder:   newWheelBuilder(cfg.Build.Python),
		URLMinBuild:    cfg.Help.URLMinBuild,
		Progress:       cfg.Output.Progress,
		ProgressWriter: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	if err := p.Build(ctx); err != nil {
		return err
	}
	path, err := p.MakeFpkg(ctx)
	if err != nil {
		return err
	}

	if cfg.Output.Format == config.OutputJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{"path": path})
	}
	fmt.Fprintln(cmd.OutOrStdout(), tui.RenderResult(path, "Package built", true))
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(logger)
	defer cancel()

	v := verifier.New(verifier.Options{
		Logger:       logger,
		WheelBuilder: newWheelBuilder(cfg.Build.Python),
		URLMinBuild:  cfg.Help.URLMinBuild,
	})
	results, err := v.VerifyAll(ctx, args, cfg.Verify.Workers)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	passed := 0
	for _, r := range results {
		if r.OK() {
			passed++
		}
		switch {
		case cfg.Output.Format == config.OutputJSON:
			fmt.Fprintln(out, r.JSON())
		case len(results) == 1:
			fmt.Fprintln(out, tui.RenderResult("", r.Text(), r.OK()))
		default:
			fmt.Fprintln(out, tui.RenderResult(r.Path, r.Text(), r.OK()))
		}
	}
	if len(results) > 1 && cfg.Output.Format != config.OutputJSON {
		fmt.Fprintln(out, tui.RenderSummary(passed, len(results)))
	}

	if passed < len(results) {
		return fmt.Errorf("%d of %d packages failed verification", len(results)-passed, len(results))
	}
	return nil
}

func runSummarize(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(logger)
	defer cancel()

	var c domain.Cache
	if cfg.Cache.Enabled {
		bc, err := openCache(cfg.Cache.Directory)
		if err != nil {
			logger.Warn().Err(err).Msg("Summary cache unavailable")
		} else {
			defer bc.Close()
			c = bc
		}
	}

	s := summarizer.New(summarizer.Options{
		Logger:   logger,
		Cache:    c,
		CacheTTL: cfg.Cache.TTL,
	})
	output, err := s.Summarize(ctx, args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(output); err != nil {
		return err
	}
	if !output.OK() {
		return errors.New(output.Failure.Message)
	}
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	if show, _ := cmd.Flags().GetBool("show"); show {
		return yaml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
	}

	edited, err := tui.RunConfigForm(cfg, accessible)
	if err != nil {
		return err
	}
	if err := edited.Validate(); err != nil {
		return err
	}

	path := cfgFile
	if path == "" {
		if err := config.EnsureConfigDir(); err != nil {
			return err
		}
		path = config.ConfigFilePath()
	}
	if err := config.Save(edited, path); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), tui.SuccessStyle.Render("Saved "+path))
	return nil
}
