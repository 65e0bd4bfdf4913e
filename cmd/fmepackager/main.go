package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quantmind-br/fmepackager/internal/cache"
	"github.com/quantmind-br/fmepackager/internal/config"
	"github.com/quantmind-br/fmepackager/internal/domain"
	"github.com/quantmind-br/fmepackager/internal/packager"
	"github.com/quantmind-br/fmepackager/internal/utils"
	"github.com/quantmind-br/fmepackager/pkg/version"
)

var (
	cfgFile    string
	verbose    bool
	accessible bool

	// Dependencies for testing
	newWheelBuilder = func(python string) domain.WheelBuilder {
		return packager.NewExecWheelBuilder(python)
	}
	openCache = func(dir string) (domain.Cache, error) {
		return cache.NewBadgerCache(cache.Options{Directory: dir})
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fmepackager",
	Short: "Build, verify and summarize FME packages",
	Long: `fmepackager validates the sources of an FME package against its
package.yml, builds them into an .fpkg archive, verifies existing archives
and summarizes their contents as JSON.`,
	Version:       version.Short(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.fmepackager/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&accessible, "accessible", false, "Plain prompts for screen readers")
	rootCmd.PersistentFlags().StringP("output-format", "o", config.DefaultOutputFormat, "Result format: text or json")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(applyHelpCmd)
	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the configuration and builds the logger every command
// shares. Each call uses a fresh viper so --config never leaks between runs.
func loadConfig() (*config.Config, *utils.Logger, error) {
	v := viper.New()
	_ = v.BindPFlag("output.format", rootCmd.PersistentFlags().Lookup("output-format"))

	cfg, err := config.LoadInto(v, cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := utils.NewLogger(utils.LoggerOptions{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Verbose: verbose,
	})
	return cfg, logger, nil
}

// signalContext is canceled on SIGINT or SIGTERM
func signalContext(logger *utils.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			logger.Info().Msg("Shutting down gracefully...")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Full())
	},
}
