// Package cli implements the tseload command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/JonMunkholm/tseload/internal/config"
	"github.com/JonMunkholm/tseload/internal/core"
	"github.com/JonMunkholm/tseload/internal/logging"
	"github.com/JonMunkholm/tseload/pkg/tseload"
)

var rootCmd = &cobra.Command{
	Use:   "tseload",
	Short: "Load TSE vote-count exports into PostgreSQL",
	Long: `tseload reads a ';'-separated TSE vote-count export, normalizes its null
sentinels, splits the flat rows into municipalities, parties, candidates,
elections, polling locations and vote counts, and inserts them into a
normalized PostgreSQL schema, one transaction per table.

Configuration is read from a JSON or YAML file (--config, default config.json).
Environment variables with the same key names override file values, and a
.env file in the working directory is loaded first.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Source file or database unreachable
  12 - Malformed export or unconvertible value
  13 - Constraint violation (foreign key, unique, not null)
  14 - Any other insertion failure`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

type globalFlagValues struct {
	configPath string
	logLevel   string
	logFormat  string
	progress   string
}

var globalFlags globalFlagValues

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalFlags.configPath, "config", "c", tseload.DefaultConfigFile,
		"Config file (JSON or YAML); empty reads the environment only")
	rootCmd.PersistentFlags().StringVar(&globalFlags.logLevel, "log-level", "",
		"Log level: debug|info|warn|error (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.logFormat, "log-format", "",
		"Log format: text|json (overrides LOG_FORMAT)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.progress, "progress", "auto",
		"Progress bars on stderr: auto|always|never\n"+
			"auto shows them only when stderr is a terminal")
}

// Execute runs the root command with ctx, which the caller cancels on
// SIGINT/SIGTERM. A failed run ends with one diagnostic line on stderr.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		reportError(os.Stderr, err)
	}
	return err
}

func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	if core.IsUserFacing(err) {
		fmt.Fprintln(w, core.FormatUserError(err))
	}
}

// loadConfig reads .env and the config file, then applies the logging
// flags and configures the default logger.
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	var (
		cfg *config.Config
		err error
	)
	if globalFlags.configPath == "" {
		cfg, err = config.FromEnv()
	} else {
		cfg, err = config.Load(globalFlags.configPath)
	}
	if err != nil {
		// log the failure with flag settings, the config never loaded
		logging.Setup(orDefault(globalFlags.logLevel, "info"), orDefault(globalFlags.logFormat, "text"))
		return nil, err
	}

	applyLoggingFlags(&cfg.Logging)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: config validation: %w", tseload.ErrConfig, err)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	return cfg, nil
}

func applyLoggingFlags(l *config.LoggingConfig) {
	if globalFlags.logLevel != "" {
		l.Level = globalFlags.logLevel
	}
	if globalFlags.logFormat != "" {
		l.Format = globalFlags.logFormat
	}
}

// showProgress resolves --progress against whether stderr is a terminal.
func showProgress() (bool, error) {
	switch globalFlags.progress {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		return term.IsTerminal(int(os.Stderr.Fd())), nil
	default:
		return false, fmt.Errorf("%w: --progress must be auto, always or never, got %q",
			tseload.ErrConfig, globalFlags.progress)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
