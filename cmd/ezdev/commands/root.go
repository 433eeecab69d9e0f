// Package commands implements the CLI commands for ezdev.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	buildinfo "github.com/ezpy/ezdev/cmd"
	"github.com/ezpy/ezdev/internal/config"
	"github.com/ezpy/ezdev/internal/errors"
	"github.com/ezpy/ezdev/internal/logging"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// cfgFile holds the value of the --config flag.
var cfgFile string

// projectDirFlag overrides the configured project directory.
var projectDirFlag string

// cfg is the loaded configuration, available after initConfig runs.
var cfg *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ezdev.yaml in . or XDG config home)")
	rootCmd.PersistentFlags().StringVarP(&projectDirFlag, "project-dir", "C", "",
		"tools server checkout to operate on (default: current directory)")

	rootCmd.Version = buildinfo.Version
	rootCmd.SetVersionTemplate("ezdev version {{.Version}} (" + buildinfo.Commit + ", " + buildinfo.Date + ")\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	cfg, configLoadErr = config.Load(cfgFile)
	if configLoadErr == nil && projectDirFlag != "" {
		cfg.ProjectDir = projectDirFlag
	}
}

var rootCmd = &cobra.Command{
	Use:   "ezdev",
	Short: "Task runner for the ezpy-tools MCP server project",
	Long: `ezdev drives the development workflow of the ezpy-tools MCP server:
environment setup, dependency sync, user-info bootstrap, server launch
(plain, watch mode, or behind an Ollama-backed mcphost session), client
config emission, linting, and container build and smoke testing.

Tasks declare dependencies on each other and run in dependency order,
fail-fast, each at most once per invocation. Projects can add their own
tasks in an ezdev.toml manifest.`,
	Example: `  # Prepare a fresh checkout
  ezdev setup

  # Run the server, restarting on source changes
  ezdev run_mcp

  # Build the image and smoke-test every tool in it
  ezdev docker-test

  # Print the MCP client config for this checkout
  ezdev mcp_config`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd)
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("EZDEV_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkConfig surfaces config load failures before any task body runs.
func checkConfig(cmd *cobra.Command) error {
	if cmd.Name() == "help" || cmd.Name() == "version" {
		return nil
	}
	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}
	return nil
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
