// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for clamshell.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"clamshell/internal/config"
	"clamshell/internal/shell"
	"clamshell/internal/storage"
	"clamshell/internal/vfs"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// stateDirFlag overrides the state directory for this invocation
	stateDirFlag string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "clamshell",
		Short: "A persistent single-user command shell",
		Long: TitleStyle.Render("clamshell") + SubtitleStyle.Render(" - A persistent single-user command shell") + `

clamshell is an interactive shell over its own in-memory filesystem.
Everything you create (folders, files, aliases, PATH entries, history)
is persisted between runs, so the shell picks up exactly where you
left off.

Scripts stored inside the shell filesystem run through the same command
dispatcher as interactive input, and the tab key drives a cycling
completion engine over commands and paths.

` + SubtitleStyle.Render("Examples:") + `
  clamshell                 Start an interactive shell
  clamshell run setup.sh    Run a host-side script file in the shell
  clamshell serve           Expose the shell over SSH
  clamshell config show     Show current configuration`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractiveShell(cmd.Context())
		},
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/clamshell/config.toml)")
	rootCmd.PersistentFlags().StringVar(&stateDirFlag, "state-dir", "", "state directory (default is the platform data directory)")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration for this invocation.
func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.NewProvider().Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		return nil, err
	}
	if !verbose {
		verbose = cfg.UI.Verbose
	}
	return cfg, nil
}

// newLogger builds the application logger honoring the verbose flag.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: prefix})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

// shellState bundles the persistent pieces every shell entrypoint needs.
type shellState struct {
	cfg      *config.Config
	backend  *storage.FileBackend
	store    *vfs.Store
	env      *shell.Environment
	history  *shell.History
	settings *shell.Settings
	logger   *log.Logger
}

// openShellState loads config and opens the persistent shell state.
func openShellState(ctx context.Context) (*shellState, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	stateDir := stateDirFlag
	if stateDir == "" {
		stateDir, err = config.StateDir(cfg)
		if err != nil {
			return nil, err
		}
	}

	logger := newLogger("clamshell")
	backend, err := storage.NewFileBackend(stateDir, logger)
	if err != nil {
		return nil, err
	}
	store, err := vfs.NewStore(backend, logger)
	if err != nil {
		return nil, err
	}
	env, err := shell.NewEnvironment(backend, logger)
	if err != nil {
		return nil, err
	}
	history, err := shell.NewHistory(backend, logger)
	if err != nil {
		return nil, err
	}
	settings, err := shell.NewSettings(backend, logger)
	if err != nil {
		return nil, err
	}
	// The config retention limit applies unless the shell itself has
	// overridden it (history builtin).
	if _, found, _ := backend.Get(storage.KeyHistoryLimit); !found {
		if history.Limit() != cfg.History.Limit {
			if err := history.SetLimit(cfg.History.Limit); err != nil {
				return nil, err
			}
		}
	}

	logger.Debug("shell state opened", "dir", backend.Dir())
	return &shellState{
		cfg:      cfg,
		backend:  backend,
		store:    store,
		env:      env,
		history:  history,
		settings: settings,
		logger:   logger,
	}, nil
}
