// Package cmd implements the memuc-go CLI using Cobra. Every command maps
// onto one typed operation of the memuc client.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pyclashbot/memuc/internal/config"
	"github.com/pyclashbot/memuc/internal/slogger"
	"github.com/pyclashbot/memuc/internal/transcript"
	"github.com/pyclashbot/memuc/internal/version"
)

// appConfig holds the loaded application configuration.
var appConfig *config.Config

// configLoader reads and writes the configuration file.
var configLoader *config.Loader

// configErr is the reason appConfig fell back to defaults, if any.
var configErr error

// recorder is the open transcript, if the client has been built.
var recorder *transcript.Writer

var rootCmd = &cobra.Command{
	Use:   "memuc-go",
	Short: "Drive MEmu Android VMs through memuc",
	Long: `memuc-go wraps MEmu's memuc command-line tool.

It finds memuc, runs it with a bound on how long each command may take,
kills the whole memuc process tree when one hangs, retries flaky commands
and turns memuc's text output into plain results.

Most commands act on one VM, chosen with --index or --name.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}

		ctx := slogger.WithLogger(cmd.Context(), logger)
		if configErr != nil {
			logger.Warn("using default configuration", "error", configErr)
		}
		ctx = WithConfig(ctx, appConfig)
		ctx = WithLoader(ctx, configLoader)
		cmd.SetContext(ctx)

		return nil
	},
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	defer closeRecorder()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	if !errors.Is(err, errStopped) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return exitCode(err)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.PersistentFlags().CountP("verbose", "v", "increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().String("log-format", slogger.FormatText, "log format: text, json or logfmt")
	rootCmd.PersistentFlags().String("memuc-path", "", "memuc executable or MEmu install directory (overrides memuc.path)")
}

func initConfig() {
	appConfig, configLoader, configErr = nil, nil, nil

	loader, err := config.NewLoader()
	if err != nil {
		configErr = fmt.Errorf("init config: %w", err)
		return
	}
	configLoader = loader

	cfg, err := loader.Load()
	if err != nil {
		configErr = fmt.Errorf("load config: %w", err)
		return
	}
	appConfig = cfg
}

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	verbosity, err := cmd.Flags().GetCount("verbose")
	if err != nil {
		return nil, fmt.Errorf("get verbose flag: %w", err)
	}
	name, err := cmd.Flags().GetString("log-format")
	if err != nil {
		return nil, fmt.Errorf("get log-format flag: %w", err)
	}
	format, err := slogger.ParseFormat(name)
	if err != nil {
		return nil, err
	}

	return slogger.New(slogger.Config{
		Verbosity: verbosity,
		Format:    format,
		Output:    os.Stderr,
	}), nil
}

func closeRecorder() {
	if recorder != nil {
		_ = recorder.Close()
		recorder = nil
	}
}
