package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pyclashbot/memuc/internal/config"
	"github.com/pyclashbot/memuc/internal/exec"
	"github.com/pyclashbot/memuc/internal/locate"
	"github.com/pyclashbot/memuc/internal/memuc"
	"github.com/pyclashbot/memuc/internal/prompt"
	"github.com/pyclashbot/memuc/internal/slogger"
	"github.com/pyclashbot/memuc/internal/spinner"
	"github.com/pyclashbot/memuc/internal/tasks"
	"github.com/pyclashbot/memuc/internal/transcript"
)

// Exit codes beyond the generic failure.
const (
	exitFailure = 1
	exitUsage   = 2
	exitTimeout = 3
)

// errStopped reports a stopped VM through the exit status alone.
var errStopped = errors.New("vm is not running")

// client is the memuc client, built on first use.
var client *memuc.Client

// prompter asks for confirmation before destructive commands.
var prompter prompt.Prompter = prompt.New()

// settings returns the loaded configuration, or the built-in defaults when
// the config file could not be read.
func settings(ctx context.Context) (*config.Config, error) {
	if cfg := ConfigFromContext(ctx); cfg != nil {
		return cfg, nil
	}
	return config.Defaults()
}

// requireClient locates memuc and builds the client.
func requireClient(cmd *cobra.Command) (*memuc.Client, error) {
	if client != nil {
		return client, nil
	}

	ctx := cmd.Context()
	cfg, err := settings(ctx)
	if err != nil {
		return nil, err
	}

	override, err := cmd.Flags().GetString("memuc-path")
	if err != nil {
		return nil, fmt.Errorf("get memuc-path flag: %w", err)
	}
	if override == "" {
		override = cfg.Memuc.Path
	}

	executor := exec.New()
	locator, err := locate.New(override, locate.Default(executor)...)
	if err != nil {
		return nil, err
	}
	path, err := locator.Locate(ctx)
	if err != nil {
		return nil, err
	}
	slogger.L(ctx).Debug("using memuc", "path", path)

	opts := memuc.Options{
		Path: path,
		Retry: memuc.RetryPolicy{
			Attempts:   cfg.Retry.Attempts,
			Backoff:    cfg.Retry.Backoff,
			MaxBackoff: cfg.Retry.MaxBackoff,
		},
		KillGrace: cfg.Timeouts.KillGrace,
		Timeouts: memuc.Timeouts{
			Rename:   cfg.Timeouts.Rename,
			AppList:  cfg.Timeouts.AppList,
			Shortcut: cfg.Timeouts.Shortcut,
		},
	}
	if cfg.Storage.Transcript != "" {
		w, err := transcript.Open(cfg.Storage.Transcript)
		if err != nil {
			slogger.L(ctx).Warn("transcript disabled", "error", err)
		} else {
			recorder = w
			opts.Recorder = w
		}
	}

	client, err = memuc.New(executor, opts)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// taskStore opens the store of background tasks.
func taskStore(ctx context.Context) (tasks.Store, error) {
	cfg, err := settings(ctx)
	if err != nil {
		return nil, err
	}
	return tasks.NewStore(cfg.Storage.Tasks), nil
}

// addSelectorFlags registers --index and --name on a per-VM command.
func addSelectorFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("index", "i", 0, "VM index (takes precedence over --name)")
	cmd.Flags().StringP("name", "n", "", "VM name")
}

// selectorFrom builds the selector from --index and --name. Neither flag
// yields a zero selector, which the client rejects.
func selectorFrom(cmd *cobra.Command) (memuc.Selector, error) {
	var index *int
	if cmd.Flags().Changed("index") {
		i, err := cmd.Flags().GetInt("index")
		if err != nil {
			return memuc.Selector{}, fmt.Errorf("get index flag: %w", err)
		}
		index = &i
	}
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return memuc.Selector{}, fmt.Errorf("get name flag: %w", err)
	}
	return memuc.SelectorFrom(index, name), nil
}

// addTimeoutFlag registers --timeout. Zero falls back to timeouts.default.
func addTimeoutFlag(cmd *cobra.Command) {
	cmd.Flags().Duration("timeout", 0, "kill memuc if it runs longer than this (0 uses timeouts.default)")
}

func timeoutFrom(cmd *cobra.Command) (time.Duration, error) {
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return 0, fmt.Errorf("get timeout flag: %w", err)
	}
	if timeout != 0 {
		return timeout, nil
	}
	cfg, err := settings(cmd.Context())
	if err != nil {
		return 0, err
	}
	return cfg.Timeouts.Default, nil
}

// addNoWaitFlag registers --no-wait on commands memuc can run in the
// background.
func addNoWaitFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("no-wait", false, "return memuc's task id instead of waiting")
}

func noWait(cmd *cobra.Command) (bool, error) {
	v, err := cmd.Flags().GetBool("no-wait")
	if err != nil {
		return false, fmt.Errorf("get no-wait flag: %w", err)
	}
	return v, nil
}

// submitted reports the outcome of a possibly non-blocking operation. A
// task id is printed and remembered in the task store.
func submitted(cmd *cobra.Command, op, target string, id memuc.TaskID, background bool) error {
	ctx := cmd.Context()
	if !background {
		slogger.L(ctx).Info("finished", "op", op, "vm", target)
		return nil
	}
	if id == "" {
		slogger.L(ctx).Warn("memuc accepted the task without reporting an id", "op", op)
		return nil
	}

	store, err := taskStore(ctx)
	if err != nil {
		return err
	}
	err = store.Add(ctx, tasks.Entry{
		ID:          id,
		Op:          op,
		Selector:    target,
		SubmittedAt: time.Now(),
	})
	if err != nil && !errors.Is(err, tasks.ErrAlreadyExists) {
		return fmt.Errorf("remember task: %w", err)
	}

	fmt.Println(id)
	return nil
}

// withSpinner runs fn, drawing a spinner on stderr when it is a terminal
// and logging is quiet.
func withSpinner(cmd *cobra.Command, title string, fn func(context.Context) error) error {
	verbosity, _ := cmd.Flags().GetCount("verbose")
	if verbosity > 0 || !spinner.Enabled(os.Stderr) {
		return fn(cmd.Context())
	}
	return spinner.Run(cmd.Context(), os.Stderr, title, fn)
}

// confirm asks before a destructive operation unless --yes was given.
func confirm(cmd *cobra.Command, title, description string) error {
	yes, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return fmt.Errorf("get yes flag: %w", err)
	}
	if yes {
		return nil
	}

	ok, err := prompter.Confirm(title, description)
	if err != nil {
		return err
	}
	if !ok {
		return prompt.ErrCanceled
	}
	return nil
}

// exitCode maps an error onto the process exit status.
func exitCode(err error) int {
	switch {
	case errors.Is(err, errStopped):
		return exitFailure
	case memuc.IsConfigError(err), errors.Is(err, config.ErrInvalidKey), errors.Is(err, config.ErrInvalidValue):
		return exitUsage
	case errors.Is(err, memuc.ErrTimeout):
		return exitTimeout
	default:
		return exitFailure
	}
}

// formatTimeAgo formats a time as a human-readable relative time.
func formatTimeAgo(t time.Time) string {
	d := time.Since(t)

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
