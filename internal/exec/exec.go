// Package exec provides an abstraction over executing external commands.
//
// Commands run with their own process group so that a timeout or a cancelled
// context can forcefully terminate the whole process tree. Tools wrapped by this
// package are known to hang without reacting to polite signals, so there is no
// graceful shutdown phase.
package exec

import (
	"context"
	"io"
	"time"
)

// DefaultKillGrace bounds how long Run waits for output pipes to drain after
// the process tree has been killed.
const DefaultKillGrace = 2 * time.Second

// Result holds the output from a completed command.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int

	// TimedOut is set when the command was killed because RunOptions.Timeout
	// elapsed. Stdout and Stderr hold whatever was written before the kill.
	TimedOut bool

	// Duration is the wall time between start and exit (or kill).
	Duration time.Duration
}

// RunOptions configures command execution.
type RunOptions struct {
	Name   string    // Command name or path (required)
	Args   []string  // Command arguments
	Dir    string    // Working directory (empty = current)
	Env    []string  // Additional environment variables (KEY=VALUE format)
	Stdin  io.Reader // Stdin source (nil = no input)
	Stdout io.Writer // If set, streams stdout here instead of capturing
	Stderr io.Writer // If set, streams stderr here instead of capturing

	// Timeout bounds the command's run time. Zero means no bound.
	// On expiry the process tree is killed and Run returns a Result with
	// TimedOut set and a nil error.
	Timeout time.Duration

	// KillGrace bounds pipe draining after a kill (0 = DefaultKillGrace).
	KillGrace time.Duration
}

// Executor runs external commands.
//
//go:generate go run github.com/matryer/moq@latest -pkg mocks -out mocks/executor.go . Executor
type Executor interface {
	// Run executes a command and returns its output.
	// If Stdout/Stderr writers are set in opts, output streams there and
	// Result.Stdout/Stderr will be nil.
	// Returns os/exec.ExitError on non-zero exit (use errors.As to extract).
	// A timeout is not an error: check Result.TimedOut.
	Run(ctx context.Context, opts *RunOptions) (*Result, error)

	// LookPath searches for an executable in PATH.
	// Returns the full path if found, or an error if not.
	LookPath(name string) (string, error)
}
