package memuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	osexec "os/exec"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"

	"github.com/pyclashbot/memuc/internal/exec"
	"github.com/pyclashbot/memuc/internal/slogger"
)

// nonBlockingFlag makes memuc return as soon as it has queued the task.
const nonBlockingFlag = "-t"

// Mode selects how an invocation waits for memuc.
//
// The zero value blocks until memuc exits. NonBlocking asks memuc to run the
// task in the background and return an acknowledgement. Timeout bounds a
// blocking call and kills memuc's process tree on expiry. NonBlocking and
// Timeout cannot be combined.
type Mode struct {
	NonBlocking bool
	Timeout     time.Duration
}

// Validate rejects contradictory or nonsensical modes.
func (m Mode) Validate() error {
	if m.NonBlocking && m.Timeout > 0 {
		return ErrModeConflict
	}
	if m.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout %s", ErrInvalidArgument, m.Timeout)
	}
	return nil
}

// Outcome is the raw result of one memuc invocation.
type Outcome struct {
	ExitCode int
	Output   string // stdout, verbatim
	Stderr   string
	TimedOut bool
	Timeout  time.Duration // bound in effect, zero if none
	Duration time.Duration
}

// Invocation describes one memuc run for a Recorder.
type Invocation struct {
	ID      string
	Path    string
	Args    []string
	Mode    Mode
	Started time.Time
	Outcome *Outcome // nil if memuc could not be launched
	Err     error
}

// Recorder receives every invocation a Client makes.
type Recorder interface {
	Record(ctx context.Context, inv Invocation)
}

// Invoke runs memuc once with args in the given mode. It reports a non-nil
// error only when memuc could not be run at all or the arguments were
// rejected; a failing or hanging memuc is described by the Outcome.
func (c *Client) Invoke(ctx context.Context, args []string, mode Mode) (*Outcome, error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}
	for i, arg := range args {
		if arg == "" {
			return nil, fmt.Errorf("%w at position %d", ErrEmptyArgument, i)
		}
	}

	argv := slices.Clone(args)
	if mode.NonBlocking {
		argv = append(argv, nonBlockingFlag)
	}

	inv := Invocation{
		ID:      uuid.NewString(),
		Path:    c.path,
		Args:    argv,
		Mode:    mode,
		Started: time.Now(),
	}
	log := slogger.L(ctx).With("invocation", inv.ID)
	log.Debug("running memuc", "command", shellquote.Join(append([]string{c.path}, argv...)...), "timeout", mode.Timeout)

	res, err := c.exec.Run(ctx, &exec.RunOptions{
		Name:      c.path,
		Args:      argv,
		Timeout:   mode.Timeout,
		KillGrace: c.killGrace,
	})
	if err != nil && !ran(res, err) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		} else {
			err = fmt.Errorf("%w %s: %w", ErrLaunch, c.path, err)
		}
		inv.Err = err
		c.record(ctx, inv)
		log.Debug("memuc did not run", "error", err)
		return nil, err
	}

	out := &Outcome{
		ExitCode: res.ExitCode,
		Output:   string(res.Stdout),
		Stderr:   string(res.Stderr),
		TimedOut: res.TimedOut,
		Timeout:  mode.Timeout,
		Duration: res.Duration,
	}
	inv.Outcome = out
	c.record(ctx, inv)
	logOutcome(log, out)

	return out, nil
}

// ran reports whether memuc started and exited, possibly by a signal, as
// opposed to never running at all.
func ran(res *exec.Result, err error) bool {
	if res == nil {
		return false
	}
	var exitErr *osexec.ExitError
	return res.ExitCode >= 0 || errors.As(err, &exitErr)
}

func (c *Client) record(ctx context.Context, inv Invocation) {
	if c.recorder != nil {
		c.recorder.Record(ctx, inv)
	}
}

func logOutcome(log *slog.Logger, out *Outcome) {
	if !log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	log.Debug("memuc finished",
		"exit_code", out.ExitCode,
		"timed_out", out.TimedOut,
		"duration", out.Duration.Round(time.Millisecond),
	)
	for _, line := range strings.Split(strings.TrimRight(out.Output, "\r\n"), "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			log.Debug("memuc output", "line", line)
		}
	}
}
