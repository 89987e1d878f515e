// Package memuc exposes the command-line surface of MEmu's memuc VM manager
// as typed Go methods.
//
// Every operation builds an argument list, runs memuc as a subprocess, and
// turns its exit status and loosely structured text output into a value or
// an error. memuc is known to hang; bounded operations kill its whole process
// tree when they run out of time.
//
// A Client is safe for concurrent use. memuc itself serializes some
// operations on the same VM, so concurrent calls against one VM may block
// each other or fail inside memuc.
package memuc

import (
	"time"

	"github.com/pyclashbot/memuc/internal/exec"
)

// Defaults for the operations that carry a built-in bound.
const (
	DefaultRenameTimeout   = 10 * time.Second
	DefaultAppListTimeout  = 10 * time.Second
	DefaultShortcutTimeout = 10 * time.Second

	// DefaultVersion is the Android image used by Create when none is given.
	DefaultVersion = "96"
)

// Timeouts holds the bounds of the operations that always run with one.
// Zero fields fall back to the defaults.
type Timeouts struct {
	Rename   time.Duration
	AppList  time.Duration
	Shortcut time.Duration
}

func (t Timeouts) withDefaults() Timeouts {
	if t.Rename <= 0 {
		t.Rename = DefaultRenameTimeout
	}
	if t.AppList <= 0 {
		t.AppList = DefaultAppListTimeout
	}
	if t.Shortcut <= 0 {
		t.Shortcut = DefaultShortcutTimeout
	}
	return t
}

// Options configures a Client.
type Options struct {
	// Path is the resolved memuc executable (required).
	Path string

	// Retry applies to retry-eligible operations. The zero value means a
	// single attempt; use DefaultRetryPolicy for memuc's usual three.
	Retry RetryPolicy

	// KillGrace bounds output draining after a process tree kill.
	KillGrace time.Duration

	Timeouts Timeouts

	// Recorder, if set, receives every invocation.
	Recorder Recorder
}

// Client runs memuc commands. Its configuration is fixed at construction.
type Client struct {
	exec      exec.Executor
	path      string
	retry     RetryPolicy
	killGrace time.Duration
	timeouts  Timeouts
	recorder  Recorder
}

// New creates a Client that runs memuc through e.
func New(e exec.Executor, opts Options) (*Client, error) {
	if opts.Path == "" {
		return nil, ErrNoExecutable
	}
	return &Client{
		exec:      e,
		path:      opts.Path,
		retry:     opts.Retry,
		killGrace: opts.KillGrace,
		timeouts:  opts.Timeouts.withDefaults(),
		recorder:  opts.Recorder,
	}, nil
}

// Path returns the memuc executable the client runs.
func (c *Client) Path() string {
	return c.path
}
