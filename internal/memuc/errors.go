package memuc

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrConfig matches every configuration error. Configuration errors are
// raised before any process is spawned and are never retried.
var ErrConfig = errors.New("memuc configuration error")

// Configuration errors. All of them satisfy errors.Is(err, ErrConfig).
var (
	ErrNoExecutable    = configError("memuc executable path is required")
	ErrNoSelector      = configError("either a vm index or a vm name must be specified")
	ErrInvalidSelector = configError("invalid vm selector")
	ErrModeConflict    = configError("timeout cannot be combined with non-blocking mode")
	ErrEmptyArgument   = configError("empty argument")
	ErrInvalidArgument = configError("invalid argument")
	ErrInvalidKey      = configError("invalid key")
)

// Runtime errors.
var (
	ErrToolFailure      = errors.New("memuc reported failure")
	ErrTimeout          = errors.New("memuc timed out")
	ErrParse            = errors.New("unexpected memuc output")
	ErrRetriesExhausted = errors.New("max retries exceeded")
	ErrLaunch           = errors.New("launch memuc")
	ErrVMNotRunning     = errors.New("vm is not running")
)

type cfgError struct {
	msg string
}

func (e *cfgError) Error() string { return e.msg }

func (e *cfgError) Is(target error) bool { return target == ErrConfig }

func configError(msg string) error {
	return &cfgError{msg: msg}
}

// ToolError is returned when memuc ran to completion but did not report
// success: a non-zero exit status, a missing success marker, or no output.
type ToolError struct {
	Op       string
	ExitCode int
	Output   string // verbatim
}

func (e *ToolError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		out = "no output"
	}
	return fmt.Sprintf("%s failed (exit status %d): %s", e.Op, e.ExitCode, out)
}

func (e *ToolError) Is(target error) bool { return target == ErrToolFailure }

// TimeoutError is returned when memuc did not answer within the bound and its
// process tree was killed.
type TimeoutError struct {
	Op      string
	Timeout time.Duration
	Output  string // whatever was captured before the kill
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("%s: no answer within %s", e.Op, e.Timeout)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// ParseError is returned when memuc reported success but a structured value
// could not be extracted from its output.
type ParseError struct {
	Op     string
	What   string
	Output string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: cannot parse %s from %q", e.Op, e.What, strings.TrimSpace(e.Output))
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// RetryError is returned once a retried operation has used up its attempts.
// Unwrap yields the last failure.
type RetryError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("%s: max retries (%d) exceeded: %v", e.Op, e.Attempts, e.Err)
}

func (e *RetryError) Unwrap() error { return e.Err }

func (e *RetryError) Is(target error) bool { return target == ErrRetriesExhausted }

// IsRetryable reports whether err is a failure worth another attempt:
// memuc said no, or memuc never answered.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrToolFailure) || errors.Is(err, ErrTimeout)
}

// IsConfigError reports whether err is a configuration error.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfig)
}
