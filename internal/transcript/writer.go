// Package transcript keeps an append-only JSON-lines record of every memuc
// invocation.
package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pyclashbot/memuc/internal/memuc"
	"github.com/pyclashbot/memuc/internal/slogger"
)

// ErrClosed is returned when writing to a closed Writer.
var ErrClosed = errors.New("transcript closed")

// Entry is one line of the transcript.
type Entry struct {
	Time       time.Time `json:"ts"`
	ID         string    `json:"id"`
	Args       []string  `json:"args"`
	ExitCode   int       `json:"exit_code"`
	TimedOut   bool      `json:"timed_out"`
	DurationMS int64     `json:"duration_ms"`
	Output     string    `json:"output,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Failed reports whether the invocation did not exit cleanly.
func (e Entry) Failed() bool {
	return e.Error != "" || e.TimedOut || e.ExitCode != 0
}

// FromInvocation converts an invocation into a transcript entry. An
// invocation that never launched has exit code -1.
func FromInvocation(inv memuc.Invocation) Entry {
	entry := Entry{
		Time:     inv.Started.UTC(),
		ID:       inv.ID,
		Args:     inv.Args,
		ExitCode: -1,
	}
	if inv.Outcome != nil {
		entry.ExitCode = inv.Outcome.ExitCode
		entry.TimedOut = inv.Outcome.TimedOut
		entry.DurationMS = inv.Outcome.Duration.Milliseconds()
		entry.Output = inv.Outcome.Output
	}
	if inv.Err != nil {
		entry.Error = inv.Err.Error()
	}
	return entry
}

// Writer appends entries to a transcript file. It implements memuc.Recorder
// and is safe for concurrent use.
type Writer struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// Open opens the transcript at path for appending, creating it and its
// parent directory if needed.
func Open(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create transcript directory: %w", err)
	}

	//nolint:gosec // G302/G304: path comes from configuration
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	return &Writer{file: f, enc: json.NewEncoder(f)}, nil
}

// Write appends entry as a single line.
func (w *Writer) Write(entry Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return ErrClosed
	}
	if err := w.enc.Encode(entry); err != nil {
		return fmt.Errorf("write transcript entry: %w", err)
	}
	return nil
}

// Record writes inv to the transcript. Write failures are logged, never
// returned, so a full disk cannot break a memuc call.
func (w *Writer) Record(ctx context.Context, inv memuc.Invocation) {
	if err := w.Write(FromInvocation(inv)); err != nil {
		slogger.L(ctx).Warn("failed to record invocation", "id", inv.ID, "error", err)
	}
}

// Path returns the file being written, or "" once closed.
func (w *Writer) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return ""
	}
	return w.file.Name()
}

// Close syncs and closes the file. Closing twice is a no-op.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	_ = w.file.Sync()
	err := w.file.Close()
	w.file = nil
	if err != nil {
		return fmt.Errorf("close transcript: %w", err)
	}
	return nil
}
