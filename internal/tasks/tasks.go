// Package tasks remembers the background tasks memuc acknowledged, so that
// their status can be polled after the command that started them exits.
package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/pyclashbot/memuc/internal/memuc"
)

// Sentinel errors for task store operations.
var (
	ErrNotFound      = errors.New("task not found")
	ErrAlreadyExists = errors.New("task already exists")
	ErrLockTimeout   = errors.New("failed to acquire task store lock")
)

// Entry is a persisted background task.
type Entry struct {
	ID          memuc.TaskID `json:"id"`
	Op          string       `json:"op"`       // Operation that started the task (e.g. "clone vm")
	Selector    string       `json:"selector"` // VM the task acts on, empty for global tasks
	SubmittedAt time.Time    `json:"submitted_at"`
	LastStatus  string       `json:"last_status,omitempty"` // memuc's last taskstatus answer
	CheckedAt   time.Time    `json:"checked_at,omitzero"`
}

// ListFilter filters task queries.
type ListFilter struct {
	Op    string    // Filter by operation (empty = all)
	Since time.Time // Only tasks submitted at or after Since (zero = all)
}

// Store provides persistent storage for task entries.
type Store interface {
	// Add records a new task.
	// Returns ErrAlreadyExists if a task with the same ID is recorded.
	Add(ctx context.Context, entry Entry) error

	// Get retrieves a task by ID.
	// Returns ErrNotFound if not found.
	Get(ctx context.Context, id memuc.TaskID) (*Entry, error)

	// Update replaces an existing task.
	// Returns ErrNotFound if not found.
	Update(ctx context.Context, entry Entry) error

	// Remove forgets a task.
	// Returns ErrNotFound if not found.
	Remove(ctx context.Context, id memuc.TaskID) error

	// List returns tasks matching the filter, oldest first.
	List(ctx context.Context, filter ListFilter) ([]Entry, error)
}
