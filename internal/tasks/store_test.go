package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyclashbot/memuc/internal/memuc"
)

func newStore(t *testing.T) *jsonStore {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "tasks.json"))
}

func TestNewStore(t *testing.T) {
	store := NewStore("/tmp/tasks.json")

	require.NotNil(t, store)
	assert.Equal(t, "/tmp/tasks.json", store.path)
}

func TestStore_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("adds new entry", func(t *testing.T) {
		store := newStore(t)

		entry := Entry{
			ID:          "1024",
			Op:          "clone vm",
			Selector:    "index 0",
			SubmittedAt: time.Now(),
		}
		require.NoError(t, store.Add(ctx, entry))

		got, err := store.Get(ctx, "1024")
		require.NoError(t, err)
		assert.Equal(t, entry.Op, got.Op)
		assert.Equal(t, entry.Selector, got.Selector)
		assert.WithinDuration(t, entry.SubmittedAt, got.SubmittedAt, time.Second)
	})

	t.Run("returns ErrAlreadyExists for duplicate id", func(t *testing.T) {
		store := newStore(t)

		require.NoError(t, store.Add(ctx, Entry{ID: "7", Op: "start vm"}))
		err := store.Add(ctx, Entry{ID: "7", Op: "stop vm"})

		assert.ErrorIs(t, err, ErrAlreadyExists)
	})
}

func TestStore_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("returns ErrNotFound for missing ID", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Get(ctx, "nope")

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("updates existing entry", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Add(ctx, Entry{ID: "1", Op: "export vm"}))

		now := time.Now()
		require.NoError(t, store.Update(ctx, Entry{ID: "1", Op: "export vm", LastStatus: "SUCCESS", CheckedAt: now}))

		got, err := store.Get(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "SUCCESS", got.LastStatus)
		assert.WithinDuration(t, now, got.CheckedAt, time.Second)
	})

	t.Run("returns ErrNotFound for missing entry", func(t *testing.T) {
		store := newStore(t)

		err := store.Update(ctx, Entry{ID: "missing"})

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("removes existing entry", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Add(ctx, Entry{ID: "1"}))

		require.NoError(t, store.Remove(ctx, "1"))

		_, err := store.Get(ctx, "1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("returns ErrNotFound for missing entry", func(t *testing.T) {
		store := newStore(t)

		assert.ErrorIs(t, store.Remove(ctx, "1"), ErrNotFound)
	})
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)

	store := newStore(t)
	require.NoError(t, store.Add(ctx, Entry{ID: "b", Op: "clone vm", SubmittedAt: base.Add(time.Minute)}))
	require.NoError(t, store.Add(ctx, Entry{ID: "a", Op: "start vm", SubmittedAt: base}))
	require.NoError(t, store.Add(ctx, Entry{ID: "c", Op: "clone vm", SubmittedAt: base.Add(2 * time.Minute)}))

	t.Run("returns all entries oldest first", func(t *testing.T) {
		entries, err := store.List(ctx, ListFilter{})
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, memuc.TaskID("a"), entries[0].ID)
		assert.Equal(t, memuc.TaskID("c"), entries[2].ID)
	})

	t.Run("filters by op", func(t *testing.T) {
		entries, err := store.List(ctx, ListFilter{Op: "clone vm"})
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("filters by time", func(t *testing.T) {
		entries, err := store.List(ctx, ListFilter{Since: base.Add(90 * time.Second)})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, memuc.TaskID("c"), entries[0].ID)
	})

	t.Run("returns empty slice for no matches", func(t *testing.T) {
		entries, err := store.List(ctx, ListFilter{Op: "reboot vm"})
		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})
}

func TestStore_Persistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "tasks.json")

	require.NoError(t, NewStore(path).Add(ctx, Entry{ID: "42", Op: "compress vm"}))

	got, err := NewStore(path).Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "compress vm", got.Op)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version": 1`)
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewStore(path).List(context.Background(), ListFilter{})

	assert.ErrorContains(t, err, "decode task store")
}

func TestStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()

	t.Run("handles concurrent writes", func(t *testing.T) {
		store := newStore(t)

		var wg sync.WaitGroup
		errs := make(chan error, 10)

		for i := range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := store.Add(ctx, Entry{ID: memuc.TaskID(fmt.Sprintf("task-%d", i))}); err != nil {
					errs <- err
				}
			}()
		}

		wg.Wait()
		close(errs)
		for err := range errs {
			t.Errorf("unexpected error: %v", err)
		}

		entries, err := store.List(ctx, ListFilter{})
		require.NoError(t, err)
		assert.Len(t, entries, 10)
	})

	t.Run("separate stores on one file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tasks.json")

		var wg sync.WaitGroup
		for i := range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, NewStore(path).Add(ctx, Entry{ID: memuc.TaskID(fmt.Sprintf("t%d", i))}))
			}()
		}
		wg.Wait()

		entries, err := NewStore(path).List(ctx, ListFilter{})
		require.NoError(t, err)
		assert.Len(t, entries, 5)
	})
}

func TestStore_ContextCancellation(t *testing.T) {
	store := newStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Add(ctx, Entry{ID: "1"})

	assert.ErrorIs(t, err, context.Canceled)
}
