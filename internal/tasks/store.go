package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pyclashbot/memuc/internal/memuc"
)

const (
	lockTimeout  = 5 * time.Second
	lockInterval = 10 * time.Millisecond
	fileMode     = 0644
	dirMode      = 0755
)

// errWouldBlock is returned by tryLock when another process holds the lock.
var errWouldBlock = errors.New("lock held elsewhere")

// tasksFile represents the on-disk format.
type tasksFile struct {
	Version int     `json:"version"`
	Entries []Entry `json:"entries"`
}

type jsonStore struct {
	path string
	mu   sync.RWMutex
}

// NewStore creates a JSON-backed task store at path. A sibling ".lock" file
// serializes access across processes.
func NewStore(path string) *jsonStore {
	return &jsonStore{path: path}
}

func (s *jsonStore) Add(ctx context.Context, entry Entry) error {
	return s.withExclusiveLock(ctx, func(tf *tasksFile) error {
		for _, e := range tf.Entries {
			if e.ID == entry.ID {
				return fmt.Errorf("%w: %s", ErrAlreadyExists, entry.ID)
			}
		}
		tf.Entries = append(tf.Entries, entry)
		return nil
	})
}

func (s *jsonStore) Get(ctx context.Context, id memuc.TaskID) (*Entry, error) {
	var result *Entry

	err := s.withSharedLock(ctx, func(tf *tasksFile) error {
		for i := range tf.Entries {
			if tf.Entries[i].ID == id {
				entry := tf.Entries[i]
				result = &entry
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	})

	return result, err
}

func (s *jsonStore) Update(ctx context.Context, entry Entry) error {
	return s.withExclusiveLock(ctx, func(tf *tasksFile) error {
		for i := range tf.Entries {
			if tf.Entries[i].ID == entry.ID {
				tf.Entries[i] = entry
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrNotFound, entry.ID)
	})
}

func (s *jsonStore) Remove(ctx context.Context, id memuc.TaskID) error {
	return s.withExclusiveLock(ctx, func(tf *tasksFile) error {
		for i := range tf.Entries {
			if tf.Entries[i].ID == id {
				tf.Entries = append(tf.Entries[:i], tf.Entries[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	})
}

func (s *jsonStore) List(ctx context.Context, filter ListFilter) ([]Entry, error) {
	result := []Entry{}

	err := s.withSharedLock(ctx, func(tf *tasksFile) error {
		for _, e := range tf.Entries {
			if filter.Op != "" && e.Op != filter.Op {
				continue
			}
			if !filter.Since.IsZero() && e.SubmittedAt.Before(filter.Since) {
				continue
			}
			result = append(result, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SubmittedAt.Before(result[j].SubmittedAt)
	})
	return result, nil
}

// withSharedLock executes fn with a shared (read) lock.
func (s *jsonStore) withSharedLock(ctx context.Context, fn func(*tasksFile) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	unlock, err := s.lock(ctx, false)
	if err != nil {
		return err
	}
	defer unlock()

	tf, err := s.load()
	if err != nil {
		return err
	}
	return fn(tf)
}

// withExclusiveLock executes fn with an exclusive (write) lock.
// Changes made by fn are persisted to disk.
func (s *jsonStore) withExclusiveLock(ctx context.Context, fn func(*tasksFile) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lock(ctx, true)
	if err != nil {
		return err
	}
	defer unlock()

	tf, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(tf); err != nil {
		return err
	}
	return s.save(tf)
}

// lock acquires the cross-process lock, polling until lockTimeout.
func (s *jsonStore) lock(ctx context.Context, exclusive bool) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.path), dirMode); err != nil {
		return nil, fmt.Errorf("create task store directory: %w", err)
	}

	file, err := os.OpenFile(s.path+".lock", os.O_RDWR|os.O_CREATE, fileMode)
	if err != nil {
		return nil, fmt.Errorf("open task store lock: %w", err)
	}

	deadline := time.Now().Add(lockTimeout)
	for {
		select {
		case <-ctx.Done():
			file.Close()
			return nil, ctx.Err()
		default:
		}

		err := tryLock(file, exclusive)
		if err == nil {
			return func() {
				unlockFile(file)
				file.Close()
			}, nil
		}
		if !errors.Is(err, errWouldBlock) {
			file.Close()
			return nil, fmt.Errorf("acquire file lock: %w", err)
		}
		if time.Now().After(deadline) {
			file.Close()
			return nil, ErrLockTimeout
		}
		time.Sleep(lockInterval)
	}
}

// load reads and parses the task file. A missing or empty file is an
// empty store.
func (s *jsonStore) load() (*tasksFile, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && len(data) == 0) {
		return &tasksFile{Version: 1, Entries: []Entry{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read task store: %w", err)
	}

	var tf tasksFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("decode task store: %w", err)
	}
	return &tf, nil
}

// save writes the task file atomically.
func (s *jsonStore) save(tf *tasksFile) error {
	tf.Version = 1

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "tasks-*.json.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(tf); err != nil {
		tmp.Close()
		return fmt.Errorf("encode task store: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename task store: %w", err)
	}

	tmpPath = ""
	return nil
}
