// Package locate finds the memuc executable.
//
// An explicit path always wins. Otherwise a list of backends is consulted in
// order: the Windows registry entry written by the MEmu installer, the
// PATH, and the usual install directories.
package locate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pyclashbot/memuc/internal/exec"
	"github.com/pyclashbot/memuc/internal/memuc"
	"github.com/pyclashbot/memuc/internal/slogger"
)

// Executable names memuc ships under.
const (
	binaryName    = "memuc"
	binaryNameExe = "memuc.exe"
)

var (
	// ErrNotFound is returned when no backend could find memuc.
	ErrNotFound = fmt.Errorf("%w: memuc executable not found, is MEmu installed?", memuc.ErrConfig)

	// ErrNoBackend is returned by New when there is neither an override nor
	// a backend to search with.
	ErrNoBackend = fmt.Errorf("%w: no way to locate memuc", memuc.ErrConfig)
)

// Backend is one strategy for finding memuc.
type Backend interface {
	Name() string
	Locate(ctx context.Context) (string, error)
}

// Locator resolves the memuc executable path.
type Locator struct {
	override string
	backends []Backend
}

// New creates a Locator. A non-empty override is used instead of the
// backends; it may name the executable or a directory containing it.
func New(override string, backends ...Backend) (*Locator, error) {
	if override == "" && len(backends) == 0 {
		return nil, ErrNoBackend
	}
	return &Locator{override: override, backends: backends}, nil
}

// Locate returns the path of the memuc executable.
func (l *Locator) Locate(ctx context.Context) (string, error) {
	log := slogger.L(ctx)

	if l.override != "" {
		path, err := checkCandidate(l.override)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		log.Debug("using configured memuc", "path", path)
		return path, nil
	}

	var errs []error
	for _, b := range l.backends {
		path, err := b.Locate(ctx)
		if err != nil {
			log.Debug("memuc not found", "backend", b.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
			continue
		}
		log.Debug("found memuc", "backend", b.Name(), "path", path)
		return path, nil
	}

	return "", fmt.Errorf("%w (%w)", ErrNotFound, errors.Join(errs...))
}

// checkCandidate accepts a regular file, or a directory holding memuc
// directly or in the Memu subdirectory of an install location.
func checkCandidate(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return path, nil
	}
	for _, rel := range []string{
		binaryNameExe,
		binaryName,
		filepath.Join("Memu", binaryNameExe),
	} {
		candidate := filepath.Join(path, rel)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s: no memuc executable in directory", path)
}

// PathBackend searches the PATH.
type PathBackend struct {
	exec exec.Executor
}

// NewPathBackend creates a PathBackend that resolves through e.
func NewPathBackend(e exec.Executor) *PathBackend {
	return &PathBackend{exec: e}
}

func (b *PathBackend) Name() string { return "path" }

func (b *PathBackend) Locate(context.Context) (string, error) {
	return b.exec.LookPath(binaryName)
}

// DirsBackend checks a fixed list of install directories.
type DirsBackend struct {
	dirs []string
}

// NewDirsBackend creates a DirsBackend over dirs.
func NewDirsBackend(dirs ...string) *DirsBackend {
	return &DirsBackend{dirs: dirs}
}

func (b *DirsBackend) Name() string { return "install-dirs" }

func (b *DirsBackend) Locate(context.Context) (string, error) {
	for _, dir := range b.dirs {
		if path, err := checkCandidate(dir); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("none of %d known directories hold memuc", len(b.dirs))
}
