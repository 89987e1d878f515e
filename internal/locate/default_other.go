//go:build !windows

package locate

import "github.com/pyclashbot/memuc/internal/exec"

// Default returns the backends to search. MEmu only installs on Windows, so
// elsewhere memuc can only be found on the PATH (a shim or a test double).
func Default(e exec.Executor) []Backend {
	return []Backend{NewPathBackend(e)}
}
