//go:build unix

package exec

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestExecutor_Run_KillsProcessTree(t *testing.T) {
	e := New()

	// The shell backgrounds a grandchild and reports its pid before hanging.
	result, err := e.Run(context.Background(), &RunOptions{
		Name:      "sh",
		Args:      []string{"-c", "sleep 30 & echo $!; wait"},
		Timeout:   200 * time.Millisecond,
		KillGrace: 500 * time.Millisecond,
	})

	require.NoError(t, err)
	require.True(t, result.TimedOut)

	pid, err := strconv.Atoi(strings.TrimSpace(string(result.Stdout)))
	require.NoError(t, err, "expected grandchild pid on stdout, got %q", result.Stdout)

	assert.Eventually(t, func() bool {
		return !processAlive(pid)
	}, 5*time.Second, 20*time.Millisecond, "grandchild %d survived the timeout", pid)
}

func TestKillTree_NilProcess(t *testing.T) {
	assert.Error(t, killTree(nil))
}

// processAlive reports whether pid exists and is not a zombie. Zombies can
// linger when the reparenting init does not reap promptly.
func processAlive(pid int) bool {
	if errors.Is(unix.Kill(pid, 0), unix.ESRCH) {
		return false
	}
	stat, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return true
	}
	// Format: pid (comm) state ...
	fields := strings.Fields(string(stat[strings.LastIndexByte(string(stat), ')')+1:]))
	return len(fields) == 0 || fields[0] != "Z"
}
