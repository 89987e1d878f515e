package memuc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pyclashbot/memuc/internal/exec"
	"github.com/pyclashbot/memuc/internal/exec/mocks"
)

const testPath = `C:\Program Files\Microvirt\MEmu\memuc.exe`

func newTestClient(t *testing.T, mockExec *mocks.ExecutorMock) *Client {
	t.Helper()
	c, err := New(mockExec, Options{Path: testPath, Retry: DefaultRetryPolicy()})
	require.NoError(t, err)
	return c
}

// replies returns a mock that answers each call with the next output,
// repeating the last one. Outputs prefixed with "!" exit with status 1.
func replies(outputs ...string) *mocks.ExecutorMock {
	n := 0
	return &mocks.ExecutorMock{
		RunFunc: func(_ context.Context, _ *exec.RunOptions) (*exec.Result, error) {
			out := outputs[min(n, len(outputs)-1)]
			n++
			if len(out) > 0 && out[0] == '!' {
				return &exec.Result{Stdout: []byte(out[1:]), ExitCode: 1}, errors.New("exit status 1")
			}
			return &exec.Result{Stdout: []byte(out)}, nil
		},
	}
}

func timesOut(output string) *mocks.ExecutorMock {
	return &mocks.ExecutorMock{
		RunFunc: func(_ context.Context, _ *exec.RunOptions) (*exec.Result, error) {
			return &exec.Result{Stdout: []byte(output), ExitCode: -1, TimedOut: true}, nil
		},
	}
}

func lastArgs(m *mocks.ExecutorMock) []string {
	calls := m.RunCalls()
	return calls[len(calls)-1].Opts.Args
}
