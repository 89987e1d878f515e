//go:build windows

package exec

import (
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"golang.org/x/sys/windows"
)

func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP | windows.CREATE_NO_WINDOW,
	}
}

// killTree terminates p and all of its descendants. taskkill walks the tree;
// TerminateProcess on p covers the case where taskkill itself is unavailable.
func killTree(p *os.Process) error {
	if p == nil {
		return os.ErrProcessDone
	}
	//nolint:gosec // fixed binary, pid is an integer
	tk := exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(p.Pid))
	tk.SysProcAttr = &syscall.SysProcAttr{HideWindow: true, CreationFlags: windows.CREATE_NO_WINDOW}
	_ = tk.Run()
	return p.Kill()
}
