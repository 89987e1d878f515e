//go:build !unix && !windows

package exec

import (
	"os"
	"os/exec"
)

func setProcessGroup(*exec.Cmd) {}

func killTree(p *os.Process) error {
	if p == nil {
		return os.ErrProcessDone
	}
	return p.Kill()
}
