//go:build !windows

package infrastructure

import (
	"os/exec"
	"syscall"
)

// configureProcess starts the child in its own process group and kills the
// group on cancellation
func configureProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
		Pgid:    0,
	}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
