//go:build windows

package infrastructure

import (
	"os/exec"
	"syscall"
)

// configureProcess hides the console window of the child
func configureProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}
