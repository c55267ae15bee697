//go:build windows

package subproc

import (
	"os/exec"
	"syscall"
)

// hideConsoleWindow keeps the child from opening an inherited console window.
func hideConsoleWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
}
