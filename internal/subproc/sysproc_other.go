//go:build !windows

package subproc

import "os/exec"

// hideConsoleWindow is a no-op outside Windows; no console is inherited.
func hideConsoleWindow(_ *exec.Cmd) {}
