// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package dispatch

import (
	"os/exec"
	"syscall"
)

// detach puts the child in its own session so it outlives the launcher and the
// terminal the launcher was started from.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
