// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package entry

import (
	"io/fs"

	"golang.org/x/sys/unix"
)

// isExecutable reports whether the current user may execute path. Files without
// any execute bit are rejected before asking the kernel.
func isExecutable(path string, info fs.FileInfo) bool {
	if info.Mode().Perm()&0o111 == 0 {
		return false
	}
	return unix.Access(path, unix.X_OK) == nil
}
