// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// HomeEnv is the variable os.UserHomeDir reads on the current platform.
func HomeEnv() string {
	if runtime.GOOS == "windows" {
		return "USERPROFILE"
	}
	return "HOME"
}

// SetHomeDir points os.UserHomeDir at dir, so "~/" search paths and the
// ~/.config fallback resolve inside a test directory. The returned function
// restores the previous value; pass it to t.Cleanup.
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()
	return MustSetenv(t, HomeEnv(), dir)
}
