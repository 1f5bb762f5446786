// SPDX-License-Identifier: MPL-2.0

//go:build windows

package entry

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// isExecutable reports whether path carries one of the extensions listed in
// PATHEXT.
func isExecutable(path string, _ fs.FileInfo) bool {
	exts := os.Getenv("PATHEXT")
	if exts == "" {
		exts = ".COM;.EXE;.BAT;.CMD"
	}
	ext := strings.ToUpper(filepath.Ext(path))
	if ext == "" {
		return false
	}
	for _, e := range filepath.SplitList(exts) {
		if strings.ToUpper(e) == ext {
			return true
		}
	}
	return false
}
