// SPDX-License-Identifier: MPL-2.0

package entry

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmmrun/dmm/internal/issue"
)

type (
	// Executable is a program found during discovery.
	Executable struct {
		// Path is the absolute path of the file (or of the symlink pointing to it).
		Path string
		// Name is the file's base name.
		Name string
	}

	// walker enumerates executables under discovery roots with an explicit stack
	// instead of recursion.
	walker struct {
		recursive  bool
		executable func(path string, info fs.FileInfo) bool
		visited    map[string]struct{}
		diags      []issue.Diagnostic
	}
)

func newWalker(recursive bool) *walker {
	return &walker{
		recursive:  recursive,
		executable: isExecutable,
		visited:    make(map[string]struct{}),
	}
}

// walk lists root (and, when recursive, everything below it) and returns the
// executables found in traversal order. A root that cannot be read is skipped
// without a diagnostic: absent directories on search paths are routine. Read
// failures below the root are warnings.
func (w *walker) walk(root string) []Executable {
	var found []Executable

	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !w.markVisited(dir) {
			continue
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			if dir == root && len(entries) == 0 {
				continue
			}
			// keep whatever was listed before the failure
			w.diags = append(w.diags, issue.Warn(
				issue.CodeMetadata,
				fmt.Sprintf("error reading directory `%s`", dir),
				err,
			))
		}

		var subdirs []string
		for _, de := range entries {
			path := filepath.Join(dir, de.Name())

			info, err := w.follow(path, de)
			if err != nil {
				continue
			}

			if info.IsDir() {
				if w.recursive {
					subdirs = append(subdirs, path)
				}
				continue
			}
			if info.Mode().IsRegular() && w.executable(path, info) {
				found = append(found, Executable{Path: path, Name: de.Name()})
			}
		}

		// push in reverse so directories are visited in lexical order
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}

		if !w.recursive {
			break
		}
	}

	return found
}

// follow returns the metadata of path, resolving symlinks. Failures are recorded
// as warnings and reported to the caller so the item is skipped.
func (w *walker) follow(path string, de fs.DirEntry) (fs.FileInfo, error) {
	if de.Type()&fs.ModeSymlink == 0 {
		info, err := de.Info()
		if err != nil {
			w.diags = append(w.diags, issue.Warn(
				issue.CodeMetadata,
				"error reading file metadata",
				fmt.Errorf("%s: %w", path, err),
			))
		}
		return info, err
	}

	info, err := os.Stat(path)
	if err != nil {
		w.diags = append(w.diags, issue.Warn(
			issue.CodeBrokenSymlink,
			fmt.Sprintf("symlink `%s` is broken", path),
			err,
		))
	}
	return info, err
}

// markVisited records dir by its resolved location and reports whether it was new.
// Symlinked directories that point back up the tree are therefore listed once.
func (w *walker) markVisited(dir string) bool {
	key, err := filepath.EvalSymlinks(dir)
	if err != nil {
		key = dir
	}
	if _, seen := w.visited[key]; seen {
		return false
	}
	w.visited[key] = struct{}{}
	return true
}
