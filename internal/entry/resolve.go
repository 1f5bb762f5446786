// SPDX-License-Identifier: MPL-2.0

package entry

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/dmmrun/dmm/internal/issue"
)

type (
	// Declared is an entry as written in the configuration.
	Declared struct {
		// Name is the display name and the key used to match discovered executables.
		Name string
		// Run is the explicit action; nil means "run the name itself".
		Run *Run
		// Group orders entries: higher groups sort first.
		Group int64
		// Hidden entries never appear and suppress discovered executables with the
		// same name.
		Hidden bool
	}

	// Discovery configures the executable search.
	Discovery struct {
		// Enabled turns discovery on.
		Enabled bool
		// Dirs are the search roots; a leading "~/" is expanded to the home directory.
		Dirs []string
		// Env appends the directories of $PATH to Dirs.
		Env bool
		// Recursive descends into subdirectories of every root.
		Recursive bool
		// Replace lets a discovered executable take over a declared entry of the
		// same name (keeping the declared group). Without it the declared entry wins.
		Replace bool
		// Group is assigned to discovered executables without a declared counterpart.
		Group int64
	}

	// Result bundles the resolved entries with the warnings produced on the way.
	Result struct {
		Entries     []Entry
		Diagnostics []issue.Diagnostic
	}

	// Resolver merges declared entries with discovered executables.
	Resolver struct {
		declared     []Declared
		discovery    Discovery
		shellEnabled bool
		logger       *log.Logger
		homeDir      func() (string, error)
		getenv       func(string) string
	}

	// ResolverOption configures a Resolver.
	ResolverOption func(*Resolver)

	// slot tracks the declared entries that share a name.
	slot struct {
		indices []int
		hidden  bool
		taken   bool
	}
)

// WithLogger sets the debug logger.
func WithLogger(logger *log.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithHomeDir overrides home directory lookup for "~/" expansion.
func WithHomeDir(fn func() (string, error)) ResolverOption {
	return func(r *Resolver) { r.homeDir = fn }
}

// WithGetenv overrides environment lookup for $PATH.
func WithGetenv(fn func(string) string) ResolverOption {
	return func(r *Resolver) { r.getenv = fn }
}

// NewResolver creates a resolver. shellEnabled decides how declared entries
// without an explicit run are executed.
func NewResolver(declared []Declared, discovery Discovery, shellEnabled bool, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		declared:     declared,
		discovery:    discovery,
		shellEnabled: shellEnabled,
		logger:       log.New(io.Discard),
		homeDir:      os.UserHomeDir,
		getenv:       os.Getenv,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the final, sorted entry list.
func (r *Resolver) Resolve(ctx context.Context) (Result, error) {
	declared := make([]Entry, 0, len(r.declared))
	slots := make(map[string]*slot)
	for _, d := range r.declared {
		s, ok := slots[d.Name]
		if !ok {
			s = &slot{}
			slots[d.Name] = s
		}
		if d.Hidden {
			s.hidden = true
			continue
		}
		s.indices = append(s.indices, len(declared))
		declared = append(declared, r.fromDeclared(d))
	}

	if !r.discovery.Enabled {
		Sort(declared)
		return Result{Entries: declared}, nil
	}

	roots, err := r.roots()
	if err != nil {
		return Result{}, err
	}

	var (
		result     Result
		discovered []Entry
		consumed   = make([]bool, len(declared))
		seen       = make(map[Executable]struct{})
		w          = newWalker(r.discovery.Recursive)
	)

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("resolve entries: %w", err)
		}

		found := w.walk(root)
		r.logger.Debug("scanned search directory", "dir", root, "executables", len(found))

		for _, exe := range found {
			if !utf8.ValidString(exe.Path) {
				result.Diagnostics = append(result.Diagnostics, issue.Warn(
					issue.CodeInvalidUnicode,
					fmt.Sprintf("the path `%s` contained invalid unicode", strings.ToValidUTF8(exe.Path, "�")),
					nil,
				))
				continue
			}
			if _, dup := seen[exe]; dup {
				continue
			}
			seen[exe] = struct{}{}

			s, ok := slots[exe.Name]
			if !ok {
				discovered = append(discovered, Entry{
					Name:  exe.Name,
					Run:   Bare(exe.Path),
					Group: r.discovery.Group,
				})
				continue
			}

			if s.hidden || s.taken || !r.discovery.Replace {
				continue
			}
			s.taken = true
			for _, idx := range s.indices {
				consumed[idx] = true
			}
			discovered = append(discovered, Entry{
				Name:  exe.Name,
				Run:   Bare(exe.Path),
				Group: declared[s.indices[0]].Group,
			})
		}
	}
	result.Diagnostics = append(w.diags, result.Diagnostics...)

	entries := discovered
	for i, e := range declared {
		if !consumed[i] {
			entries = append(entries, e)
		}
	}
	Sort(entries)

	r.logger.Debug("resolved entries", "declared", len(declared), "discovered", len(discovered), "total", len(entries))
	result.Entries = entries
	return result, nil
}

func (r *Resolver) fromDeclared(d Declared) Entry {
	e := Entry{Name: d.Name, Group: d.Group}
	switch {
	case d.Run != nil:
		e.Run = *d.Run
	case r.shellEnabled:
		e.Run = Shell(d.Name)
	default:
		e.Run = Bare(d.Name)
	}
	return e
}

// roots returns the absolute search roots: configured directories first, then
// $PATH when enabled.
func (r *Resolver) roots() ([]string, error) {
	var roots []string

	for _, dir := range r.discovery.Dirs {
		if rest, ok := strings.CutPrefix(dir, "~/"); ok {
			home, err := r.homeDir()
			if err != nil {
				return nil, issue.NewErrorContext().
					WithOperation("expand search path").
					WithResource(dir).
					WithSuggestion("Set $HOME or use an absolute path in path.dirs").
					Wrap(err).
					BuildError()
			}
			dir = filepath.Join(home, rest)
		}
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		roots = append(roots, dir)
	}

	if r.discovery.Env {
		for _, dir := range filepath.SplitList(r.getenv("PATH")) {
			if dir == "" {
				continue
			}
			if abs, err := filepath.Abs(dir); err == nil {
				dir = abs
			}
			roots = append(roots, dir)
		}
	}

	return roots, nil
}

// Sort orders entries by group descending, then case-insensitive name, then exact
// name. Entries equal on all three keep their relative order.
func Sort(entries []Entry) {
	slices.SortStableFunc(entries, compareEntries)
}

func compareEntries(a, b Entry) int {
	if c := cmp.Compare(b.Group, a.Group); c != 0 {
		return c
	}
	if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	return strings.Compare(a.Name, b.Name)
}
