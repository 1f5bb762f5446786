// SPDX-License-Identifier: MPL-2.0

package entry

import (
	"strings"

	"mvdan.cc/sh/v3/shell"
	"mvdan.cc/sh/v3/syntax"
)

const (
	// RunBare executes an argument vector directly, without a shell.
	RunBare RunKind = iota
	// RunShell hands a script to the configured shell interpreter.
	RunShell
)

type (
	// RunKind distinguishes bare and shell actions.
	RunKind int

	// Run is the action behind an entry.
	Run struct {
		// Kind selects between Argv and Script.
		Kind RunKind
		// Argv is the program and its arguments for bare actions.
		Argv []string
		// Script is the command text for shell actions.
		Script string
	}

	// Entry is one line of the menu.
	Entry struct {
		// Name is the display text; it need not be unique.
		Name string
		// Run is executed when the entry is chosen.
		Run Run
		// Group orders entries: higher groups sort first.
		Group int64
	}
)

// Bare returns a bare action for argv.
func Bare(argv ...string) Run {
	return Run{Kind: RunBare, Argv: argv}
}

// Shell returns a shell action for script.
func Shell(script string) Run {
	return Run{Kind: RunShell, Script: script}
}

// ParseBare splits a command line into an argument vector using POSIX shell
// field splitting, expanding $VARS from the process environment.
func ParseBare(cmdline string) (Run, error) {
	argv, err := shell.Fields(cmdline, nil)
	if err != nil {
		return Run{}, err
	}
	return Bare(argv...), nil
}

// IsEmpty reports whether running r would be a no-op.
func (r Run) IsEmpty() bool {
	if r.Kind == RunShell {
		return r.Script == ""
	}
	return len(r.Argv) == 0
}

// String renders the action for messages. Bare argument vectors are shell-quoted
// so the text can be pasted into a terminal.
func (r Run) String() string {
	if r.Kind == RunShell {
		return r.Script
	}

	parts := make([]string, 0, len(r.Argv))
	for _, arg := range r.Argv {
		quoted, err := syntax.Quote(arg, syntax.LangPOSIX)
		if err != nil {
			quoted = arg
		}
		parts = append(parts, quoted)
	}
	return strings.Join(parts, " ")
}

// String returns the string representation of the RunKind.
func (k RunKind) String() string {
	if k == RunShell {
		return "shell"
	}
	return "bare"
}
