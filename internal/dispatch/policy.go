// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"errors"
	"fmt"
)

const (
	// ModeDisabled refuses to run shell actions.
	ModeDisabled Mode = "disabled"
	// ModeArgv passes the script as the last interpreter argument.
	ModeArgv Mode = "argv"
	// ModePiped writes the script to the interpreter's stdin. The interpreter must
	// read it: a script the pipe cannot hold is abandoned after a short deadline.
	ModePiped Mode = "piped"
)

var (
	// ErrInvalidMode is the sentinel error wrapped by InvalidModeError.
	ErrInvalidMode = errors.New("invalid shell mode")

	// ErrShellDisabled is the cause attached to shell actions blocked by ModeDisabled.
	ErrShellDisabled = errors.New("shell commands are disabled; consider setting `shell.mode`")
)

type (
	// Mode selects how shell actions are executed.
	Mode string

	// Policy is the shell execution policy. It is built once from configuration and
	// never changes during a run.
	Policy struct {
		// Mode selects how shell actions run.
		Mode Mode
		// Interpreter is the program and leading arguments used for shell actions.
		// Empty means DefaultInterpreter(Mode).
		Interpreter []string
	}

	// InvalidModeError is returned when a Mode value is not recognized.
	InvalidModeError struct {
		Value Mode
	}
)

// DefaultInterpreter returns the interpreter used when none is configured.
func DefaultInterpreter(mode Mode) []string {
	if mode == ModePiped {
		return []string{"sh"}
	}
	return []string{"sh", "-c"}
}

// String returns the string representation of the Mode.
func (m Mode) String() string { return string(m) }

// IsValid returns whether the Mode is one of the defined modes,
// and a list of validation errors if it is not.
func (m Mode) IsValid() (bool, []error) {
	switch m {
	case ModeDisabled, ModeArgv, ModePiped:
		return true, nil
	default:
		return false, []error{&InvalidModeError{Value: m}}
	}
}

// Error implements the error interface.
func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid shell mode %q (valid: disabled, argv, piped)", e.Value)
}

// Unwrap returns ErrInvalidMode so callers can use errors.Is for programmatic detection.
func (e *InvalidModeError) Unwrap() error { return ErrInvalidMode }

// ShellEnabled reports whether shell actions may run.
func (p Policy) ShellEnabled() bool {
	return p.Mode != ModeDisabled
}

func (p Policy) interpreter() []string {
	if len(p.Interpreter) > 0 {
		return p.Interpreter
	}
	return DefaultInterpreter(p.Mode)
}
