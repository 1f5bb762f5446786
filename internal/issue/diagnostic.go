// SPDX-License-Identifier: MPL-2.0

package issue

import "errors"

const (
	// SeverityWarning indicates a recoverable per-item problem.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a fatal problem.
	SeverityError Severity = "error"
)

const (
	// CodeBrokenSymlink marks a symlink whose target does not exist.
	CodeBrokenSymlink Code = "broken_symlink"
	// CodeMetadata marks a file whose metadata could not be read.
	CodeMetadata Code = "metadata_unreadable"
	// CodeInvalidUnicode marks a discovered path that is not valid UTF-8.
	CodeInvalidUnicode Code = "invalid_unicode"
	// CodeAdHocRejected marks selector output that matched no entry while ad-hoc
	// commands are disabled.
	CodeAdHocRejected Code = "adhoc_rejected"
	// CodeShellDisabled marks a shell command blocked by the shell policy.
	CodeShellDisabled Code = "shell_disabled"
	// CodeSpawnFailed marks a command that could not be started.
	CodeSpawnFailed Code = "spawn_failed"
)

type (
	// Severity represents diagnostic severity.
	Severity string

	// Code is a machine-readable diagnostic identifier.
	Code string

	// Diagnostic is a structured, recoverable problem returned to callers
	// (rather than written to stderr) so rendering stays in one place.
	Diagnostic struct {
		// Severity is the diagnostic level.
		Severity Severity
		// Code is a machine-readable identifier.
		Code Code
		// Err carries the message and its causal chain.
		Err error
	}
)

// Warn builds a warning whose headline is msg and whose chain continues with cause.
// cause may be nil.
func Warn(code Code, msg string, cause error) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Code: code, Err: Context(msg, cause)}
}

// Message returns the full text of the diagnostic.
func (d Diagnostic) Message() string {
	if d.Err == nil {
		return string(d.Code)
	}
	return d.Err.Error()
}

// contextError is a chain link that prints only its own message from Chain's point
// of view while still carrying the full text in Error().
type contextError struct {
	msg   string
	cause error
}

func (e *contextError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

func (e *contextError) Unwrap() error { return e.cause }

// Context wraps cause with msg. Unlike fmt.Errorf, a nil cause yields a plain
// message rather than "%!w(<nil>)".
func Context(msg string, cause error) error {
	if cause == nil {
		return errors.New(msg)
	}
	return &contextError{msg: msg, cause: cause}
}
