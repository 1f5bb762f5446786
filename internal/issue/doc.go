// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors, recoverable diagnostics and the
// stderr reporter that renders both.
//
// Fatal problems travel up the call stack as errors (usually ActionableError) and
// end the run. Per-item problems (a broken symlink, a rejected ad-hoc line, a
// command that failed to start) are collected as Diagnostic values and reported as
// warnings while the batch keeps going.
package issue
