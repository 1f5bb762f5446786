// SPDX-License-Identifier: MPL-2.0

// Package selector runs the external menu program (dmenu, rofi, fzf, ...) and
// collects what the user picked.
//
// The menu is written to the selector's stdin by a dedicated goroutine while the
// caller waits for the process and drains its stdout. Writing synchronously first
// would deadlock once both pipe buffers fill.
package selector
