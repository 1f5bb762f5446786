// SPDX-License-Identifier: MPL-2.0

// Package dispatch launches the actions picked in the selector.
//
// Launched programs are detached: the dispatcher starts them, releases their
// process handles and returns without waiting. A launch that fails is reported
// as a warning and the remaining actions still run.
package dispatch
