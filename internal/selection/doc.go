// SPDX-License-Identifier: MPL-2.0

// Package selection maps the selector's output back to the actions to run.
//
// A line whose tag decodes to a listed entry runs that entry, whatever the rest of
// the line says. Any other line is an ad-hoc command, run through the shell only
// when ad-hoc commands are allowed.
package selection
