// SPDX-License-Identifier: MPL-2.0

// Package menu renders resolved entries into the text handed to the selector.
package menu
