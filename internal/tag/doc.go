// SPDX-License-Identifier: MPL-2.0

// Package tag encodes entry indices into short markers that are attached to menu
// lines and recovered from whatever text the external selector hands back.
//
// Two families exist: Decimal, which writes the index as digits, and Symbol, which
// writes it in base 2 or 3 over zero-width code points that never occur in typed
// input. A Codec is chosen once from configuration with New.
package tag
