// SPDX-License-Identifier: MPL-2.0

// Package entry defines menu entries and resolves the final entry list from
// configured entries and executables discovered on search paths.
//
// The position of an entry in the resolved list is its identity for the rest of
// the run: the menu is rendered from it and selector output is decoded against it,
// so the list must not change in between.
package entry
