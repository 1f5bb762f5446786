// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI commands for dmm.
//
// The root command runs the launcher pipeline: resolve entries, show them in the
// selector, then start whatever was chosen. Subcommands inspect the resolved
// entries and manage the configuration file.
package cmd
