// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the
// validation layer.
//
// Configuration is loaded from ~/.config/dmm/config.{cue,toml,yaml,yml} (or the XDG
// equivalent on Linux, ~/Library/Application Support/dmm on macOS, %APPDATA%\dmm on
// Windows). The first file found wins. Every format is checked against the embedded
// CUE schema (config_schema.cue); TOML and YAML documents are encoded into CUE first.
// Environment variables prefixed with DMM_ override individual settings, for example
// DMM_SELECTOR_COMMAND=rofi.
package config
