// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmmrun/dmm/internal/dispatch"
	"github.com/dmmrun/dmm/internal/entry"
	"github.com/dmmrun/dmm/internal/issue"
	"github.com/dmmrun/dmm/internal/tag"
)

// DefaultSelector is the selector used when none is configured.
const DefaultSelector = "dmenu"

var (
	// ErrInvalidSelectorConfig is the sentinel error wrapped by InvalidSelectorConfigError.
	ErrInvalidSelectorConfig = errors.New("invalid selector config")
	// ErrInvalidEntryConfig is the sentinel error wrapped by InvalidEntryConfigError.
	ErrInvalidEntryConfig = errors.New("invalid entry")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// Config holds the application configuration.
	Config struct {
		// Selector is the external menu program.
		Selector SelectorConfig `json:"selector" mapstructure:"selector"`
		// Tags selects how entry indices are embedded in menu lines.
		Tags TagsConfig `json:"tags" mapstructure:"tags"`
		// Shell is the shell execution policy.
		Shell ShellConfig `json:"shell" mapstructure:"shell"`
		// AdHoc allows selector output that matches no entry to run as a shell command.
		AdHoc bool `json:"adhoc" mapstructure:"adhoc"`
		// Path configures executable discovery.
		Path PathConfig `json:"path" mapstructure:"path"`
		// Entries are the declared menu entries.
		Entries []EntryConfig `json:"entries" mapstructure:"entries"`
		// UI configures terminal output.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// SelectorConfig configures the selector process.
	SelectorConfig struct {
		Command string   `json:"command" mapstructure:"command"`
		Args    []string `json:"args" mapstructure:"args"`
	}

	// TagsConfig configures the tag codec.
	TagsConfig struct {
		Scheme    tag.Scheme   `json:"scheme" mapstructure:"scheme"`
		Separator string       `json:"separator" mapstructure:"separator"`
		Position  tag.Position `json:"position" mapstructure:"position"`
	}

	// ShellConfig configures how shell actions run.
	ShellConfig struct {
		Mode dispatch.Mode `json:"mode" mapstructure:"mode"`
		// Interpreter overrides the mode's default interpreter.
		Interpreter []string `json:"interpreter" mapstructure:"interpreter"`
	}

	// PathConfig configures executable discovery.
	PathConfig struct {
		Enabled   bool     `json:"enabled" mapstructure:"enabled"`
		Dirs      []string `json:"dirs" mapstructure:"dirs"`
		Env       bool     `json:"env" mapstructure:"env"`
		Recursive bool     `json:"recursive" mapstructure:"recursive"`
		Replace   bool     `json:"replace" mapstructure:"replace"`
		Group     int64    `json:"group" mapstructure:"group"`
	}

	// EntryConfig is one declared entry after normalization: the file's `run`
	// field has been split into Script or Argv.
	EntryConfig struct {
		Name   string   `json:"name" mapstructure:"name"`
		Script string   `json:"script,omitempty" mapstructure:"script"`
		Argv   []string `json:"argv,omitempty" mapstructure:"argv"`
		Bare   bool     `json:"bare,omitempty" mapstructure:"bare"`
		Group  int64    `json:"group,omitempty" mapstructure:"group"`
		Hidden bool     `json:"hidden,omitempty" mapstructure:"hidden"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		Color   issue.ColorMode `json:"color" mapstructure:"color"`
		Verbose bool            `json:"verbose" mapstructure:"verbose"`
	}

	// InvalidSelectorConfigError is returned when the selector command is blank.
	InvalidSelectorConfigError struct {
		Command string
	}

	// InvalidEntryConfigError is returned when a declared entry cannot be used.
	InvalidEntryConfigError struct {
		Index int
		Name  string
		Err   error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// IsValid returns whether the SelectorConfig names a program.
func (c SelectorConfig) IsValid() (bool, []error) {
	if strings.TrimSpace(c.Command) == "" {
		return false, []error{&InvalidSelectorConfigError{Command: c.Command}}
	}
	return true, nil
}

// Error implements the error interface for InvalidSelectorConfigError.
func (e *InvalidSelectorConfigError) Error() string {
	return fmt.Sprintf("invalid selector command %q: must be non-empty", e.Command)
}

// Unwrap returns ErrInvalidSelectorConfig for errors.Is() compatibility.
func (e *InvalidSelectorConfigError) Unwrap() error { return ErrInvalidSelectorConfig }

// IsValid returns whether the scheme and position are recognized.
// An empty position is valid and means "the scheme's default".
func (c TagsConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Scheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if c.Position != "" {
		if valid, fieldErrs := c.Position.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	return len(errs) == 0, errs
}

// Run returns the declared action, or nil when the entry runs its own name.
func (e EntryConfig) Run() (*entry.Run, error) {
	switch {
	case len(e.Argv) > 0:
		run := entry.Bare(e.Argv...)
		return &run, nil
	case e.Script == "":
		return nil, nil
	case e.Bare:
		run, err := entry.ParseBare(e.Script)
		if err != nil {
			return nil, err
		}
		return &run, nil
	default:
		run := entry.Shell(e.Script)
		return &run, nil
	}
}

// Error implements the error interface for InvalidEntryConfigError.
func (e *InvalidEntryConfigError) Error() string {
	return fmt.Sprintf("entries[%d] (%q): %v", e.Index, e.Name, e.Err)
}

// Unwrap returns both the sentinel and the underlying cause.
func (e *InvalidEntryConfigError) Unwrap() []error {
	return []error{ErrInvalidEntryConfig, e.Err}
}

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Selector.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Tags.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Shell.Mode.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.Color.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	for i, e := range c.Entries {
		if strings.TrimSpace(e.Name) == "" {
			errs = append(errs, &InvalidEntryConfigError{Index: i, Name: e.Name, Err: errors.New("name must be non-empty")})
			continue
		}
		if _, err := e.Run(); err != nil {
			errs = append(errs, &InvalidEntryConfigError{Index: i, Name: e.Name, Err: err})
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so errors.Is()
// matches both the sentinel and the specific field problem.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Codec builds the tag codec described by the configuration.
func (c *Config) Codec() (tag.Codec, error) {
	return tag.New(c.Tags.Scheme, c.Tags.Separator, c.Tags.Position)
}

// Policy returns the shell execution policy.
func (c *Config) Policy() dispatch.Policy {
	return dispatch.Policy{Mode: c.Shell.Mode, Interpreter: c.Shell.Interpreter}
}

// Discovery returns the executable discovery settings.
func (c *Config) Discovery() entry.Discovery {
	return entry.Discovery{
		Enabled:   c.Path.Enabled,
		Dirs:      c.Path.Dirs,
		Env:       c.Path.Env,
		Recursive: c.Path.Recursive,
		Replace:   c.Path.Replace,
		Group:     c.Path.Group,
	}
}

// Declared converts the configured entries for the resolver.
func (c *Config) Declared() ([]entry.Declared, error) {
	out := make([]entry.Declared, 0, len(c.Entries))
	for i, e := range c.Entries {
		run, err := e.Run()
		if err != nil {
			return nil, &InvalidEntryConfigError{Index: i, Name: e.Name, Err: err}
		}
		out = append(out, entry.Declared{Name: e.Name, Run: run, Group: e.Group, Hidden: e.Hidden})
	}
	return out, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Selector: SelectorConfig{
			Command: DefaultSelector,
			Args:    []string{},
		},
		Tags: TagsConfig{
			Scheme: tag.SchemeBinary,
		},
		Shell: ShellConfig{
			Mode: dispatch.ModeArgv,
		},
		AdHoc: false,
		Path: PathConfig{
			Enabled: false,
			Dirs:    []string{"~/.local/bin"},
			Env:     true,
			Replace: true,
		},
		Entries: []EntryConfig{},
		UI: UIConfig{
			Color: issue.ColorAuto,
		},
	}
}
