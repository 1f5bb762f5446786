// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dmmrun/dmm/internal/config"
	"github.com/dmmrun/dmm/internal/dispatch"
	"github.com/dmmrun/dmm/internal/entry"
	"github.com/dmmrun/dmm/internal/issue"
	"github.com/dmmrun/dmm/internal/menu"
	"github.com/dmmrun/dmm/internal/selection"
	"github.com/dmmrun/dmm/internal/selector"
	"github.com/dmmrun/dmm/internal/tag"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer: every Cobra handler receives an App and delegates to it.
	App struct {
		Config ConfigProvider
		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// RunOptions carries the global command-line flags.
	RunOptions struct {
		// ConfigPath is the explicit --config value.
		ConfigPath string
		// Verbose enables debug logging on stderr.
		Verbose bool
		// DryRun prints chosen actions instead of starting them.
		DryRun bool
		// Selector replaces the configured selector command line.
		Selector string
		// Color overrides ui.color. Empty means use the configuration.
		Color issue.ColorMode
	}

	// session is one invocation's loaded configuration and output plumbing.
	session struct {
		cfg      *config.Config
		codec    tag.Codec
		logger   *log.Logger
		reporter *issue.Reporter
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}

	return &App{
		Config: deps.Config,
		stdin:  deps.Stdin,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}

// Launch runs the launcher pipeline: resolve entries, render the menu, run the
// selector and dispatch every selected line. Warnings are reported as they
// occur; only failures that stop the pipeline are returned.
func (a *App) Launch(ctx context.Context, opts RunOptions) error {
	s, err := a.open(ctx, opts)
	if err != nil {
		return a.fail(opts.Color, err)
	}

	entries, err := s.resolve(ctx)
	if err != nil {
		return a.fail(s.color(opts), err)
	}

	bridge, err := s.bridge(opts.Selector, a.stderr)
	if err != nil {
		return a.fail(s.color(opts), err)
	}

	output, err := bridge.Run(ctx, strings.NewReader(menu.Render(s.codec, entries)))
	if err != nil {
		return a.fail(s.color(opts), err)
	}

	runs, diags := selection.Resolver{Codec: s.codec, AdHoc: s.cfg.AdHoc}.Resolve(output, entries)
	s.reporter.Diagnostics(diags)
	s.logger.Debug("selection resolved", "lines", strings.Count(output, "\n"), "runs", len(runs))

	dispatchOpts := []dispatch.Option{
		dispatch.WithStdio(a.stdin, a.stdout, a.stderr),
		dispatch.WithLogger(s.logger),
	}
	if opts.DryRun {
		dispatchOpts = append(dispatchOpts, dispatch.WithDryRun(a.stdout))
	}
	s.reporter.Diagnostics(dispatch.New(s.cfg.Policy(), dispatchOpts...).Dispatch(ctx, runs))

	return nil
}

// Entries loads the configuration and returns the resolved entry list in menu order.
func (a *App) Entries(ctx context.Context, opts RunOptions) ([]entry.Entry, error) {
	s, err := a.open(ctx, opts)
	if err != nil {
		return nil, a.fail(opts.Color, err)
	}

	entries, err := s.resolve(ctx)
	if err != nil {
		return nil, a.fail(s.color(opts), err)
	}
	return entries, nil
}

// open loads configuration and builds the logger and reporter for one run.
func (a *App) open(ctx context.Context, opts RunOptions) (*session, error) {
	if opts.Color != "" {
		if valid, errs := opts.Color.IsValid(); !valid {
			return nil, errors.Join(errs...)
		}
	}

	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: opts.ConfigPath})
	if err != nil {
		return nil, err
	}

	codec, err := cfg.Codec()
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:    cfg,
		codec:  codec,
		logger: newLogger(a.stderr, opts.Verbose || cfg.UI.Verbose),
	}
	s.reporter = issue.NewReporter(a.stderr, s.color(opts))

	if opts.ConfigPath != "" {
		s.logger.Debug("configuration loaded", "path", opts.ConfigPath)
	}
	return s, nil
}

// fail reports err and returns an ExitError so Execute exits without printing it again.
func (a *App) fail(color issue.ColorMode, err error) error {
	issue.NewReporter(a.stderr, color).Error(err)
	return &ExitError{Code: 1, Err: err}
}

func (s *session) color(opts RunOptions) issue.ColorMode {
	if opts.Color != "" {
		return opts.Color
	}
	return s.cfg.UI.Color
}

func (s *session) resolve(ctx context.Context) ([]entry.Entry, error) {
	declared, err := s.cfg.Declared()
	if err != nil {
		return nil, err
	}

	result, err := entry.NewResolver(
		declared,
		s.cfg.Discovery(),
		s.cfg.Policy().ShellEnabled(),
		entry.WithLogger(s.logger),
	).Resolve(ctx)
	if err != nil {
		return nil, err
	}

	s.reporter.Diagnostics(result.Diagnostics)
	return result.Entries, nil
}

// bridge builds the selector invocation. A non-empty override is a full command
// line split with shell rules and replaces both the configured command and args.
func (s *session) bridge(override string, stderr io.Writer) (*selector.Bridge, error) {
	b := &selector.Bridge{
		Command: s.cfg.Selector.Command,
		Args:    s.cfg.Selector.Args,
		Stderr:  stderr,
		Logger:  s.logger,
	}
	if override == "" {
		return b, nil
	}

	run, err := entry.ParseBare(override)
	if err != nil {
		return nil, fmt.Errorf("parse --selector: %w", err)
	}
	if run.IsEmpty() {
		return nil, issue.NewErrorContext().
			WithOperation("parse --selector").
			WithSuggestion("Pass a program name, e.g. --selector 'rofi -dmenu'").
			Wrap(errors.New("selector command is empty")).
			BuildError()
	}
	b.Command, b.Args = run.Argv[0], run.Argv[1:]
	return b, nil
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
		Level:  log.WarnLevel,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
