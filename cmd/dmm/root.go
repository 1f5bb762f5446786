// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/dmmrun/dmm/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand creates the `dmm` command tree. Global flags are persistent so
// subcommands load the same configuration the launcher would.
func newRootCommand(app *App) *cobra.Command {
	var (
		opts  RunOptions
		color string
	)

	rootCmd := &cobra.Command{
		Use:   "dmm",
		Short: "A dmenu-style launcher for configured entries and executables",
		Long: TitleStyle.Render("dmm") + SubtitleStyle.Render(" - A dmenu-style launcher") + `

dmm builds a menu from the entries in its configuration file and the
executables found on the search path, hands it to a selector program
(dmenu, rofi -dmenu, fzf, ...) and starts whatever was picked.

Each menu line carries a tag that identifies its entry, so duplicate names
stay distinct. A line the selector prints that matches no entry can be run
as an ad-hoc shell command when ` + "`adhoc: true`" + ` is set.

` + SubtitleStyle.Render("Examples:") + `
  dmm                           Show the menu and run the selection
  dmm --selector 'fzf --multi'  Use a different selector for this run
  dmm --dry-run                 Print what would run instead of running it
  dmm list                      List the resolved entries
  dmm config init               Create a default configuration file`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.Color = issue.ColorMode(color)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return app.Launch(cmd.Context(), opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file (default is $XDG_CONFIG_HOME/dmm/config.cue)")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging on stderr")
	flags.StringVar(&color, "color", "", "color stderr output: auto, always or never (default from ui.color)")
	rootCmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print the selected actions instead of running them")
	rootCmd.Flags().StringVar(&opts.Selector, "selector", "", "selector command line, replacing selector.command and selector.args")

	rootCmd.AddCommand(newListCommand(app, &opts))
	rootCmd.AddCommand(newConfigCommand(app, &opts))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the command tree and runs it. This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := newRootCommand(app)

	// Errors are reported through issue.Reporter; keep fang from printing them again.
	rootCmd.SetErr(io.Discard)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		issue.NewReporter(os.Stderr, issue.ColorAuto).Error(err)
		os.Exit(1)
	}
}
