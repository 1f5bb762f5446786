// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dmmrun/dmm/internal/entry"
)

// newListCommand creates `dmm list`, which prints the resolved entries in menu
// order without tags.
func newListCommand(app *App, opts *RunOptions) *cobra.Command {
	var namesOnly bool

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the resolved menu entries",
		Long: `List the resolved menu entries in the order the selector would show them.

Each line shows the entry name, its group and the action it runs. Use
--names to print only the names, one per line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true

			entries, err := app.Entries(cmd.Context(), *opts)
			if err != nil {
				return err
			}

			if namesOnly {
				for _, e := range entries {
					fmt.Fprintln(app.stdout, e.Name)
				}
				return nil
			}
			renderEntries(app.stdout, entries)
			return nil
		},
	}

	listCmd.Flags().BoolVar(&namesOnly, "names", false, "print only entry names")

	return listCmd
}

func renderEntries(w io.Writer, entries []entry.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("(no entries)"))
		return
	}

	nameWidth, groupWidth := 0, 0
	for _, e := range entries {
		nameWidth = max(nameWidth, lipgloss.Width(e.Name))
		groupWidth = max(groupWidth, len(strconv.FormatInt(e.Group, 10)))
	}

	nameStyle := CmdStyle.Width(nameWidth)
	groupStyle := SubtitleStyle.Width(groupWidth).Align(lipgloss.Right)
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %s  %s\n",
			nameStyle.Render(e.Name),
			groupStyle.Render(strconv.FormatInt(e.Group, 10)),
			VerboseStyle.Render(e.Run.Kind.String()+": "+e.Run.String()),
		)
	}
}
