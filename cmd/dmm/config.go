// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/dmmrun/dmm/internal/config"
)

// newConfigCommand creates the `dmm config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App, opts *RunOptions) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage dmm configuration",
		Long: `Manage dmm configuration.

Configuration is read from the first of config.cue, config.toml, config.yaml
and config.yml in:
  - Linux: $XDG_CONFIG_HOME/dmm (default ~/.config/dmm)
  - macOS: ~/Library/Application Support/dmm
  - Windows: %APPDATA%\dmm

Every key can be overridden with a DMM_ environment variable, for example
DMM_SELECTOR_COMMAND=rofi or DMM_ADHOC=true.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true

			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: opts.ConfigPath})
			if err != nil {
				return app.fail(opts.Color, err)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return initConfig(app, opts)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return showConfigPath(app, opts)
		},
	})

	var raw bool
	docCmd := &cobra.Command{
		Use:   "doc",
		Short: "Show the configuration reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return showConfigDoc(app.stdout, raw)
		},
	}
	docCmd.Flags().BoolVar(&raw, "raw", false, "print the reference as plain markdown")
	cfgCmd.AddCommand(docCmd)

	return cfgCmd
}

func initConfig(app *App, opts *RunOptions) error {
	path, created, err := config.CreateDefaultConfig(config.LoadOptions{})
	if err != nil {
		return app.fail(opts.Color, err)
	}

	if !created {
		fmt.Fprintf(app.stdout, "%s %s\n", SubtitleStyle.Render("Config file already exists:"), CmdStyle.Render(path))
		return nil
	}
	fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Created config file:"), CmdStyle.Render(path))
	return nil
}

// showConfigPath prints the file Load reads. Without one it prints where
// `dmm config init` would create it.
func showConfigPath(app *App, opts *RunOptions) error {
	path, err := config.Path(config.LoadOptions{ConfigFilePath: opts.ConfigPath})
	if err != nil {
		return app.fail(opts.Color, err)
	}
	if path != "" {
		fmt.Fprintln(app.stdout, path)
		return nil
	}

	dir, err := config.ConfigDir()
	if err != nil {
		return app.fail(opts.Color, err)
	}
	fmt.Fprintf(app.stdout, "%s %s\n",
		filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt),
		SubtitleStyle.Render("(not created, using defaults)"))
	return nil
}

func showConfigDoc(w io.Writer, raw bool) error {
	doc := configReference()
	if raw {
		_, err := io.WriteString(w, doc)
		return err
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := renderer.Render(doc)
	if err != nil {
		return fmt.Errorf("render configuration reference: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// configReference is the markdown shown by `dmm config doc`.
func configReference() string {
	var sb strings.Builder
	sb.WriteString(`# dmm configuration

All fields are optional. Files may be written in CUE, TOML or YAML; every
format is validated against the same schema.

| Key | Default | Meaning |
|---|---|---|
| ` + "`selector.command`" + ` | ` + "`" + config.DefaultSelector + "`" + ` | selector program |
| ` + "`selector.args`" + ` | ` + "`[]`" + ` | selector arguments |
| ` + "`tags.scheme`" + ` | ` + "`binary`" + ` | ` + "`decimal`, `binary` or `ternary`" + ` |
| ` + "`tags.separator`" + ` | ` + "`\"\"`" + ` | text between tag and name |
| ` + "`tags.position`" + ` | scheme dependent | ` + "`prefix` or `suffix`" + ` |
| ` + "`shell.mode`" + ` | ` + "`argv`" + ` | ` + "`disabled`, `argv` or `piped`" + ` |
| ` + "`shell.interpreter`" + ` | ` + "`[\"sh\", \"-c\"]`" + ` | shell command line |
| ` + "`adhoc`" + ` | ` + "`false`" + ` | run unmatched selector output as shell |
| ` + "`path.enabled`" + ` | ` + "`false`" + ` | discover executables |
| ` + "`path.dirs`" + ` | ` + "`[\"~/.local/bin\"]`" + ` | search directories |
| ` + "`path.env`" + ` | ` + "`true`" + ` | also search ` + "`$PATH`" + ` |
| ` + "`path.recursive`" + ` | ` + "`false`" + ` | descend into subdirectories |
| ` + "`path.replace`" + ` | ` + "`true`" + ` | discovered executables replace entries of the same name |
| ` + "`path.group`" + ` | ` + "`0`" + ` | group of discovered executables |
| ` + "`entries`" + ` | ` + "`[]`" + ` | declared entries |
| ` + "`ui.color`" + ` | ` + "`auto`" + ` | ` + "`auto`, `always` or `never`" + ` |
| ` + "`ui.verbose`" + ` | ` + "`false`" + ` | debug logging |

An entry is either a name or a struct with ` + "`name`, `run`, `bare`, `group` and `hidden`" + `.
A string ` + "`run`" + ` is a shell command unless ` + "`bare: true`" + `; a list ` + "`run`" + ` is an argument vector.

## Schema

` + "```cue\n")
	sb.WriteString(strings.TrimSpace(config.Schema()))
	sb.WriteString("\n```\n")
	return sb.String()
}
