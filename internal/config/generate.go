// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"strings"
)

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// dmm configuration file\n")
	sb.WriteString("// Run 'dmm config doc' for the full reference.\n\n")

	sb.WriteString("selector: {\n")
	fmt.Fprintf(&sb, "\tcommand: %q\n", cfg.Selector.Command)
	fmt.Fprintf(&sb, "\targs: %s\n", cueList(cfg.Selector.Args))
	sb.WriteString("}\n")

	sb.WriteString("\ntags: {\n")
	fmt.Fprintf(&sb, "\tscheme: %q\n", cfg.Tags.Scheme)
	fmt.Fprintf(&sb, "\tseparator: %q\n", cfg.Tags.Separator)
	fmt.Fprintf(&sb, "\tposition: %q\n", cfg.Tags.Position)
	sb.WriteString("}\n")

	sb.WriteString("\nshell: {\n")
	fmt.Fprintf(&sb, "\tmode: %q\n", cfg.Shell.Mode)
	if len(cfg.Shell.Interpreter) > 0 {
		fmt.Fprintf(&sb, "\tinterpreter: %s\n", cueList(cfg.Shell.Interpreter))
	}
	sb.WriteString("}\n")

	fmt.Fprintf(&sb, "\nadhoc: %v\n", cfg.AdHoc)

	sb.WriteString("\npath: {\n")
	fmt.Fprintf(&sb, "\tenabled: %v\n", cfg.Path.Enabled)
	fmt.Fprintf(&sb, "\tdirs: %s\n", cueList(cfg.Path.Dirs))
	fmt.Fprintf(&sb, "\tenv: %v\n", cfg.Path.Env)
	fmt.Fprintf(&sb, "\trecursive: %v\n", cfg.Path.Recursive)
	fmt.Fprintf(&sb, "\treplace: %v\n", cfg.Path.Replace)
	fmt.Fprintf(&sb, "\tgroup: %d\n", cfg.Path.Group)
	sb.WriteString("}\n")

	if len(cfg.Entries) == 0 {
		sb.WriteString("\nentries: []\n")
	} else {
		sb.WriteString("\nentries: [\n")
		for _, e := range cfg.Entries {
			sb.WriteString("\t" + cueEntry(e) + ",\n")
		}
		sb.WriteString("]\n")
	}

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor: %q\n", cfg.UI.Color)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}

// cueEntry renders an entry in its shortest form.
func cueEntry(e EntryConfig) string {
	if e.Script == "" && len(e.Argv) == 0 && e.Group == 0 && !e.Hidden && !e.Bare {
		return fmt.Sprintf("%q", e.Name)
	}

	fields := []string{fmt.Sprintf("name: %q", e.Name)}
	switch {
	case len(e.Argv) > 0:
		fields = append(fields, "run: "+cueList(e.Argv))
	case e.Script != "":
		fields = append(fields, fmt.Sprintf("run: %q", e.Script))
	}
	if e.Bare {
		fields = append(fields, "bare: true")
	}
	if e.Group != 0 {
		fields = append(fields, fmt.Sprintf("group: %d", e.Group))
	}
	if e.Hidden {
		fields = append(fields, "hidden: true")
	}
	return "{" + strings.Join(fields, ", ") + "}"
}

func cueList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
