// SPDX-License-Identifier: MPL-2.0

package selection

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmmrun/dmm/internal/entry"
	"github.com/dmmrun/dmm/internal/issue"
	"github.com/dmmrun/dmm/internal/tag"
)

// ErrAdHocDisabled is the cause attached to rejected ad-hoc lines.
var ErrAdHocDisabled = errors.New("ad-hoc commands are disabled; consider setting `adhoc: true`")

// Resolver decodes selector output against the entry list the menu was built from.
type Resolver struct {
	// Codec must be the codec the menu was rendered with.
	Codec tag.Codec
	// AdHoc allows untagged lines to run as shell commands.
	AdHoc bool
}

// Resolve returns the actions for output, in line order. Lines that are empty or
// only whitespace are ignored. Rejected ad-hoc lines become warnings; Resolve
// itself never fails.
func (r Resolver) Resolve(output string, entries []entry.Entry) ([]entry.Run, []issue.Diagnostic) {
	var (
		runs  []entry.Run
		diags []issue.Diagnostic
	)

	for line := range strings.SplitSeq(output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if i, ok := tag.Lookup(r.Codec, line, len(entries)); ok {
			runs = append(runs, entries[i].Run)
			continue
		}

		if !r.AdHoc {
			diags = append(diags, issue.Warn(
				issue.CodeAdHocRejected,
				fmt.Sprintf("can't run `%s`", line),
				ErrAdHocDisabled,
			))
			continue
		}
		runs = append(runs, entry.Shell(line))
	}

	return runs, diags
}
