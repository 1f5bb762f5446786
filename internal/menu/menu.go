// SPDX-License-Identifier: MPL-2.0

package menu

import (
	"strings"

	"github.com/dmmrun/dmm/internal/entry"
	"github.com/dmmrun/dmm/internal/tag"
)

// Render returns one tagged line per entry in list order. Every line, including
// the last, ends with a newline.
func Render(codec tag.Codec, entries []entry.Entry) string {
	var sb strings.Builder
	for i, e := range entries {
		tag.WriteLine(&sb, codec, i, e.Name)
		sb.WriteByte('\n')
	}
	return sb.String()
}
