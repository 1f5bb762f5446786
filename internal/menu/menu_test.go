// SPDX-License-Identifier: MPL-2.0

package menu

import (
	"strings"
	"testing"

	"github.com/dmmrun/dmm/internal/entry"
	"github.com/dmmrun/dmm/internal/tag"
)

func mustCodec(t *testing.T, scheme tag.Scheme, sep string, pos tag.Position) tag.Codec {
	t.Helper()
	c, err := tag.New(scheme, sep, pos)
	if err != nil {
		t.Fatalf("tag.New() error = %v", err)
	}
	return c
}

func TestRender_Decimal(t *testing.T) {
	entries := []entry.Entry{{Name: "alpha"}, {Name: "beta"}}
	got := Render(mustCodec(t, tag.SchemeDecimal, ":", tag.PositionPrefix), entries)

	if want := "0:alpha\n1:beta\n"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRender_Empty(t *testing.T) {
	if got := Render(mustCodec(t, tag.SchemeBinary, "", ""), nil); got != "" {
		t.Errorf("Render(nil) = %q, want empty", got)
	}
}

func TestRender_EveryLineDecodes(t *testing.T) {
	names := []string{"firefox", "42 is great", "", "zeta", "with\ttab"}
	entries := make([]entry.Entry, len(names))
	for i, n := range names {
		entries[i] = entry.Entry{Name: n}
	}

	for _, scheme := range []tag.Scheme{tag.SchemeBinary, tag.SchemeTernary} {
		t.Run(string(scheme), func(t *testing.T) {
			codec := mustCodec(t, scheme, "", "")
			out := Render(codec, entries)
			if !strings.HasSuffix(out, "\n") {
				t.Fatalf("output not newline-terminated: %q", out)
			}

			lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
			if len(lines) != len(entries) {
				t.Fatalf("got %d lines, want %d", len(lines), len(entries))
			}
			for i, line := range lines {
				got, ok := tag.Lookup(codec, line, len(entries))
				if !ok || got != i {
					t.Errorf("line %d %q decoded to (%d, %v)", i, line, got, ok)
				}
				if !strings.HasPrefix(line, names[i]) {
					t.Errorf("line %d %q does not start with the entry name", i, line)
				}
			}
		})
	}
}

func TestRender_Deterministic(t *testing.T) {
	entries := []entry.Entry{{Name: "a"}, {Name: "b"}, {Name: "c"}}
	codec := mustCodec(t, tag.SchemeTernary, "", "")
	if Render(codec, entries) != Render(codec, entries) {
		t.Error("Render() is not deterministic")
	}
}
