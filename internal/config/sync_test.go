// SPDX-License-Identifier: MPL-2.0

package config

import (
	"reflect"
	"sort"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/google/go-cmp/cmp"
)

// These tests keep the json tags of the Go config structs in step with the field
// names of the CUE schema. A mismatch would silently drop settings.

func cueFields(t *testing.T, def string) []string {
	t.Helper()

	schema := cuecontext.New().CompileString(configSchema)
	if schema.Err() != nil {
		t.Fatalf("schema does not compile: %v", schema.Err())
	}
	val := schema.LookupPath(cue.ParsePath(def))
	if !val.Exists() {
		t.Fatalf("definition %s not found", def)
	}

	iter, err := val.Fields(cue.Definitions(false), cue.Optional(true))
	if err != nil {
		t.Fatalf("failed to iterate CUE fields: %v", err)
	}

	var names []string
	for iter.Next() {
		sel := iter.Selector()
		if sel.IsDefinition() || sel.LabelType().IsHidden() {
			continue
		}
		names = append(names, strings.TrimSuffix(sel.String(), "?"))
	}
	sort.Strings(names)
	return names
}

func jsonFields(t *testing.T, typ reflect.Type) []string {
	t.Helper()

	var names []string
	for i := range typ.NumField() {
		field := typ.Field(i)
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if !field.IsExported() || name == "" || name == "-" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func TestSchemaSync(t *testing.T) {
	tests := []struct {
		def string
		typ reflect.Type
	}{
		{def: "#Config", typ: reflect.TypeFor[Config]()},
		{def: "#Selector", typ: reflect.TypeFor[SelectorConfig]()},
		{def: "#Tags", typ: reflect.TypeFor[TagsConfig]()},
		{def: "#Shell", typ: reflect.TypeFor[ShellConfig]()},
		{def: "#Path", typ: reflect.TypeFor[PathConfig]()},
		{def: "#UI", typ: reflect.TypeFor[UIConfig]()},
	}

	for _, tt := range tests {
		t.Run(tt.def, func(t *testing.T) {
			if diff := cmp.Diff(cueFields(t, tt.def), jsonFields(t, tt.typ)); diff != "" {
				t.Errorf("%s and %s are out of sync (-cue +go):\n%s", tt.def, tt.typ.Name(), diff)
			}
		})
	}
}

// Entries are normalized before decoding: the file's `run` becomes `script` or `argv`.
func TestSchemaSync_Entry(t *testing.T) {
	fields := cueFields(t, "#Entry")
	var mapped []string
	for _, f := range fields {
		if f == "run" {
			mapped = append(mapped, "argv", "script")
			continue
		}
		mapped = append(mapped, f)
	}
	sort.Strings(mapped)

	if diff := cmp.Diff(mapped, jsonFields(t, reflect.TypeFor[EntryConfig]())); diff != "" {
		t.Errorf("#Entry and EntryConfig are out of sync (-cue +go):\n%s", diff)
	}
}
