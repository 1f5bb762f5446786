// SPDX-License-Identifier: MPL-2.0

package entry

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseBare(t *testing.T) {
	tests := []struct {
		name    string
		cmdline string
		want    []string
		wantErr bool
	}{
		{name: "single word", cmdline: "firefox", want: []string{"firefox"}},
		{name: "arguments", cmdline: "ls -la /tmp", want: []string{"ls", "-la", "/tmp"}},
		{name: "quoted argument", cmdline: `notify-send "hello world"`, want: []string{"notify-send", "hello world"}},
		{name: "single quotes", cmdline: `echo 'a  b'`, want: []string{"echo", "a  b"}},
		{name: "unterminated quote", cmdline: `echo "oops`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBare(tt.cmdline)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBare(%q) error = %v, wantErr %v", tt.cmdline, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.Kind != RunBare {
				t.Errorf("Kind = %v, want bare", got.Kind)
			}
			if diff := cmp.Diff(tt.want, got.Argv); diff != "" {
				t.Errorf("Argv mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRun_String(t *testing.T) {
	tests := []struct {
		name string
		run  Run
		want string
	}{
		{name: "shell script verbatim", run: Shell("echo $HOME | wc -c"), want: "echo $HOME | wc -c"},
		{name: "plain argv", run: Bare("ls", "-la"), want: "ls -la"},
		{name: "argv with space is quoted", run: Bare("touch", "a b"), want: "touch 'a b'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.run.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRun_IsEmpty(t *testing.T) {
	if !Bare().IsEmpty() {
		t.Error("Bare() should be empty")
	}
	if !Shell("").IsEmpty() {
		t.Error(`Shell("") should be empty`)
	}
	if Bare("x").IsEmpty() || Shell("x").IsEmpty() {
		t.Error("non-empty runs reported empty")
	}
}

func TestRunKind_String(t *testing.T) {
	if RunBare.String() != "bare" || RunShell.String() != "shell" {
		t.Errorf("unexpected kind names %q %q", RunBare, RunShell)
	}
}
