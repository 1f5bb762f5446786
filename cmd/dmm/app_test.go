// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dmmrun/dmm/internal/config"
	"github.com/dmmrun/dmm/internal/testutil"
)

type staticConfig struct {
	cfg *config.Config
	err error
}

func (s staticConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	return s.cfg, s.err
}

// execute runs the command tree with args and returns what it wrote.
func execute(t *testing.T, deps Dependencies, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	deps.Stdin = strings.NewReader("")
	deps.Stdout = &out
	deps.Stderr = &errOut

	rootCmd := newRootCommand(NewApp(deps))
	rootCmd.SetArgs(append([]string{"--color", "never"}, args...))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	err = rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// writeConfig writes a CUE config with two entries, discovery off, and extra.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.cue")
	testutil.MustWriteFile(t, path, `
path: enabled: false
entries: ["alpha", {name: "beta", run: "echo hi"}]
`+extra, 0o644)
	return path
}

func TestLaunch_DryRun(t *testing.T) {
	tests := []struct {
		name   string
		extra  string
		args   []string
		stdout string
	}{
		{
			name:   "last line",
			extra:  `selector: {command: "tail", args: ["-n", "1"]}`,
			stdout: "shell: echo hi\n",
		},
		{
			name:   "every line",
			extra:  `selector: command: "cat"`,
			stdout: "shell: alpha\nshell: echo hi\n",
		},
		{
			name:   "bare when shell is disabled",
			extra:  `selector: {command: "head", args: ["-n", "1"]}` + "\n" + `shell: mode: "disabled"`,
			stdout: "bare: alpha\n",
		},
		{
			name:   "selector flag replaces configured command",
			extra:  `selector: command: "dmm-test-not-used"`,
			args:   []string{"--selector", "head -n 1"},
			stdout: "shell: alpha\n",
		},
		{
			name:   "decimal tags",
			extra:  `selector: command: "cat"` + "\n" + `tags: {scheme: "decimal", separator: ":"}`,
			stdout: "shell: alpha\nshell: echo hi\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.extra)
			args := append([]string{"--config", path, "--dry-run"}, tt.args...)

			stdout, stderr, err := execute(t, Dependencies{}, args...)
			if err != nil {
				t.Fatalf("Launch() error = %v\nstderr:\n%s", err, stderr)
			}
			if diff := cmp.Diff(tt.stdout, stdout); diff != "" {
				t.Errorf("stdout mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLaunch_AdHoc(t *testing.T) {
	selector := `selector: {command: "sh", args: ["-c", "cat >/dev/null; echo 'ls -la'"]}`

	t.Run("rejected by default", func(t *testing.T) {
		stdout, stderr, err := execute(t, Dependencies{}, "--config", writeConfig(t, selector), "--dry-run")
		if err != nil {
			t.Fatalf("Launch() error = %v", err)
		}
		if stdout != "" {
			t.Errorf("stdout = %q, want nothing dispatched", stdout)
		}
		if !strings.Contains(stderr, "warning: can't run `ls -la`") {
			t.Errorf("stderr missing ad-hoc warning:\n%s", stderr)
		}
	})

	t.Run("enabled", func(t *testing.T) {
		path := writeConfig(t, selector+"\nadhoc: true")
		stdout, _, err := execute(t, Dependencies{}, "--config", path, "--dry-run")
		if err != nil {
			t.Fatalf("Launch() error = %v", err)
		}
		if stdout != "shell: ls -la\n" {
			t.Errorf("stdout = %q, want %q", stdout, "shell: ls -la\n")
		}
	})
}

func TestLaunch_DismissedSelector(t *testing.T) {
	path := writeConfig(t, `selector: {command: "sh", args: ["-c", "cat >/dev/null; exit 1"]}`)

	stdout, stderr, err := execute(t, Dependencies{}, "--config", path, "--dry-run")
	if err != nil {
		t.Fatalf("Launch() error = %v", err)
	}
	if stdout != "" || stderr != "" {
		t.Errorf("expected no output, got stdout=%q stderr=%q", stdout, stderr)
	}
}

func TestLaunch_Failures(t *testing.T) {
	tests := []struct {
		name   string
		deps   Dependencies
		args   []string
		stderr string
	}{
		{
			name:   "missing selector",
			args:   []string{"--config", writeConfig(t, `selector: command: "dmm-test-no-such-selector"`)},
			stderr: "error: failed to run command `dmm-test-no-such-selector`",
		},
		{
			name:   "missing config file",
			args:   []string{"--config", filepath.Join(t.TempDir(), "nope.cue")},
			stderr: "error: failed to load configuration",
		},
		{
			name:   "invalid config file",
			args:   []string{"--config", writeConfig(t, `tags: scheme: "octal"`)},
			stderr: "error: failed to load configuration",
		},
		{
			name:   "invalid color flag",
			args:   []string{"--color", "purple"},
			stderr: "invalid color mode",
		},
		{
			name:   "provider error",
			deps:   Dependencies{Config: staticConfig{err: errors.New("boom")}},
			stderr: "error: boom",
		},
		{
			name:   "empty selector flag",
			deps:   Dependencies{Config: staticConfig{cfg: config.DefaultConfig()}},
			args:   []string{"--selector", "  "},
			stderr: "selector command is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, err := execute(t, tt.deps, tt.args...)

			var exitErr *ExitError
			if !errors.As(err, &exitErr) {
				t.Fatalf("Launch() error = %v, want *ExitError", err)
			}
			if exitErr.Code != 1 {
				t.Errorf("exit code = %d, want 1", exitErr.Code)
			}
			if !strings.Contains(stderr, tt.stderr) {
				t.Errorf("stderr missing %q:\n%s", tt.stderr, stderr)
			}
		})
	}
}

func TestList(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Entries = []config.EntryConfig{
		{Name: "beta", Script: "echo hi"},
		{Name: "alpha", Argv: []string{"touch", "a b"}, Group: 1},
		{Name: "secret", Hidden: true},
	}
	deps := Dependencies{Config: staticConfig{cfg: cfg}}

	t.Run("names", func(t *testing.T) {
		stdout, _, err := execute(t, deps, "list", "--names")
		if err != nil {
			t.Fatalf("list error = %v", err)
		}
		if diff := cmp.Diff("alpha\nbeta\n", stdout); diff != "" {
			t.Errorf("stdout mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("details", func(t *testing.T) {
		stdout, _, err := execute(t, deps, "list")
		if err != nil {
			t.Fatalf("list error = %v", err)
		}
		lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
		if len(lines) != 2 {
			t.Fatalf("got %d lines, want 2:\n%s", len(lines), stdout)
		}
		if !strings.Contains(lines[0], "alpha") || !strings.Contains(lines[0], "bare: touch 'a b'") {
			t.Errorf("line 0 = %q", lines[0])
		}
		if !strings.Contains(lines[1], "beta") || !strings.Contains(lines[1], "shell: echo hi") {
			t.Errorf("line 1 = %q", lines[1])
		}
	})

	t.Run("empty", func(t *testing.T) {
		stdout, _, err := execute(t, Dependencies{Config: staticConfig{cfg: config.DefaultConfig()}}, "list")
		if err != nil {
			t.Fatalf("list error = %v", err)
		}
		if !strings.Contains(stdout, "(no entries)") {
			t.Errorf("stdout = %q", stdout)
		}
	})
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	config.SetConfigDirOverride(dir)
	t.Cleanup(config.Reset)

	t.Run("path before init", func(t *testing.T) {
		stdout, _, err := execute(t, Dependencies{}, "config", "path")
		if err != nil {
			t.Fatalf("config path error = %v", err)
		}
		if !strings.HasPrefix(stdout, filepath.Join(dir, "config.cue")) || !strings.Contains(stdout, "not created") {
			t.Errorf("stdout = %q", stdout)
		}
	})

	t.Run("init", func(t *testing.T) {
		stdout, _, err := execute(t, Dependencies{}, "config", "init")
		if err != nil {
			t.Fatalf("config init error = %v", err)
		}
		if !strings.Contains(stdout, "Created config file:") {
			t.Errorf("stdout = %q", stdout)
		}

		stdout, _, err = execute(t, Dependencies{}, "config", "init")
		if err != nil {
			t.Fatalf("second config init error = %v", err)
		}
		if !strings.Contains(stdout, "already exists") {
			t.Errorf("stdout = %q", stdout)
		}
	})

	t.Run("path after init", func(t *testing.T) {
		stdout, _, err := execute(t, Dependencies{}, "config", "path")
		if err != nil {
			t.Fatalf("config path error = %v", err)
		}
		if want := filepath.Join(dir, "config.cue") + "\n"; stdout != want {
			t.Errorf("stdout = %q, want %q", stdout, want)
		}
	})

	t.Run("show explicit file", func(t *testing.T) {
		stdout, _, err := execute(t, Dependencies{}, "--config", writeConfig(t, ""), "config", "show")
		if err != nil {
			t.Fatalf("config show error = %v", err)
		}
		for _, want := range []string{`scheme: "binary"`, `{name: "beta", run: "echo hi"}`} {
			if !strings.Contains(stdout, want) {
				t.Errorf("config show missing %q:\n%s", want, stdout)
			}
		}
	})

	t.Run("doc raw", func(t *testing.T) {
		stdout, _, err := execute(t, Dependencies{}, "config", "doc", "--raw")
		if err != nil {
			t.Fatalf("config doc error = %v", err)
		}
		for _, want := range []string{"# dmm configuration", "`selector.command`", "#Config"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("config doc missing %q", want)
			}
		}
	})

	t.Run("doc rendered", func(t *testing.T) {
		stdout, _, err := execute(t, Dependencies{}, "config", "doc")
		if err != nil {
			t.Fatalf("config doc error = %v", err)
		}
		if !strings.Contains(stdout, "dmm configuration") {
			t.Errorf("rendered doc missing title")
		}
	})
}
