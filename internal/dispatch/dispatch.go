// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dmmrun/dmm/internal/entry"
	"github.com/dmmrun/dmm/internal/issue"
)

// defaultWriteTimeout is how long piped mode waits for the interpreter to accept
// the script.
const defaultWriteTimeout = 5 * time.Second

type (
	// Dispatcher starts actions according to a Policy.
	Dispatcher struct {
		policy Policy
		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer
		logger *log.Logger
		// dryRun, when non-nil, receives a description of each action instead of
		// starting it.
		dryRun io.Writer
		start  func(*exec.Cmd) error
		// writeTimeout bounds the script write in piped mode.
		writeTimeout time.Duration
	}

	// Option configures a Dispatcher.
	Option func(*Dispatcher)
)

// WithStdio sets the streams inherited by launched programs. A nil stream is
// connected to the null device.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(d *Dispatcher) {
		d.stdin = stdin
		d.stdout = stdout
		d.stderr = stderr
	}
}

// WithLogger sets the debug logger.
func WithLogger(logger *log.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithDryRun prints actions to w instead of running them.
func WithDryRun(w io.Writer) Option {
	return func(d *Dispatcher) { d.dryRun = w }
}

// New creates a dispatcher that inherits the launcher's stdio.
func New(policy Policy, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		policy: policy,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		logger: log.New(io.Discard),
		start:  (*exec.Cmd).Start,

		writeTimeout: defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch starts every run in order and returns the warnings collected on the way.
// Cancelling ctx stops dispatching the remaining runs; programs already started
// keep running.
func (d *Dispatcher) Dispatch(ctx context.Context, runs []entry.Run) []issue.Diagnostic {
	var diags []issue.Diagnostic
	for _, run := range runs {
		if ctx.Err() != nil {
			d.logger.Debug("dispatch cancelled", "remaining", len(runs))
			break
		}
		if diag, ok := d.dispatch(run); !ok {
			diags = append(diags, diag)
		}
	}
	return diags
}

func (d *Dispatcher) dispatch(run entry.Run) (issue.Diagnostic, bool) {
	if run.IsEmpty() {
		return issue.Diagnostic{}, true
	}

	if run.Kind == entry.RunShell && !d.policy.ShellEnabled() {
		return issue.Warn(
			issue.CodeShellDisabled,
			fmt.Sprintf("can't run shell command `%s`", run.Script),
			ErrShellDisabled,
		), false
	}

	if d.dryRun != nil {
		fmt.Fprintf(d.dryRun, "%s: %s\n", run.Kind, run)
		return issue.Diagnostic{}, true
	}

	var err error
	switch {
	case run.Kind == entry.RunBare:
		err = d.spawn(run.Argv, nil)
	case d.policy.Mode == ModePiped:
		err = d.spawn(d.policy.interpreter(), &run.Script)
	default:
		argv := append(slices.Clone(d.policy.interpreter()), run.Script)
		err = d.spawn(argv, nil)
	}
	if err != nil {
		return issue.Warn(
			issue.CodeSpawnFailed,
			fmt.Sprintf("couldn't run %s command `%s`", run.Kind, run),
			err,
		), false
	}
	return issue.Diagnostic{}, true
}

// spawn starts argv detached. When script is non-nil it is written to the child's
// stdin, which is then closed. The write gives up after d.writeTimeout so an
// interpreter that never reads stdin cannot stall the remaining runs.
func (d *Dispatcher) spawn(argv []string, script *string) error {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = d.stdout
	cmd.Stderr = d.stderr
	detach(cmd)

	var pr, pw *os.File
	if script != nil {
		var err error
		if pr, pw, err = os.Pipe(); err != nil {
			return fmt.Errorf("create stdin pipe: %w", err)
		}
		cmd.Stdin = pr
	} else {
		cmd.Stdin = d.stdin
	}

	err := d.start(cmd)
	if pr != nil {
		_ = pr.Close()
	}
	if err != nil {
		if pw != nil {
			_ = pw.Close()
		}
		return err
	}
	pid := cmd.Process.Pid
	d.logger.Debug("started", "argv", argv, "pid", pid)

	var writeErr error
	if pw != nil {
		writeErr = d.writeScript(pw, argv[0], *script)
	}

	if err := cmd.Process.Release(); err != nil {
		d.logger.Debug("release failed", "pid", pid, "error", err)
	}
	return writeErr
}

func (d *Dispatcher) writeScript(w *os.File, program, script string) error {
	// Pipes without deadline support (Windows) fall back to a blocking write.
	_ = w.SetWriteDeadline(time.Now().Add(d.writeTimeout))

	var writeErr error
	if _, err := io.WriteString(w, script); err != nil {
		writeErr = fmt.Errorf("write script to %s: %w", program, err)
	}
	if err := w.Close(); err != nil && writeErr == nil {
		writeErr = fmt.Errorf("close %s stdin: %w", program, err)
	}
	return writeErr
}
