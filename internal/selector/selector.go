// SPDX-License-Identifier: MPL-2.0

package selector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/conc/pool"

	"github.com/dmmrun/dmm/internal/issue"
)

// ErrInvalidOutput is returned when the selector prints bytes that are not UTF-8.
var ErrInvalidOutput = errors.New("selector output is not valid UTF-8")

// Bridge describes how to invoke the selector.
type Bridge struct {
	// Command is the selector program.
	Command string
	// Args are passed to Command verbatim.
	Args []string
	// Stderr receives the selector's stderr. Defaults to os.Stderr.
	Stderr io.Writer
	// Logger receives debug output. May be nil.
	Logger *log.Logger
}

// Run starts the selector, feeds it menu and returns everything it printed.
// A non-zero exit status is not an error: most selectors exit 1 when the user
// dismisses them. Cancelling ctx kills the selector.
func (b *Bridge) Run(ctx context.Context, menu io.Reader) (string, error) {
	logger := b.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	cmd := exec.CommandContext(ctx, b.Command, b.Args...)
	cmd.Stderr = b.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return "", fmt.Errorf("open selector stdin: %w", err)
	}

	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("run selector: %w", ctxErr)
		}
		return "", issue.NewErrorContext().
			WithOperation("run command").
			WithResource(b.Command).
			WithSuggestion("is it installed?").
			Wrap(err).
			BuildError()
	}
	logger.Debug("selector started", "command", b.Command, "args", b.Args, "pid", cmd.Process.Pid)

	writer := pool.New().WithErrors()
	writer.Go(func() error {
		defer stdin.Close()
		n, err := io.Copy(stdin, menu)
		logger.Debug("menu written", "bytes", n)
		if err != nil && !isClosedPipe(err) {
			return fmt.Errorf("write menu to selector: %w", err)
		}
		return nil
	})

	waitErr := cmd.Wait()
	// Wait re-panics if the writer panicked.
	writeErr := writer.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", fmt.Errorf("run selector: %w", ctxErr)
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return "", fmt.Errorf("wait for selector: %w", waitErr)
		}
		logger.Debug("selector exited", "code", exitErr.ExitCode())
	}
	if writeErr != nil {
		return "", writeErr
	}

	out := stdout.Bytes()
	if !utf8.Valid(out) {
		return "", ErrInvalidOutput
	}
	return string(out), nil
}

// isClosedPipe reports whether err means the selector stopped reading, which
// happens whenever it exits before consuming the whole menu.
func isClosedPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, os.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe)
}
