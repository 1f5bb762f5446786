// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	// ColorAuto colors output when stderr is a terminal and NO_COLOR is unset.
	ColorAuto ColorMode = "auto"
	// ColorAlways forces colored output.
	ColorAlways ColorMode = "always"
	// ColorNever disables colored output.
	ColorNever ColorMode = "never"
)

// ErrInvalidColorMode is the sentinel error wrapped by InvalidColorModeError.
var ErrInvalidColorMode = errors.New("invalid color mode")

type (
	// ColorMode controls whether the reporter emits ANSI styling.
	ColorMode string

	// InvalidColorModeError is returned when a ColorMode value is not recognized.
	InvalidColorModeError struct {
		Value ColorMode
	}

	// Reporter renders fatal errors and warnings to a stream, one header line
	// followed by the causal chain:
	//
	//	warning: can't run `ls -la`
	//	  - ad-hoc commands are disabled; consider setting `adhoc: true`
	Reporter struct {
		w          io.Writer
		errorStyle lipgloss.Style
		warnStyle  lipgloss.Style
		hintStyle  lipgloss.Style
	}
)

// String returns the string representation of the ColorMode.
func (m ColorMode) String() string { return string(m) }

// IsValid returns whether the ColorMode is one of the defined modes,
// and a list of validation errors if it is not.
func (m ColorMode) IsValid() (bool, []error) {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true, nil
	default:
		return false, []error{&InvalidColorModeError{Value: m}}
	}
}

// Error implements the error interface for InvalidColorModeError.
func (e *InvalidColorModeError) Error() string {
	return fmt.Sprintf("invalid color mode %q (valid: auto, always, never)", e.Value)
}

// Unwrap returns ErrInvalidColorMode for errors.Is() compatibility.
func (e *InvalidColorModeError) Unwrap() error { return ErrInvalidColorMode }

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer, mode ColorMode) *Reporter {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	case ColorAlways:
		r.SetColorProfile(termenv.ANSI256)
	default:
		if !wantsColor(w) {
			r.SetColorProfile(termenv.Ascii)
		}
	}

	return &Reporter{
		w:          w,
		errorStyle: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
		warnStyle:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B")),
		hintStyle:  r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	}
}

// Error reports a fatal error with its chain and any suggestions.
func (r *Reporter) Error(err error) {
	if err == nil {
		return
	}
	r.report(r.errorStyle, "error:", err)
}

// Diagnostics reports every diagnostic in order.
func (r *Reporter) Diagnostics(diags []Diagnostic) {
	for _, d := range diags {
		style, header := r.warnStyle, "warning:"
		if d.Severity == SeverityError {
			style, header = r.errorStyle, "error:"
		}
		if d.Err == nil {
			_, _ = fmt.Fprintf(r.w, "%s %s\n\n", style.Render(header), d.Code)
			continue
		}
		r.report(style, header, d.Err)
	}
}

func (r *Reporter) report(style lipgloss.Style, header string, err error) {
	links := Chain(err)
	_, _ = fmt.Fprintf(r.w, "%s %s\n", style.Render(header), links[0])
	for _, cause := range links[1:] {
		_, _ = fmt.Fprintf(r.w, "%s %s\n", style.Render("  -"), cause)
	}

	var ae *ActionableError
	if errors.As(err, &ae) && ae.HasSuggestions() {
		for _, s := range ae.Suggestions {
			_, _ = fmt.Fprintf(r.w, "%s\n", r.hintStyle.Render("  • "+s))
		}
	}
	_, _ = fmt.Fprintln(r.w)
}

// Chain splits err into the messages of its individual links. Wrapping errors
// whose text ends with ": <cause>" (fmt.Errorf with %w, ActionableError, Context)
// contribute only their own prefix, so each line of the report says something new.
func Chain(err error) []string {
	var links []string
	for err != nil {
		next := errors.Unwrap(err)
		msg := err.Error()
		if next != nil {
			msg = strings.TrimSuffix(msg, ": "+next.Error())
		}
		if msg != "" {
			links = append(links, msg)
		}
		err = next
	}
	if len(links) == 0 {
		links = append(links, "unknown error")
	}
	return links
}

func wantsColor(w io.Writer) bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
