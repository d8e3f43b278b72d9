// SPDX-License-Identifier: MPL-2.0

package widget

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

var (
	// ErrAlreadyBound is returned when an invocation is bound a second time.
	ErrAlreadyBound = errors.New("invocation already bound to a widget")
	// ErrNotBound is returned when an unbound invocation is run.
	ErrNotBound = errors.New("invocation is not bound to a widget")
	// ErrUsage is the sentinel wrapped by UsageError.
	ErrUsage = errors.New("usage error")
)

type (
	// Invocation is the per-run state handed to a widget.
	// Quiet and Verbosity accumulate: the binary's own options set them
	// first and the widget's options add to them.
	Invocation struct {
		// Program is the multi-call binary name used in messages.
		Program string
		// Version is the version string printed for -V.
		Version string
		// Args starts with the name the widget was invoked by.
		Args []string
		// Options is the option summary shown after the widget name in usage.
		Options string
		// Quiet suppresses informational output.
		Quiet bool
		// Verbosity is the number of -v options seen.
		Verbosity int

		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
		Logger *log.Logger

		widget *Descriptor
	}

	// UsageError reports a malformed command line. It carries a hint that
	// points at the relevant help.
	UsageError struct {
		Program string
		Widget  string
		Msg     string
	}
)

// Bind attaches the resolved widget. An invocation is bound at most once.
func (inv *Invocation) Bind(d *Descriptor) error {
	if inv.widget != nil {
		return ErrAlreadyBound
	}
	if d == nil || !d.Invokable() {
		return fmt.Errorf("widget: cannot bind placeholder %q", nameOf(d))
	}
	inv.widget = d
	return nil
}

// Widget returns the bound widget, or nil before Bind.
func (inv *Invocation) Widget() *Descriptor { return inv.widget }

// Run runs the bound widget.
func (inv *Invocation) Run(ctx context.Context) error {
	if inv.widget == nil {
		return ErrNotBound
	}
	return inv.widget.Entry(ctx, inv)
}

// LogLevel maps the quiet and verbose options to a log level.
func (inv *Invocation) LogLevel() log.Level {
	switch {
	case inv.Quiet:
		return log.ErrorLevel
	case inv.Verbosity >= 2:
		return log.DebugLevel
	case inv.Verbosity == 1:
		return log.InfoLevel
	default:
		return log.WarnLevel
	}
}

// Usagef returns a UsageError for the bound widget, or for the binary itself
// before Bind.
func (inv *Invocation) Usagef(format string, args ...any) error {
	return &UsageError{
		Program: inv.Program,
		Widget:  nameOf(inv.widget),
		Msg:     fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *UsageError) Error() string {
	if e.Widget == "" {
		return e.Msg
	}
	return e.Widget + ": " + e.Msg
}

// Unwrap returns ErrUsage so callers can use errors.Is for programmatic detection.
func (e *UsageError) Unwrap() error { return ErrUsage }

// Hint returns the line that tells the user where to find help.
func (e *UsageError) Hint() string {
	if e.Widget == "" {
		return fmt.Sprintf("Try `%s --help' for more information.", e.Program)
	}
	return fmt.Sprintf("Try `%s %s --help' for more information.", e.Program, e.Widget)
}

func nameOf(d *Descriptor) string {
	if d == nil {
		return ""
	}
	return d.Name
}
