// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/bindlebinaries/securecoreutils/internal/coreutils"
	"github.com/bindlebinaries/securecoreutils/internal/issue"
	"github.com/bindlebinaries/securecoreutils/internal/widget"
)

// explainVerbosity is the verbosity at which failures are followed by their
// catalog explanation.
const explainVerbosity = 2

// unknownWidgetError is the usage error for a name that resolves to nothing.
type unknownWidgetError struct {
	*widget.UsageError
}

func (e *unknownWidgetError) Unwrap() error { return e.UsageError }

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// printUsageHint writes the help hint on its own line when err is a usage
// error, and nothing otherwise.
func printUsageHint(w io.Writer, err error) {
	var ue *widget.UsageError
	if errors.As(err, &ue) {
		fmt.Fprintln(w, styled(w, usageHintStyle, ue.Hint()))
	}
}

// reportError prints a failure the way alias mode shows it:
// "<program>: <message>", then the help hint for usage errors.
func reportError(w io.Writer, err error, verbosity int) {
	msg := programName + ": " + formatErrorForDisplay(err, verbosity > 0)
	fmt.Fprintln(w, styled(w, ErrorStyle, msg))
	printUsageHint(w, err)
}

// explain writes the catalog entry for err, if there is one.
func explain(w io.Writer, err error) {
	id, ok := issueFor(err)
	if !ok {
		return
	}
	is := issue.Get(id)
	if is == nil {
		return
	}

	style := "notty"
	if isTerminal(w) {
		style = "dark"
	}
	out, renderErr := is.Render(style)
	if renderErr != nil {
		return
	}
	fmt.Fprint(w, out)
}

func issueFor(err error) (issue.Id, bool) {
	var uwe *unknownWidgetError
	var ae *issue.ActionableError
	switch {
	case errors.As(err, &uwe):
		return issue.UnknownWidgetId, true
	case errors.As(err, &ae):
		return issue.ConfigLoadFailedId, true
	default:
		return coreutils.IssueFor(err)
	}
}
