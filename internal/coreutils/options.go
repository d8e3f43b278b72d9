// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bindlebinaries/securecoreutils/internal/pathguard"
	"github.com/bindlebinaries/securecoreutils/internal/widget"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"mvdan.cc/sh/v3/syntax"
)

// commonFlags are the options every widget accepts.
type commonFlags struct {
	help    bool
	version bool
	quiet   bool
	verbose int
}

// newFlagSet returns a flag set holding the common options. Widgets add
// their own options before calling parseOperand. Parsing stops at the first
// operand, so a path that begins with "-" can follow "--".
func newFlagSet(inv *widget.Invocation) (*pflag.FlagSet, *commonFlags) {
	fs := pflag.NewFlagSet(inv.Widget().Name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SetInterspersed(false)
	fs.SortFlags = false

	cf := &commonFlags{}
	fs.BoolVarP(&cf.help, "help", "h", false, "print this help and exit")
	fs.BoolVarP(&cf.quiet, "quiet", "q", false, "suppress informational messages")
	fs.BoolVar(&cf.quiet, "silent", false, "same as --quiet")
	_ = fs.MarkHidden("silent")
	fs.BoolVarP(&cf.version, "version", "V", false, "print version and exit")
	fs.CountVarP(&cf.verbose, "verbose", "v", "print verbose messages, repeat for more")
	return fs, cf
}

// parseOperand parses the widget command line and returns its single path
// operand. done reports that -h or -V was handled and the widget should exit
// successfully without doing anything else.
func parseOperand(inv *widget.Invocation, fs *pflag.FlagSet, cf *commonFlags) (operand string, done bool, err error) {
	if inv.Logger == nil {
		inv.Logger = log.New(io.Discard)
	}
	if err := fs.Parse(inv.Args[1:]); err != nil {
		return "", false, inv.Usagef("%v", err)
	}

	inv.Quiet = inv.Quiet || cf.quiet
	inv.Verbosity += cf.verbose
	if inv.Quiet && inv.Verbosity > 0 {
		return "", false, inv.Usagef("options `--quiet' and `--verbose' are mutually exclusive")
	}
	inv.Logger.SetLevel(inv.LogLevel())

	switch {
	case cf.help:
		printUsage(inv, fs)
		return "", true, nil
	case cf.version:
		fmt.Fprintf(inv.Stdout, "%s widget\n%s\n", inv.Widget().Name, inv.Version)
		return "", true, nil
	}

	switch args := fs.Args(); len(args) {
	case 0:
		return "", false, inv.Usagef("missing required argument")
	case 1:
		return args[0], false, nil
	default:
		return "", false, inv.Usagef("unrecognized argument `-- %s'", args[1])
	}
}

// printUsage writes the widget help: every name it answers to, its options
// and the path restrictions.
func printUsage(inv *widget.Invocation, fs *pflag.FlagSet) {
	d := inv.Widget()
	var sb strings.Builder

	fmt.Fprintf(&sb, "Usage: %s %s %s\n", inv.Program, d.Name, inv.Options)
	for _, name := range d.Names() {
		fmt.Fprintf(&sb, "       %s %s\n", name, inv.Options)
	}
	if d.Description != "" {
		fmt.Fprintf(&sb, "\n%s.\n", d.Description)
	}
	sb.WriteString("\nOPTIONS:\n")
	sb.WriteString(fs.FlagUsages())
	sb.WriteString("\nRESTRICTIONS:\n")
	for _, r := range pathguard.Restrictions {
		sb.WriteString("   " + r + "\n")
	}

	io.WriteString(inv.Stdout, sb.String())
}

// wrapError prefixes err with the widget name. Returns nil if err is nil.
func wrapError(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

// quote renders path the way a shell user would type it, so prompts and
// log lines are unambiguous for names with spaces or control characters.
func quote(path string) string {
	q, err := syntax.Quote(path, syntax.LangBash)
	if err != nil {
		return strconv.Quote(path)
	}
	return q
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
