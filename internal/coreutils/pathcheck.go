// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"context"
	"fmt"

	"github.com/bindlebinaries/securecoreutils/internal/issue"
	"github.com/bindlebinaries/securecoreutils/internal/pathguard"
	"github.com/bindlebinaries/securecoreutils/internal/widget"
)

// verdictIssues maps every rejection to its catalog entry.
var verdictIssues = map[pathguard.Code]issue.Id{
	pathguard.NotAbsolute:       issue.NotAbsoluteId,
	pathguard.TrailingSeparator: issue.TrailingSeparatorId,
	pathguard.IllegalPattern:    issue.IllegalPatternId,
	pathguard.WrongType:         issue.WrongTypeId,
	pathguard.SymlinkInPath:     issue.SymlinkInPathId,
	pathguard.NotFound:          issue.NotFoundId,
	pathguard.SystemError:       issue.SystemErrorId,
}

// pathcheckCommand reports whether a path passes validation without
// operating on it.
type pathcheckCommand struct {
	baseCommand
}

func newPathcheckCommand(s *Suite) *pathcheckCommand {
	return &pathcheckCommand{baseCommand{
		suite:       s,
		name:        "pathcheck",
		aliases:     []string{"secpath"},
		description: "Checks a path against the restrictions",
		synopsis:    "[OPTIONS] path",
	}}
}

// Descriptor returns the catalog entry for pathcheck.
func (c *pathcheckCommand) Descriptor() widget.Descriptor { return c.descriptor(c.Run) }

// Run executes the pathcheck widget. It succeeds silently for an accepted path.
func (c *pathcheckCommand) Run(_ context.Context, inv *widget.Invocation) error {
	flags, cf := newFlagSet(inv)
	directory := flags.BoolP("directory", "d", false, "expect a directory instead of a regular file")
	explain := flags.Bool("explain", false, "describe why a rejected path was refused")
	path, done, err := parseOperand(inv, flags, cf)
	if err != nil || done {
		return err
	}

	kind := pathguard.RegularFile
	if *directory {
		kind = pathguard.Directory
	}

	v, err := c.suite.validate(path, kind, false)
	if err != nil {
		return wrapError(c.name, err)
	}
	if v.OK() {
		inv.Logger.Info("path accepted", "path", quote(path), "kind", kind)
		return nil
	}

	if *explain {
		if err := c.explain(inv, v); err != nil {
			return wrapError(c.name, err)
		}
	}
	return wrapError(c.name, v.Err())
}

func (c *pathcheckCommand) explain(inv *widget.Invocation, v pathguard.Verdict) error {
	is := issue.Get(verdictIssues[v.Code])
	if is == nil {
		return fmt.Errorf("no explanation for %s", v.Code)
	}

	style := "notty"
	if isTerminal(inv.Stdout) {
		style = "dark"
	}
	out, err := is.Render(style)
	if err != nil {
		return fmt.Errorf("render explanation: %w", err)
	}
	_, err = fmt.Fprint(inv.Stdout, out)
	return err
}
