// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"context"

	"github.com/bindlebinaries/securecoreutils/internal/pathguard"
	"github.com/bindlebinaries/securecoreutils/internal/widget"
)

// rmdirCommand removes a single empty directory.
type rmdirCommand struct {
	baseCommand
}

func newRmdirCommand(s *Suite) *rmdirCommand {
	return &rmdirCommand{baseCommand{
		suite:       s,
		name:        "rmdir",
		aliases:     []string{"secrmdir"},
		description: "Removes an empty directory",
		synopsis:    "[OPTIONS] directory",
	}}
}

// Descriptor returns the catalog entry for rmdir.
func (c *rmdirCommand) Descriptor() widget.Descriptor { return c.descriptor(c.Run) }

// Run executes the rmdir widget. A directory that does not exist is not an error.
func (c *rmdirCommand) Run(_ context.Context, inv *widget.Invocation) error {
	flags, cf := newFlagSet(inv)
	path, done, err := parseOperand(inv, flags, cf)
	if err != nil || done {
		return err
	}

	v, err := c.suite.validate(path, pathguard.Directory, false)
	if err != nil {
		return wrapError(c.name, err)
	}
	if v.Code == pathguard.NotFound {
		inv.Logger.Debug("nothing to remove", "path", quote(path))
		return nil
	}
	if !v.OK() {
		return wrapError(c.name, v.Err())
	}

	inv.Logger.Info("removing directory", "path", quote(path))
	return wrapError(c.name, c.suite.ops.Remove(path, pathguard.Directory))
}
