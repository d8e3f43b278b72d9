// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bindlebinaries/securecoreutils/internal/pathguard"
	"github.com/bindlebinaries/securecoreutils/internal/widget"
)

// touchCommand creates a file or updates the timestamps of a file or directory.
type touchCommand struct {
	baseCommand
}

func newTouchCommand(s *Suite) *touchCommand {
	return &touchCommand{baseCommand{
		suite:       s,
		name:        "touch",
		aliases:     []string{"sectouch"},
		description: "Changes file timestamps, creating the file if needed",
		synopsis:    "[OPTIONS] file",
	}}
}

// Descriptor returns the catalog entry for touch.
func (c *touchCommand) Descriptor() widget.Descriptor { return c.descriptor(c.Run) }

// Run executes the touch widget.
func (c *touchCommand) Run(_ context.Context, inv *widget.Invocation) error {
	flags, cf := newFlagSet(inv)
	accessOnly := flags.BoolP("access", "a", false, "change only the access time")
	modifyOnly := flags.BoolP("modify", "m", false, "change only the modification time")
	noCreate := flags.BoolP("no-create", "c", false, "do not create the file")
	flags.BoolP("force", "f", false, "ignored")
	reference := flags.StringP("reference", "r", "", "use the times of `file` instead of the current time")
	stamp := flags.StringP("time", "t", "", "use `[[CC]YY]MMDDhhmm[.ss]` instead of the current time")
	path, done, err := parseOperand(inv, flags, cf)
	if err != nil || done {
		return err
	}
	if *reference != "" && *stamp != "" {
		return inv.Usagef("options `-r' and `-t' are mutually exclusive")
	}

	now := c.suite.now()
	atime, mtime := now, now
	switch {
	case *stamp != "":
		t, err := parseTimestamp(*stamp, now)
		if err != nil {
			return inv.Usagef("%v", err)
		}
		atime, mtime = t, t
	case *reference != "":
		v, err := c.suite.validate(*reference, pathguard.RegularFile, false)
		if err != nil {
			return wrapError(c.name, err)
		}
		if !v.OK() {
			return wrapError(c.name, v.Err())
		}
		atime, mtime = accessTime(v.Info), v.Info.ModTime()
	}

	v, err := c.validateTarget(path)
	if err != nil {
		return wrapError(c.name, err)
	}

	if v.Info == nil {
		if *noCreate {
			inv.Logger.Debug("not creating", "path", quote(path))
			return nil
		}
		inv.Logger.Info("creating", "path", quote(path))
		if err := c.create(path); err != nil {
			return wrapError(c.name, err)
		}
	} else {
		// Only one time changes; the other keeps its current value.
		if *accessOnly && !*modifyOnly {
			mtime = v.Info.ModTime()
		}
		if *modifyOnly && !*accessOnly {
			atime = accessTime(v.Info)
		}
	}

	inv.Logger.Debug("setting times", "path", quote(path), "atime", atime, "mtime", mtime)
	return wrapError(c.name, c.suite.ops.Chtimes(path, atime, mtime))
}

// validateTarget accepts a regular file, a directory, or a missing leaf
// whose parent is itself an acceptable directory.
func (c *touchCommand) validateTarget(path string) (pathguard.Verdict, error) {
	v, err := c.suite.validate(path, pathguard.RegularFile, true)
	if err != nil {
		return v, err
	}
	if v.OK() && v.Info == nil {
		parent, err := c.suite.validate(filepath.Dir(path), pathguard.Directory, false)
		if err != nil {
			return v, err
		}
		if parent.Code == pathguard.WrongType && parent.Info != nil && parent.Info.Mode()&fs.ModeSymlink != 0 {
			// The parent is an ancestor of path, so report it as one.
			v = pathguard.Verdict{Path: path, Code: pathguard.SymlinkInPath}
			return v, v.Err()
		}
		return v, parent.Err()
	}
	if v.Code == pathguard.WrongType {
		if dir, err := c.suite.validate(path, pathguard.Directory, true); err == nil && dir.OK() {
			return dir, nil
		}
	}
	return v, v.Err()
}

// create makes an empty file. It fails rather than follow a symlink planted
// at the leaf after validation.
func (c *touchCommand) create(path string) error {
	f, err := c.suite.ops.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0o666)
	if err != nil {
		return err
	}
	return f.Close()
}
