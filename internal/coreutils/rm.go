// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/bindlebinaries/securecoreutils/internal/pathguard"
	"github.com/bindlebinaries/securecoreutils/internal/widget"
)

// rmCommand removes a single regular file.
type rmCommand struct {
	baseCommand
	getuid func() int
}

func newRmCommand(s *Suite) *rmCommand {
	return &rmCommand{
		baseCommand: baseCommand{
			suite:       s,
			name:        "rm",
			aliases:     []string{"secrm"},
			description: "Removes a regular file",
			synopsis:    "[OPTIONS] file",
		},
		getuid: os.Getuid,
	}
}

// Descriptor returns the catalog entry for rm.
func (c *rmCommand) Descriptor() widget.Descriptor { return c.descriptor(c.Run) }

// Run executes the rm widget. A file that does not exist is not an error.
func (c *rmCommand) Run(_ context.Context, inv *widget.Invocation) error {
	flags, cf := newFlagSet(inv)
	force := flags.BoolP("force", "f", false, "never prompt")
	interactive := flags.BoolP("interactive", "i", c.suite.cfg.Rm.Interactive, "prompt before removal")
	path, done, err := parseOperand(inv, flags, cf)
	if err != nil || done {
		return err
	}

	v, err := c.suite.validate(path, pathguard.RegularFile, false)
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

	if !*force {
		prompt := ""
		switch {
		case isReadOnly(v.Info, c.getuid()):
			prompt = "remove read-only file"
		case *interactive:
			prompt = "remove file"
		}
		if prompt != "" && !c.confirm(inv, prompt, path) {
			inv.Logger.Info("skipped", "path", quote(path))
			return nil
		}
	}

	inv.Logger.Info("removing", "path", quote(path))
	return wrapError(c.name, c.suite.ops.Remove(path, pathguard.RegularFile))
}

// confirm asks on stderr and reads the answer from stdin. Only an answer
// starting with y or Y confirms.
func (c *rmCommand) confirm(inv *widget.Invocation, prompt, path string) bool {
	fmt.Fprintf(inv.Stderr, "%s: %s: %s %s? ", inv.Program, c.name, prompt, quote(path))
	answer, _ := bufio.NewReader(inv.Stdin).ReadString('\n')
	answer = strings.TrimSpace(answer)
	return answer != "" && (answer[0] == 'y' || answer[0] == 'Y')
}

// isReadOnly reports whether a non-root uid would be overriding protection:
// the owner write bit is clear, or the file belongs to someone else.
func isReadOnly(info fs.FileInfo, uid int) bool {
	if uid == 0 || info == nil {
		return false
	}
	if info.Mode().Perm()&0o200 == 0 {
		return true
	}
	owner, ok := fileOwner(info)
	return ok && owner != uid
}
