// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bindlebinaries/securecoreutils/internal/widget"

	"github.com/u-root/u-root/pkg/core/cat"
)

// textProbeLen is how many leading bytes must be printable for cat to
// print a file.
const textProbeLen = 8

// ErrBinaryFile is returned by cat for files that do not start with text.
var ErrBinaryFile = errors.New("binary file, try `zcat'")

// catCommand prints a text file, streaming it through the u-root cat
// implementation.
type catCommand struct {
	baseCommand
}

func newCatCommand(s *Suite) *catCommand {
	return &catCommand{baseCommand{
		suite:       s,
		name:        "cat",
		aliases:     []string{"seccat"},
		description: "Writes contents of a text file to standard output",
		synopsis:    "[OPTIONS] file",
	}}
}

// Descriptor returns the catalog entry for cat.
func (c *catCommand) Descriptor() widget.Descriptor { return c.descriptor(c.Run) }

// Run executes the cat widget.
func (c *catCommand) Run(ctx context.Context, inv *widget.Invocation) error {
	flags, cf := newFlagSet(inv)
	path, done, err := parseOperand(inv, flags, cf)
	if err != nil || done {
		return err
	}

	err = c.suite.withRegularFile(path, func(f *os.File) error {
		head := make([]byte, textProbeLen)
		n, err := io.ReadFull(f, head)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return err
		}
		head = head[:n]
		if !isText(head) {
			return fmt.Errorf("%s: %w", path, ErrBinaryFile)
		}
		inv.Logger.Debug("streaming file", "path", quote(path))

		// The sampled bytes are replayed ahead of the rest of the open
		// descriptor; cat never reopens the file by name.
		cmd := cat.New()
		cmd.SetIO(io.MultiReader(bytes.NewReader(head), f), inv.Stdout, inv.Stderr)
		cmd.SetWorkingDir("/")
		return cmd.RunContext(ctx)
	})
	return wrapError(c.name, err)
}

// isText reports whether every byte is printable ASCII or common whitespace.
func isText(b []byte) bool {
	for _, c := range b {
		switch {
		case c >= ' ' && c <= '~':
		case c == '\t', c == '\n', c == '\r':
		default:
			return false
		}
	}
	return true
}
