// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/bindlebinaries/securecoreutils/internal/widget"
)

// tailChunkSize is the block size used when scanning backwards for newlines.
const tailChunkSize = 4096

type (
	// tailCommand prints the end of a regular file.
	tailCommand struct {
		baseCommand
	}

	// tailSpec is what to print. -n and -c both write to it, so the last
	// option given wins.
	tailSpec struct {
		bytes     bool
		fromStart bool
		count     int64
	}

	// tailValue is the flag value behind -n (bytes false) and -c (bytes true).
	tailValue struct {
		spec  *tailSpec
		bytes bool
		text  string
	}
)

func newTailCommand(s *Suite) *tailCommand {
	return &tailCommand{baseCommand{
		suite:       s,
		name:        "tail",
		aliases:     []string{"sectail"},
		description: "Writes the last part of a file to standard output",
		synopsis:    "[OPTIONS] file",
	}}
}

// Descriptor returns the catalog entry for tail.
func (c *tailCommand) Descriptor() widget.Descriptor { return c.descriptor(c.Run) }

// Run executes the tail widget.
func (c *tailCommand) Run(ctx context.Context, inv *widget.Invocation) error {
	spec := &tailSpec{count: int64(c.suite.cfg.Tail.Lines)}

	flags, cf := newFlagSet(inv)
	flags.VarP(&tailValue{spec: spec}, "lines", "n", "print the last `[+-]N` lines; +N starts at line N")
	flags.VarP(&tailValue{spec: spec, bytes: true}, "bytes", "c", "print the last `[+-]N` bytes; +N starts at byte N")
	follow := flags.BoolP("follow", "f", false, "keep printing data appended to the file")
	path, done, err := parseOperand(inv, flags, cf)
	if err != nil || done {
		return err
	}

	err = c.suite.withRegularFile(path, func(f *os.File) error {
		info, err := f.Stat()
		if err != nil {
			return err
		}
		offset, err := spec.startOffset(f, info.Size())
		if err != nil {
			return err
		}
		inv.Logger.Debug("tailing", "path", quote(path), "offset", offset, "size", info.Size())

		if _, err := f.Seek(offset, io.SeekStart); err != nil {
			return err
		}
		if !spec.bytes && spec.fromStart {
			// Line positions from the start are found while streaming.
			err = copyFromLine(inv.Stdout, f, spec.count)
		} else {
			_, err = io.Copy(inv.Stdout, f)
		}
		if err != nil || !*follow {
			return err
		}
		return c.follow(ctx, inv, path, f)
	})
	return wrapError(c.name, err)
}

// startOffset returns the byte offset output begins at. For lines counted
// from the start it returns 0; copyFromLine does the skipping.
func (s *tailSpec) startOffset(r io.ReaderAt, size int64) (int64, error) {
	switch {
	case s.bytes && s.fromStart:
		return min(max(s.count-1, 0), size), nil
	case s.bytes:
		return max(size-s.count, 0), nil
	case s.fromStart:
		return 0, nil
	default:
		return lastLinesOffset(r, size, s.count)
	}
}

// lastLinesOffset scans backwards from the end of r and returns the offset
// of the first byte of the last n lines. An unterminated final line counts
// as a line.
func lastLinesOffset(r io.ReaderAt, size, n int64) (int64, error) {
	if n <= 0 || size == 0 {
		return size, nil
	}

	buf := make([]byte, tailChunkSize)
	var lines int64
	for end := size; end > 0; {
		start := max(end-tailChunkSize, 0)
		chunk := buf[:end-start]
		if _, err := r.ReadAt(chunk, start); err != nil && !errors.Is(err, io.EOF) {
			return 0, err
		}
		if end == size && chunk[len(chunk)-1] != '\n' {
			lines++
		}
		for i := len(chunk) - 1; i >= 0; i-- {
			if chunk[i] != '\n' {
				continue
			}
			if lines++; lines > n {
				return start + int64(i) + 1, nil
			}
		}
		end = start
	}
	return 0, nil
}

// copyFromLine copies r to w starting at the 1-based line n.
func copyFromLine(w io.Writer, r io.Reader, n int64) error {
	br := bufio.NewReader(r)
	for skipped := int64(1); skipped < n; {
		_, err := br.ReadSlice('\n')
		switch {
		case err == nil:
			skipped++
		case errors.Is(err, bufio.ErrBufferFull):
			// Long line; keep reading until its newline.
		case errors.Is(err, io.EOF):
			return nil
		default:
			return err
		}
	}
	_, err := io.Copy(w, br)
	return err
}

// String implements pflag.Value.
func (v *tailValue) String() string { return v.text }

// Type implements pflag.Value.
func (v *tailValue) Type() string { return "N" }

// Set parses [+-]N. A leading + counts from the start of the file.
func (v *tailValue) Set(s string) error {
	digits, fromStart := s, false
	if len(digits) > 0 && (digits[0] == '+' || digits[0] == '-') {
		fromStart = digits[0] == '+'
		digits = digits[1:]
	}
	if digits == "" || digits[0] == '+' || digits[0] == '-' {
		return fmt.Errorf("invalid number %q", s)
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n < 0 {
		return fmt.Errorf("invalid number %q", s)
	}

	v.text = s
	*v.spec = tailSpec{bytes: v.bytes, fromStart: fromStart, count: n}
	return nil
}
