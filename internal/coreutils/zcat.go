// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"bytes"
	"compress/bzip2"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/bindlebinaries/securecoreutils/internal/config"
	"github.com/bindlebinaries/securecoreutils/internal/pathguard"
	"github.com/bindlebinaries/securecoreutils/internal/widget"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// magicLen is how many leading bytes zcat inspects to pick a decoder.
const magicLen = 6

var (
	// ErrUnknownCompression is returned when no enabled decoder matches the file.
	ErrUnknownCompression = errors.New("unable to determine compression algorithm")

	// decoders are tried in order; the first matching magic wins.
	decoders = []decoder{
		{codec: config.CodecGzip, magic: [][]byte{{0x1f, 0x8b}}, open: openGzip},
		{codec: config.CodecBzip2, magic: [][]byte{[]byte("BZh")}, open: openBzip2},
		{codec: config.CodecXZ, magic: [][]byte{{0xfd, '7', 'z', 'X', 'Z', 0x00}}, open: openXZ},
		{codec: config.CodecLZ4, magic: [][]byte{{0x04, 0x22, 0x4d, 0x18}}, open: openLZ4},
		{codec: config.CodecZstd, magic: [][]byte{{0x28, 0xb5, 0x2f, 0xfd}}, open: openZstd},
		{codec: config.CodecCompress, magic: [][]byte{{0x1f, 0x9d}, {0x1f, 0xa0}}},
	}
)

type (
	// zcatCommand decompresses a file to standard output.
	zcatCommand struct {
		baseCommand
	}

	// decoder recognizes one compression format. A nil open means the format
	// is handed to the external uncompress binary.
	decoder struct {
		codec config.Codec
		magic [][]byte
		open  func(r io.Reader) (io.ReadCloser, error)
	}
)

func newZcatCommand(s *Suite) *zcatCommand {
	return &zcatCommand{baseCommand{
		suite:       s,
		name:        "zcat",
		aliases:     []string{"seczcat"},
		description: "Writes the decompressed contents of a file to standard output",
		synopsis:    "[OPTIONS] file",
	}}
}

// Descriptor returns the catalog entry for zcat.
func (c *zcatCommand) Descriptor() widget.Descriptor { return c.descriptor(c.Run) }

// Run executes the zcat widget.
func (c *zcatCommand) Run(ctx context.Context, inv *widget.Invocation) error {
	flags, cf := newFlagSet(inv)
	path, done, err := parseOperand(inv, flags, cf)
	if err != nil || done {
		return err
	}

	err = c.suite.withRegularFile(path, func(f *os.File) error {
		head := make([]byte, magicLen)
		n, err := io.ReadFull(f, head)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return err
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return err
		}

		d, ok := detect(head[:n], c.suite.cfg.Zcat)
		if !ok {
			return fmt.Errorf("%s: %w", path, ErrUnknownCompression)
		}
		inv.Logger.Debug("decompressing", "path", quote(path), "codec", d.codec)

		if d.open == nil {
			return c.uncompress(ctx, inv, f)
		}
		r, err := d.open(f)
		if err != nil {
			return fmt.Errorf("%s: %s: %w", path, d.codec, err)
		}
		_, err = io.Copy(inv.Stdout, r)
		if closeErr := r.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return fmt.Errorf("%s: %s: %w", path, d.codec, err)
		}
		return nil
	})
	return wrapError(c.name, err)
}

// uncompress pipes f through the system uncompress binary. The binary is
// validated like any operand and is run without a shell.
func (c *zcatCommand) uncompress(ctx context.Context, inv *widget.Invocation, f *os.File) error {
	v, err := c.suite.validate(c.suite.uncompress, pathguard.RegularFile, false)
	if err != nil {
		return err
	}
	if !v.OK() {
		return fmt.Errorf("uncompress: %w", v.Err())
	}

	cmd := exec.CommandContext(ctx, c.suite.uncompress, "-c")
	cmd.Stdin = f
	cmd.Stdout = inv.Stdout
	cmd.Stderr = inv.Stderr
	cmd.Env = []string{"PATH=/usr/bin:/bin"}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("uncompress: %w", err)
	}
	return nil
}

// detect returns the first enabled decoder whose magic prefixes head.
func detect(head []byte, cfg config.ZcatConfig) (decoder, bool) {
	for _, d := range decoders {
		if !cfg.Allows(d.codec) {
			continue
		}
		for _, m := range d.magic {
			if bytes.HasPrefix(head, m) {
				return d, true
			}
		}
	}
	return decoder{}, false
}

func openGzip(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

func openBzip2(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(bzip2.NewReader(r)), nil
}

func openXZ(r io.Reader) (io.ReadCloser, error) {
	xr, err := xz.NewReader(r)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(xr), nil
}

func openLZ4(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}

func openZstd(r io.Reader) (io.ReadCloser, error) {
	// A single-goroutine decoder leaves nothing running after Close.
	d, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	return d.IOReadCloser(), nil
}
