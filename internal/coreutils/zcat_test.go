// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bindlebinaries/securecoreutils/internal/config"
	"github.com/bindlebinaries/securecoreutils/internal/pathguard"
	"github.com/bindlebinaries/securecoreutils/internal/testutil"

	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

const zcatPayload = "hello from the compressed side\n"

// bzip2Hello is the bzip2 compression of "hello from bzip2\n".
var bzip2Hello = []byte{
	0x42, 0x5a, 0x68, 0x39, 0x31, 0x41, 0x59, 0x26, 0x53, 0x59, 0x55, 0xe9,
	0xaf, 0xe5, 0x00, 0x00, 0x03, 0xd9, 0x80, 0x00, 0x10, 0x40, 0x00, 0x10,
	0x00, 0x13, 0x66, 0xd0, 0x10, 0x20, 0x00, 0x22, 0x9a, 0x32, 0x69, 0xe9,
	0x1f, 0xa8, 0x40, 0x00, 0x0d, 0x2a, 0xf4, 0x26, 0xe0, 0xbf, 0x2c, 0x01,
	0x62, 0xee, 0x48, 0xa7, 0x0a, 0x12, 0x0a, 0xbd, 0x35, 0xfc, 0xa0,
}

// zstdHello is a single raw-block zstd frame holding "hello\n".
var zstdHello = append([]byte{0x28, 0xb5, 0x2f, 0xfd, 0x20, 0x06, 0x31, 0x00, 0x00}, "hello\n"...)

func compress(t *testing.T, newWriter func(io.Writer) (io.WriteCloser, error), payload string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := newWriter(&buf)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	if _, err := io.WriteString(w, payload); err != nil {
		t.Fatalf("compress: %v", err)
	}
	testutil.MustClose(t, w)
	return buf.Bytes()
}

func gzipWriter(w io.Writer) (io.WriteCloser, error) { return gzip.NewWriter(w), nil }
func xzWriter(w io.Writer) (io.WriteCloser, error)   { return xz.NewWriter(w) }
func lz4Writer(w io.Writer) (io.WriteCloser, error)  { return lz4.NewWriter(w), nil }

func TestZcatCommand_Run_Codecs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"gzip", compress(t, gzipWriter, zcatPayload), zcatPayload},
		{"xz", compress(t, xzWriter, zcatPayload), zcatPayload},
		{"lz4", compress(t, lz4Writer, zcatPayload), zcatPayload},
		{"bzip2", bzip2Hello, "hello from bzip2\n"},
		{"zstd", zstdHello, "hello\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := testutil.TempDir(t)
			file := testutil.MustWriteFile(t, filepath.Join(dir, "payload"), tt.data)

			stdout, _, err := runWidget(t, New(nil), "", "zcat", file)
			if err != nil {
				t.Fatalf("Run() returned error: %v", err)
			}
			if stdout != tt.want {
				t.Errorf("Run() = %q, want %q", stdout, tt.want)
			}
		})
	}
}

func TestZcatCommand_Run_DisabledCodec(t *testing.T) {
	t.Parallel()

	dir := testutil.TempDir(t)
	file := testutil.MustWriteFile(t, filepath.Join(dir, "payload"), compress(t, gzipWriter, zcatPayload))

	s := newTestSuite(func(c *config.Config) { c.Zcat.Codecs = []config.Codec{config.CodecXZ} })
	if _, _, err := runWidget(t, s, "", "seczcat", file); !errors.Is(err, ErrUnknownCompression) {
		t.Errorf("Run() error = %v, want ErrUnknownCompression", err)
	}
}

func TestZcatCommand_Run_Unrecognized(t *testing.T) {
	t.Parallel()

	dir := testutil.TempDir(t)
	for name, data := range map[string]string{"plain": "just text\n", "empty": "", "tiny": "\x1f"} {
		file := testutil.MustWriteFile(t, filepath.Join(dir, name), []byte(data))

		stdout, _, err := runWidget(t, New(nil), "", "zcat", file)
		if !errors.Is(err, ErrUnknownCompression) {
			t.Errorf("Run(%s) error = %v, want ErrUnknownCompression", name, err)
		}
		if stdout != "" {
			t.Errorf("Run(%s) wrote %q", name, stdout)
		}
	}
}

func TestZcatCommand_Run_Corrupt(t *testing.T) {
	t.Parallel()

	dir := testutil.TempDir(t)
	data := compress(t, gzipWriter, strings.Repeat(zcatPayload, 100))
	file := testutil.MustWriteFile(t, filepath.Join(dir, "broken"), data[:len(data)/2])

	_, _, err := runWidget(t, New(nil), "", "zcat", file)
	if err == nil {
		t.Fatal("Run() on a truncated stream returned nil")
	}
	if !strings.Contains(err.Error(), "gzip") {
		t.Errorf("error %q does not name the codec", err)
	}
}

func TestZcatCommand_Run_Compress(t *testing.T) {
	t.Parallel()

	dir := testutil.TempDir(t)
	bin := filepath.Join(testutil.MustMkdirAll(t, filepath.Join(dir, "bin")), "uncompress")
	testutil.MustWriteFile(t, bin, []byte("#!/bin/sh\nread -r magic\necho \"decoded by uncompress $1\"\n"))
	testutil.MustChmod(t, bin, 0o755)
	file := testutil.MustWriteFile(t, filepath.Join(dir, "data"), []byte{0x1f, 0x9d, 0x90, '\n'})

	stdout, _, err := runWidget(t, New(nil, WithUncompressPath(bin)), "", "zcat", file)
	if err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	if stdout != "decoded by uncompress -c\n" {
		t.Errorf("Run() = %q", stdout)
	}
}

func TestZcatCommand_Run_UncompressValidated(t *testing.T) {
	t.Parallel()

	dir := testutil.TempDir(t)
	file := testutil.MustWriteFile(t, filepath.Join(dir, "data"), []byte{0x1f, 0xa0, 0x00})

	tests := []struct {
		name string
		bin  string
		want error
	}{
		{"missing", filepath.Join(dir, "nowhere", "uncompress"), pathguard.ErrNotFound},
		{"relative", "uncompress", pathguard.ErrNotAbsolute},
		{"symlink", testutil.MustSymlink(t, "/bin/sh", filepath.Join(dir, "shlink")), pathguard.ErrWrongType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := runWidget(t, New(nil, WithUncompressPath(tt.bin)), "", "zcat", file)
			if !errors.Is(err, tt.want) {
				t.Errorf("Run() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	all := config.DefaultConfig().Zcat
	tests := []struct {
		head []byte
		want config.Codec
	}{
		{[]byte{0x1f, 0x8b, 0x08}, config.CodecGzip},
		{[]byte("BZh91AY"), config.CodecBzip2},
		{[]byte{0xfd, '7', 'z', 'X', 'Z', 0x00}, config.CodecXZ},
		{[]byte{0x04, 0x22, 0x4d, 0x18, 0x64}, config.CodecLZ4},
		{[]byte{0x28, 0xb5, 0x2f, 0xfd}, config.CodecZstd},
		{[]byte{0x1f, 0x9d, 0x90}, config.CodecCompress},
		{[]byte{0x1f, 0xa0}, config.CodecCompress},
	}

	for _, tt := range tests {
		d, ok := detect(tt.head, all)
		if !ok || d.codec != tt.want {
			t.Errorf("detect(% x) = %v, %v, want %v", tt.head, d.codec, ok, tt.want)
		}
	}

	if _, ok := detect([]byte{0xfd, '7', 'z'}, all); ok {
		t.Error("detect() matched a truncated xz magic")
	}
}
