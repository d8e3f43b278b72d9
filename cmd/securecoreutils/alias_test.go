// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/bindlebinaries/securecoreutils/internal/testutil"
)

func TestRun_AliasMode(t *testing.T) {
	t.Parallel()

	dir := testutil.TempDir(t)
	file := testutil.MustWriteFile(t, filepath.Join(dir, "notes"), []byte("via alias\n"))

	for _, argv0 := range []string{"cat", "seccat", "/usr/local/bin/seccat"} {
		code, stdout, stderr := runArgv(t, "", argv0, file)
		if code != 0 {
			t.Fatalf("%s: exit code %d, stderr %q", argv0, code, stderr)
		}
		if stdout != "via alias\n" {
			t.Errorf("%s: stdout = %q", argv0, stdout)
		}
	}
}

func TestRun_AliasModeErrors(t *testing.T) {
	t.Parallel()

	code, _, stderr := runArgv(t, "", "secrm", "relative")
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.HasPrefix(stderr, "securecoreutils: rm: relative: not an absolute path") {
		t.Errorf("stderr = %q", stderr)
	}

	code, _, stderr = runArgv(t, "", "tail")
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	want := "securecoreutils: tail: missing required argument\nTry `securecoreutils tail --help' for more information.\n"
	if stderr != want {
		t.Errorf("stderr = %q, want %q", stderr, want)
	}
}

func TestRun_AliasModeExplains(t *testing.T) {
	t.Parallel()

	dir := testutil.TempDir(t)
	file := testutil.MustWriteFile(t, filepath.Join(dir, "blob"), []byte{0x00, 0x01, 0x02})

	code, _, stderr := runArgv(t, "", "cat", "-vv", file)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "binary file") || !strings.Contains(stderr, "zcat") {
		t.Errorf("stderr = %q", stderr)
	}
	if !strings.Contains(stderr, "printable") {
		t.Errorf("stderr lacks the explanation: %q", stderr)
	}
}

func TestRun_AliasModeIsExactOnly(t *testing.T) {
	t.Parallel()

	dir := testutil.TempDir(t)
	file := testutil.MustWriteFile(t, filepath.Join(dir, "notes"), []byte("x\n"))

	// "ca" is not a widget name, so the root command takes over and treats
	// the path as the widget name.
	if code, stdout, _ := runArgv(t, "", "ca", file); code != 1 || stdout != "" {
		t.Errorf("run(ca) = %d, %q, want exit 1 and no output", code, stdout)
	}
}
