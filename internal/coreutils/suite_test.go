// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"errors"
	"strings"
	"testing"

	"github.com/bindlebinaries/securecoreutils/internal/pathguard"
	"github.com/bindlebinaries/securecoreutils/internal/widget"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuite_Registry(t *testing.T) {
	t.Parallel()

	r := mustRegistry(t, New(nil))

	var names []string
	for _, d := range r.Widgets() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"cat", "pathcheck", "rm", "rmdir", "tail", "touch", "zcat"}, names)

	for alias, want := range map[string]string{
		"seccat":   "cat",
		"secpath":  "pathcheck",
		"secrm":    "rm",
		"secrmdir": "rmdir",
		"sectail":  "tail",
		"sectouch": "touch",
		"seczcat":  "zcat",
	} {
		d, ok := r.Resolve(alias, widget.ExactMatch)
		require.True(t, ok, alias)
		assert.Equal(t, want, d.Name)
	}

	d, ok := r.Resolve("rmd", widget.PrefixMatch)
	require.True(t, ok)
	assert.Equal(t, "rmdir", d.Name)

	_, ok = r.Resolve("r", widget.PrefixMatch)
	assert.False(t, ok)
}

func TestCommonOptions_Help(t *testing.T) {
	t.Parallel()

	stdout, _, err := runWidget(t, New(nil), "", "rm", "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Usage: securecoreutils rm [OPTIONS] file")
	assert.Contains(t, stdout, "       secrm [OPTIONS] file")
	assert.Contains(t, stdout, "--force")
	assert.NotContains(t, stdout, "--silent")
	assert.Contains(t, stdout, "RESTRICTIONS:")
	for _, r := range pathguard.Restrictions {
		assert.Contains(t, stdout, r)
	}
}

func TestCommonOptions_Version(t *testing.T) {
	t.Parallel()

	stdout, _, err := runWidget(t, New(nil), "", "tail", "-V")
	require.NoError(t, err)
	assert.Equal(t, "tail widget\nv0.0.0-test\n", stdout)
}

func TestCommonOptions_UsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing operand", nil, "cat: missing required argument"},
		{"extra operand", []string{"/a", "/b"}, "cat: unrecognized argument `-- /b'"},
		{"quiet and verbose", []string{"-q", "-v", "/a"}, "cat: options `--quiet' and `--verbose' are mutually exclusive"},
		{"silent and verbose", []string{"--silent", "-v", "/a"}, "cat: options `--quiet' and `--verbose' are mutually exclusive"},
		{"unknown option", []string{"-x", "/a"}, "cat: unknown shorthand flag: 'x' in -x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := runWidget(t, New(nil), "", "cat", tt.args...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, widget.ErrUsage), "error should be a usage error: %v", err)
			assert.Equal(t, tt.want, err.Error())

			var usage *widget.UsageError
			require.ErrorAs(t, err, &usage)
			assert.Equal(t, "Try `securecoreutils cat --help' for more information.", usage.Hint())
		})
	}
}

func TestCommonOptions_OperandAfterDoubleDash(t *testing.T) {
	t.Parallel()

	// "-x" reaches validation as an operand and is rejected there.
	_, _, err := runWidget(t, New(nil), "", "pathcheck", "--", "-x")
	require.Error(t, err)
	assert.ErrorIs(t, err, pathguard.ErrNotAbsolute)
}

func TestEmptyOperand(t *testing.T) {
	t.Parallel()

	_, _, err := runWidget(t, New(nil), "", "rm", "")
	assert.ErrorIs(t, err, pathguard.ErrEmptyPath)
}

func TestQuote(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/srv/data", strings.Trim(quote("/srv/data"), "'"))
	assert.Contains(t, quote("/srv/my file"), "'")
}
