// SPDX-License-Identifier: MPL-2.0

package widget

import (
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvocation_Bind(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t)
	cat, _ := r.Resolve("cat", ExactMatch)
	rm, _ := r.Resolve("rm", ExactMatch)

	inv := &Invocation{Program: testProgram}
	require.NoError(t, inv.Bind(cat))
	assert.Same(t, cat, inv.Widget())
	assert.ErrorIs(t, inv.Bind(rm), ErrAlreadyBound)
	assert.Same(t, cat, inv.Widget(), "a second bind must not replace the widget")
}

func TestInvocation_BindPlaceholder(t *testing.T) {
	t.Parallel()

	inv := &Invocation{}
	assert.Error(t, inv.Bind(&Descriptor{Name: "placeholder"}))
	assert.Error(t, inv.Bind(nil))
	assert.Nil(t, inv.Widget())
}

func TestInvocation_Run(t *testing.T) {
	t.Parallel()

	var got *Invocation
	d := &Descriptor{Name: "stub", Entry: func(_ context.Context, inv *Invocation) error {
		got = inv
		return errors.New("stub failed")
	}}

	inv := &Invocation{Args: []string{"stub"}}
	assert.ErrorIs(t, inv.Run(context.Background()), ErrNotBound)

	require.NoError(t, inv.Bind(d))
	assert.EqualError(t, inv.Run(context.Background()), "stub failed")
	assert.Same(t, inv, got)
}

func TestInvocation_LogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		quiet     bool
		verbosity int
		want      log.Level
	}{
		{"default", false, 0, log.WarnLevel},
		{"verbose", false, 1, log.InfoLevel},
		{"very verbose", false, 3, log.DebugLevel},
		{"quiet", true, 0, log.ErrorLevel},
	}

	for _, tt := range tests {
		inv := &Invocation{Quiet: tt.quiet, Verbosity: tt.verbosity}
		assert.Equal(t, tt.want, inv.LogLevel(), tt.name)
	}
}

func TestUsageError(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t)
	rm, _ := r.Resolve("rm", ExactMatch)

	inv := &Invocation{Program: testProgram}
	err := inv.Usagef("unknown or ambiguous widget -- %q", "r")
	assert.EqualError(t, err, `unknown or ambiguous widget -- "r"`)
	assert.ErrorIs(t, err, ErrUsage)

	var usage *UsageError
	require.ErrorAs(t, err, &usage)
	assert.Equal(t, "Try `securecoreutils --help' for more information.", usage.Hint())

	require.NoError(t, inv.Bind(rm))
	err = inv.Usagef("missing required argument")
	assert.EqualError(t, err, "rm: missing required argument")
	require.ErrorAs(t, err, &usage)
	assert.Equal(t, "Try `securecoreutils rm --help' for more information.", usage.Hint())
}
