// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bindlebinaries/securecoreutils/internal/config"
	"github.com/bindlebinaries/securecoreutils/internal/pathguard"
	"github.com/bindlebinaries/securecoreutils/internal/widget"
)

// DefaultUncompressPath is the system binary zcat delegates .Z streams to.
const DefaultUncompressPath = "/usr/bin/uncompress"

type (
	// Suite holds the state shared by every widget.
	Suite struct {
		cfg        *config.Config
		validator  *pathguard.Validator
		ops        pathguard.Ops
		uncompress string
		now        func() time.Time
	}

	// Option customizes a Suite.
	Option func(*Suite)

	// command is implemented by every widget.
	command interface {
		Descriptor() widget.Descriptor
	}

	// baseCommand carries the catalog entry of a widget.
	baseCommand struct {
		suite       *Suite
		name        string
		aliases     []string
		description string
		synopsis    string
	}
)

// WithOps replaces the filesystem operations used after validation.
func WithOps(ops pathguard.Ops) Option {
	return func(s *Suite) { s.ops = ops }
}

// WithUncompressPath replaces the binary zcat runs for .Z streams.
func WithUncompressPath(path string) Option {
	return func(s *Suite) { s.uncompress = path }
}

// WithClock replaces the clock touch uses for the current time.
func WithClock(now func() time.Time) Option {
	return func(s *Suite) { s.now = now }
}

// New creates a Suite. A nil cfg means the built-in defaults.
func New(cfg *config.Config, opts ...Option) *Suite {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Suite{
		cfg:        cfg,
		validator:  pathguard.NewValidator(nil),
		ops:        pathguard.NewOps(cfg.SecureOpen),
		uncompress: DefaultUncompressPath,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the widget catalog for the binary called program.
func (s *Suite) Registry(program string) (*widget.Registry, error) {
	commands := s.commands()
	descriptors := make([]widget.Descriptor, 0, len(commands))
	for _, c := range commands {
		descriptors = append(descriptors, c.Descriptor())
	}
	return widget.NewRegistry(program, descriptors...)
}

func (s *Suite) commands() []command {
	return []command{
		newCatCommand(s),
		newPathcheckCommand(s),
		newRmCommand(s),
		newRmdirCommand(s),
		newTailCommand(s),
		newTouchCommand(s),
		newZcatCommand(s),
	}
}

func (b *baseCommand) descriptor(entry widget.EntryFunc) widget.Descriptor {
	return widget.Descriptor{
		Name:        b.name,
		Description: b.description,
		Aliases:     b.aliases,
		Entry: func(ctx context.Context, inv *widget.Invocation) error {
			inv.Options = b.synopsis
			return entry(ctx, inv)
		},
	}
}

// validate judges path and turns an empty operand into an error.
func (s *Suite) validate(path string, kind pathguard.Kind, allowMissing bool) (pathguard.Verdict, error) {
	v, err := s.validator.Validate(path, kind, allowMissing)
	if err != nil {
		return v, fmt.Errorf("%q: %w", path, err)
	}
	return v, nil
}

// openRegular validates path as a regular file and opens it read-only.
func (s *Suite) openRegular(path string) (*os.File, error) {
	v, err := s.validate(path, pathguard.RegularFile, false)
	if err != nil {
		return nil, err
	}
	if !v.OK() {
		return nil, v.Err()
	}

	f, err := s.ops.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	// The object may have been replaced between validation and open.
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, pathguard.Verdict{Path: path, Code: pathguard.WrongType, Expected: pathguard.RegularFile}.Err()
	}
	return f, nil
}

// withRegularFile opens path with openRegular and hands it to fn.
//
// Uses named return to aggregate close errors. If fn succeeds but close
// fails, the close error is returned.
func (s *Suite) withRegularFile(path string, fn func(f *os.File) error) (err error) {
	f, err := s.openRegular(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return fn(f)
}
