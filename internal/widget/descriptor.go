// SPDX-License-Identifier: MPL-2.0

package widget

import (
	"context"
	"slices"
)

type (
	// EntryFunc runs a widget. inv.Args[0] is the name the widget was invoked by.
	EntryFunc func(ctx context.Context, inv *Invocation) error

	// Descriptor describes one widget. Descriptors are immutable once registered.
	Descriptor struct {
		// Name is the canonical name, as used in "<program> <name>".
		Name string
		// Description is the one-line summary shown in help. An empty
		// description hides the widget from listings.
		Description string
		// Aliases are alternative names the widget answers to.
		Aliases []string
		// Entry runs the widget. A nil Entry marks a placeholder that can
		// never be resolved.
		Entry EntryFunc
	}
)

// Hidden reports whether the widget is omitted from help listings.
func (d *Descriptor) Hidden() bool { return d.Description == "" }

// Invokable reports whether the descriptor can be resolved and run.
func (d *Descriptor) Invokable() bool { return d.Entry != nil }

// Names returns the canonical name followed by the aliases.
func (d *Descriptor) Names() []string {
	return append([]string{d.Name}, d.Aliases...)
}

func (d *Descriptor) answersTo(name string) bool {
	return d.Name == name || slices.Contains(d.Aliases, name)
}

func (d Descriptor) clone() *Descriptor {
	d.Aliases = slices.Clone(d.Aliases)
	return &d
}
