// SPDX-License-Identifier: MPL-2.0

package widget

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyName is returned for an invokable widget without a name.
	ErrEmptyName = errors.New("widget has an empty name")
	// ErrDuplicateName is returned when a name or alias is claimed twice.
	ErrDuplicateName = errors.New("widget name already registered")
)

type (
	// Mode selects how Resolve matches a requested name.
	Mode int

	// Registry is the ordered catalog of widgets. It is immutable once built
	// and safe for concurrent use.
	Registry struct {
		program string
		widgets []*Descriptor
	}
)

const (
	// ExactMatch accepts only a byte-identical name or alias.
	ExactMatch Mode = iota
	// PrefixMatch also accepts the name or alias sharing the unique longest
	// common prefix with the request.
	PrefixMatch
)

// NewRegistry builds the catalog for the binary called program from
// descriptors, in order. The program name is never a candidate during
// resolution. Invokable widgets must have a name, and no name or alias may be
// claimed by two of them; placeholders are not checked.
func NewRegistry(program string, descriptors ...Descriptor) (*Registry, error) {
	r := &Registry{program: program, widgets: make([]*Descriptor, 0, len(descriptors))}
	for _, d := range descriptors {
		if err := r.add(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Program returns the binary name the registry was created for.
func (r *Registry) Program() string { return r.program }

func (r *Registry) add(d Descriptor) error {
	if d.Invokable() {
		if d.Name == "" {
			return ErrEmptyName
		}
		for _, name := range d.Names() {
			for _, existing := range r.widgets {
				if existing.Invokable() && existing.answersTo(name) {
					return fmt.Errorf("%w: %q by %q", ErrDuplicateName, name, existing.Name)
				}
			}
		}
	}
	r.widgets = append(r.widgets, d.clone())
	return nil
}

// Widgets returns the visible, invokable widgets in registration order.
func (r *Registry) Widgets() []*Descriptor {
	visible := make([]*Descriptor, 0, len(r.widgets))
	for _, d := range r.widgets {
		if d.Invokable() && !d.Hidden() {
			visible = append(visible, d)
		}
	}
	return visible
}

// Resolve finds the widget a requested name refers to.
//
// An exact match on a canonical name or alias always wins. In PrefixMatch
// mode the request otherwise resolves to the widget owning the name or alias
// with the longest common prefix, provided that length is non-zero and no
// other widget reaches it. Matching is case-sensitive.
func (r *Registry) Resolve(name string, mode Mode) (*Descriptor, bool) {
	if name == "" {
		return nil, false
	}
	for _, d := range r.widgets {
		if d.Invokable() && name != r.program && d.answersTo(name) {
			return d, true
		}
	}
	if mode != PrefixMatch {
		return nil, false
	}

	var (
		best    *Descriptor
		bestLen int
		tied    bool
	)
	for _, d := range r.widgets {
		if !d.Invokable() {
			continue
		}
		for _, candidate := range d.Names() {
			if candidate == r.program {
				continue
			}
			n := commonPrefixLen(candidate, name)
			switch {
			case n > bestLen:
				best, bestLen, tied = d, n, false
			case n == bestLen && n > 0 && d != best:
				tied = true
			}
		}
	}
	if bestLen == 0 || tied {
		return nil, false
	}
	return best, true
}

func commonPrefixLen(a, b string) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
