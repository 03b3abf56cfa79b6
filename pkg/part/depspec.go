package part

import (
	"strings"

	"github.com/partres/partres/pkg/errors"
)

// Dep is a parsed dependency spec.
//
// The spec grammar is [target#][marker][component:]name. The optional
// target predicate gates the whole dependency; the marker is '?' for
// an optional dependency or '!' for a negative-conditional one; an
// unscoped name is implicitly scoped to the owning provider.
type Dep struct {
	// Component is the providing component. Never empty after parsing.
	Component string

	// Name is the unscoped part name within Component.
	Name string

	// Target is the predicate gating this single dependency edge.
	// Empty means the edge applies to every target.
	Target string

	// Optional is set by the '?' marker: unavailability of the
	// dependency does not propagate to the dependent part.
	Optional bool

	// Unless is set by the '!' marker: the dependency is required only
	// when the owning provider's alternate facility is absent.
	Unless bool
}

// Scoped returns the dependency's scoped name.
func (d Dep) Scoped() string {
	return ScopedName(d.Component, d.Name)
}

// ParseDep parses a dependency spec declared by owner.
func ParseDep(owner, spec string) (Dep, error) {
	d := Dep{}
	rest := spec

	if gate, name, ok := strings.Cut(rest, "#"); ok {
		d.Target = gate
		rest = name
		if gate == "" {
			return Dep{}, errors.New(errors.ErrCodeInvalidMetadata, "dependency %q of %q has an empty target gate", spec, owner)
		}
	}

	switch {
	case strings.HasPrefix(rest, "?"):
		d.Optional = true
		rest = rest[1:]
	case strings.HasPrefix(rest, "!"):
		d.Unless = true
		rest = rest[1:]
	}

	if strings.HasPrefix(rest, ":") {
		return Dep{}, errors.New(errors.ErrCodeInvalidMetadata, "dependency %q of %q has an empty component", spec, owner)
	}
	d.Component, d.Name = SplitName(rest)
	if d.Component == "" {
		d.Component = owner
	}

	if d.Name == "" || strings.ContainsAny(d.Name, ":?!#") {
		return Dep{}, errors.New(errors.ErrCodeInvalidMetadata, "dependency %q of %q does not parse", spec, owner)
	}
	if err := errors.ValidateProviderName(d.Component); err != nil {
		return Dep{}, errors.New(errors.ErrCodeInvalidMetadata, "dependency %q of %q names an invalid provider", spec, owner)
	}

	return d, nil
}

// TargetedValue resolves a single target-gated scalar value of the
// form target#value. It returns the bare value and the gate, if any.
func TargetedValue(value string) (gate, bare string) {
	if g, v, ok := strings.Cut(value, "#"); ok {
		return g, v
	}
	return "", value
}
