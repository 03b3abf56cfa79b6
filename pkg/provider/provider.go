// Package provider defines the metadata providers ("components") a
// resolution session draws parts from, and the registry the host
// process uses to construct them.
//
// A provider is anything exposing a name, a resolved version number
// and a provides table. Providers are built from a [Registry] of
// factories so the host decides explicitly which components exist;
// there is no runtime plugin discovery.
package provider

import (
	"github.com/partres/partres/pkg/errors"
	"github.com/partres/partres/pkg/part"
	"github.com/partres/partres/pkg/version"
)

// Provider is a named, versioned source of parts.
type Provider interface {
	// Name returns the provider name used as the scope of its parts.
	Name() string

	// Version returns the provider's resolved version number.
	Version() version.Number

	// Provides returns the provider's template table. The table and
	// its parts are shared, immutable metadata: callers must never
	// mutate them.
	Provides() *part.Table
}

// AlternateFacility is implemented by providers whose '!' dependency
// markers refer to a designated alternate component: such dependencies
// are required only while that component is absent from the session.
type AlternateFacility interface {
	// AlternateFacility returns the name of the alternate component.
	AlternateFacility() string
}

// VersionTested is implemented by providers that know which of their
// versions have been exercised. Versions outside the range draw a
// non-fatal warning during resolution.
type VersionTested interface {
	// TestedRange returns the range of tested provider versions.
	TestedRange() version.Range
}

// Static is a Provider backed by fixed metadata. It is the building
// block for declarative providers loaded from manifest files and for
// tests.
type Static struct {
	name      string
	version   version.Number
	provides  *part.Table
	alternate string
	tested    *version.Range
}

// NewStatic creates a provider from a name, a resolved version and a
// provides table.
func NewStatic(name string, v version.Number, provides *part.Table) (*Static, error) {
	if err := errors.ValidateProviderName(name); err != nil {
		return nil, err
	}
	if provides == nil {
		provides = part.NewTable()
	}
	return &Static{name: name, version: v, provides: provides}, nil
}

// MustStatic is like NewStatic but panics on error.
func MustStatic(name string, v version.Number, provides *part.Table) *Static {
	p, err := NewStatic(name, v, provides)
	if err != nil {
		panic(err)
	}
	return p
}

// WithAlternateFacility designates the component consulted by '!'
// dependency markers and returns the provider.
func (s *Static) WithAlternateFacility(name string) *Static {
	s.alternate = name
	return s
}

// WithTestedRange declares the tested version range and returns the
// provider.
func (s *Static) WithTestedRange(r version.Range) *Static {
	s.tested = &r
	return s
}

// Name implements Provider.
func (s *Static) Name() string { return s.name }

// Version implements Provider.
func (s *Static) Version() version.Number { return s.version }

// Provides implements Provider.
func (s *Static) Provides() *part.Table { return s.provides }

// AlternateFacility returns the designated alternate component name,
// or the empty string.
func (s *Static) AlternateFacility() string { return s.alternate }

// TestedRange returns the declared tested range, or the match-all
// range when none was declared.
func (s *Static) TestedRange() version.Range {
	if s.tested == nil {
		return version.Range{}
	}
	return *s.tested
}
