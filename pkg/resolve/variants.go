package resolve

import (
	"github.com/partres/partres/pkg/part"
	"github.com/partres/partres/pkg/target"
	"github.com/partres/partres/pkg/version"
)

// candidate is a selected part variant together with its parsed,
// gate-filtered dependency specs. The specs stay separate from the
// part until the closure pass decides which of them are satisfied.
type candidate struct {
	part *part.Part
	deps []part.Dep
}

// selectVariant returns the first variant, in declaration order, whose
// version range accepts the provider version. Variant ordering runs
// from the newest constraint to the oldest, so the first structural
// match wins; there is no best-match search.
func selectVariant(variants []*part.Part, v version.Number) *part.Part {
	for _, p := range variants {
		if p.Version.Contains(v) {
			return p
		}
	}
	return nil
}

// normalize runs variant selection for one provides entry and prepares
// the resolver's private copy: scoped name assigned, dependency specs
// parsed with excluded target gates dropped, and target-gated scalar
// values resolved.
//
// A nil candidate means the part is unavailable for this provider
// version or target. A version match whose target predicate misses is
// final: the version and target constraints of a variant are coupled,
// so resolution never falls through to an older variant.
func normalize(owner, name string, variants []*part.Part, v version.Number, tgt target.Target) (*candidate, error) {
	tmpl := selectVariant(variants, v)
	if tmpl == nil {
		return nil, nil
	}

	covered, err := target.Covers(tmpl.Target, tgt)
	if err != nil {
		return nil, err
	}
	if !covered {
		return nil, nil
	}

	p := tmpl.Clone()
	p.Name = part.ScopedName(owner, name)

	deps := make([]part.Dep, 0, len(p.Deps))
	for _, spec := range p.Deps {
		d, err := part.ParseDep(owner, spec)
		if err != nil {
			return nil, err
		}
		covered, err := target.Covers(d.Target, tgt)
		if err != nil {
			return nil, err
		}
		if covered {
			deps = append(deps, d)
		}
	}
	// The closure pass writes back the deps that were satisfied.
	p.Deps = nil

	var hidden []string
	for _, spec := range p.HiddenDeps {
		d, err := part.ParseDep(owner, spec)
		if err != nil {
			return nil, err
		}
		covered, err := target.Covers(d.Target, tgt)
		if err != nil {
			return nil, err
		}
		if covered {
			hidden = append(hidden, d.Scoped())
		}
	}
	p.HiddenDeps = hidden

	if err := resolveValues(p.Payload, tgt); err != nil {
		return nil, err
	}

	return &candidate{part: p, deps: deps}, nil
}

// resolveValues applies target#value gates to the payload's scalar
// lists, in place on the resolver's copy.
func resolveValues(payload part.Payload, tgt target.Target) error {
	switch pl := payload.(type) {
	case *part.NativeLibrary:
		return filterGated(tgt, &pl.Libs, &pl.Defines, &pl.IncludePath)
	case *part.ExtensionModule:
		return filterGated(tgt, &pl.Source, &pl.Defines, &pl.Libs, &pl.IncludePath, &pl.Config)
	}
	return nil
}

// filterGated resolves every target#value gate in the given lists,
// dropping excluded entries. A list that becomes empty becomes nil.
func filterGated(tgt target.Target, lists ...*[]string) error {
	for _, list := range lists {
		if *list == nil {
			continue
		}
		out := make([]string, 0, len(*list))
		for _, value := range *list {
			gate, bare := part.TargetedValue(value)
			if gate == "" {
				out = append(out, bare)
				continue
			}
			covered, err := target.Covers(gate, tgt)
			if err != nil {
				return err
			}
			if covered {
				out = append(out, bare)
			}
		}
		if len(out) == 0 {
			out = nil
		}
		*list = out
	}
	return nil
}
