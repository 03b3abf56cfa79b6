package resolve

import (
	"github.com/partres/partres/pkg/errors"
	"github.com/partres/partres/pkg/part"
	"github.com/partres/partres/pkg/provider"
)

// componentResolver computes one provider's part closure for the
// session's target. Its memo table is private to the session; the
// provider's template table is shared and only read.
type componentResolver struct {
	session   *Session
	provider  provider.Provider
	alternate string

	// memo maps unscoped names to their resolved part, or nil when the
	// part is unavailable. Presence means resolution has at least
	// started for the name.
	memo map[string]*part.Part
}

func newComponentResolver(s *Session, p provider.Provider) *componentResolver {
	alt := ""
	if af, ok := p.(provider.AlternateFacility); ok {
		alt = af.AlternateFacility()
	}
	return &componentResolver{
		session:   s,
		provider:  p,
		alternate: alt,
		memo:      make(map[string]*part.Part),
	}
}

// declares reports whether the provider's provides table declares the
// unscoped name at all, regardless of availability.
func (r *componentResolver) declares(name string) bool {
	return r.provider.Provides().Has(name)
}

// table resolves every declared name and returns the scoped-name view,
// unavailable entries included as nils.
func (r *componentResolver) table() (map[string]*part.Part, error) {
	out := make(map[string]*part.Part, r.provider.Provides().Len())
	for _, name := range r.provider.Provides().Names() {
		p, err := r.resolve(name)
		if err != nil {
			return nil, err
		}
		out[part.ScopedName(r.provider.Name(), name)] = p
	}
	return out, nil
}

// resolve computes the resolved part for one unscoped name, or nil
// when the part is unavailable for the session's target and the
// provider's version.
//
// The name is memoized with its provisional value before its
// dependencies are walked, so a dependency cycle terminates by
// observing the in-progress entry. The flip side is that a mutual
// cycle resolves optimistically: both sides come out available even
// when a failure discovered later in the walk should have invalidated
// one of them. Metadata in the wild relies on this, so it is kept.
func (r *componentResolver) resolve(name string) (*part.Part, error) {
	if p, done := r.memo[name]; done {
		return p, nil
	}

	variants := r.provider.Provides().Variants(name)
	if variants == nil {
		r.memo[name] = nil
		return nil, nil
	}

	cand, err := normalize(r.provider.Name(), name, variants, r.provider.Version(), r.session.target)
	if err != nil {
		return nil, err
	}
	if cand == nil {
		r.memo[name] = nil
		return nil, nil
	}

	r.memo[name] = cand.part

	satisfied := make([]string, 0, len(cand.deps))
	available := true
	for _, d := range cand.deps {
		// A negative-conditional dependency is only required while the
		// alternate facility is absent from the session.
		if d.Unless && r.alternatePresent() {
			continue
		}

		dr, ok := r.session.resolvers[d.Component]
		if !ok {
			if d.Optional {
				continue
			}
			return nil, errors.New(errors.ErrCodeUnknownProvider,
				"%q depends on provider %q which is not part of the session", cand.part.Name, d.Component)
		}

		dep, err := dr.resolve(d.Name)
		if err != nil {
			return nil, err
		}
		if dep == nil {
			if d.Optional {
				continue
			}
			available = false
			break
		}
		satisfied = append(satisfied, d.Scoped())
	}

	if !available {
		r.memo[name] = nil
		return nil, nil
	}

	if len(satisfied) > 0 {
		cand.part.Deps = satisfied
	}
	return cand.part, nil
}

// alternatePresent reports whether the provider's designated alternate
// facility participates in the session.
func (r *componentResolver) alternatePresent() bool {
	if r.alternate == "" {
		return false
	}
	_, ok := r.session.resolvers[r.alternate]
	return ok
}
