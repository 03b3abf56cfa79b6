package resolve

import (
	"slices"

	"github.com/partres/partres/pkg/errors"
	"github.com/partres/partres/pkg/part"
	"github.com/partres/partres/pkg/target"
)

// Application names the root parts an application depends on
// explicitly. Everything else in its plan arrives through core flags
// and dependency expansion.
type Application struct {
	// Name identifies the application in diagnostics.
	Name string

	// Parts are the requested root names, scoped or unscoped. An
	// unscoped name is looked up across providers in session order.
	Parts []string
}

// Plan is the resolved build set for one application on one target.
type Plan struct {
	// Application is the application name the plan was resolved for.
	Application string

	// Target is the architecture the plan applies to.
	Target target.Target

	names []string
	parts map[string]*part.Part
}

// Names returns the scoped names of the plan in resolution order.
func (p *Plan) Names() []string {
	return slices.Clone(p.names)
}

// Has reports whether the plan includes the scoped name.
func (p *Plan) Has(name string) bool {
	_, ok := p.parts[name]
	return ok
}

// Part returns the plan's part for a scoped name.
func (p *Plan) Part(name string) (*part.Part, bool) {
	prt, ok := p.parts[name]
	return prt, ok
}

// Parts returns the plan's parts in resolution order.
func (p *Plan) Parts() []*part.Part {
	out := make([]*part.Part, 0, len(p.names))
	for _, name := range p.names {
		out = append(out, p.parts[name])
	}
	return out
}

// Len returns the number of parts in the plan.
func (p *Plan) Len() int {
	return len(p.names)
}

// Resolve computes the application's build plan: every provider's core
// parts plus the transitive closure of the requested roots.
//
// Requested names that no provider declares are skipped on the
// assumption that the application supplies them itself; a root that a
// provider does declare but cannot resolve for this target is a
// MISSING_DEPENDENCY error, the only place unavailability is fatal.
func (s *Session) Resolve(app Application) (*Plan, error) {
	plan := &Plan{
		Application: app.Name,
		Target:      s.target,
		parts:       make(map[string]*part.Part),
	}

	s.logger.Debug("resolving application", "application", app.Name, "roots", len(app.Parts))

	for _, name := range s.order {
		r := s.resolvers[name]
		for _, unscoped := range r.provider.Provides().Names() {
			p, err := r.resolve(unscoped)
			if err != nil {
				return nil, err
			}
			if p != nil && p.Core {
				if err := s.add(plan, p.Name, true); err != nil {
					return nil, err
				}
			}
		}
	}

	for _, root := range app.Parts {
		resolved, declared, err := s.lookup(root)
		if err != nil {
			return nil, err
		}
		if declared && resolved == nil {
			return nil, errors.New(errors.ErrCodeMissingDependency,
				"required part %q cannot be resolved for %s", root, s.target)
		}
		if err := s.add(plan, root, true); err != nil {
			return nil, err
		}
	}

	s.logger.Debug("application resolved", "parts", plan.Len())
	return plan, nil
}

// lookup finds the resolved part for a scoped or unscoped name. The
// declared result distinguishes "no provider declares this name" from
// "declared but unavailable".
func (s *Session) lookup(name string) (resolved *part.Part, declared bool, err error) {
	if part.IsScoped(name) {
		component, unscoped := part.SplitName(name)
		r, ok := s.resolvers[component]
		if !ok || !r.declares(unscoped) {
			return nil, false, nil
		}
		p, err := r.resolve(unscoped)
		return p, true, err
	}

	for _, pname := range s.order {
		r := s.resolvers[pname]
		if !r.declares(name) {
			continue
		}
		p, err := r.resolve(name)
		return p, true, err
	}
	return nil, false, nil
}

// add includes a name and, when expand is set, the transitive closure
// of its dependencies. Hidden dependencies are added with expand
// unset: they exist precisely to cap the blast radius of a large,
// deliberately opaque dependent.
func (s *Session) add(plan *Plan, name string, expand bool) error {
	resolved, declared, err := s.lookup(name)
	if err != nil {
		return err
	}
	if !declared || resolved == nil {
		// Assumed externally supplied. Unavailability is a value at
		// this level, never an error.
		return nil
	}
	if plan.Has(resolved.Name) {
		return nil
	}

	// A hierarchical name needs its parent present first.
	if parent, ok := part.ParentOf(resolved.Name); ok {
		presolved, pdeclared, err := s.lookup(parent)
		if err != nil {
			return err
		}
		if !pdeclared || presolved == nil {
			s.logger.Debug("skipping part without a supplied parent", "part", resolved.Name, "parent", parent)
			return nil
		}
		if err := s.add(plan, presolved.Name, expand); err != nil {
			return err
		}
		if plan.Has(resolved.Name) {
			return nil
		}
	}

	if lvl := resolved.MinAPILevel; lvl > 0 && s.target.Platform().VersionedAPI && s.target.APILevel < lvl {
		s.logger.Debug("skipping part below its minimum API level",
			"part", resolved.Name, "min", lvl, "api", s.target.APILevel)
		return nil
	}

	plan.names = append(plan.names, resolved.Name)
	plan.parts[resolved.Name] = resolved

	if !expand {
		return nil
	}

	for _, dep := range resolved.Deps {
		if err := s.add(plan, dep, true); err != nil {
			return err
		}
	}
	for _, hidden := range resolved.HiddenDeps {
		if err := s.add(plan, hidden, false); err != nil {
			return err
		}
	}
	return nil
}
