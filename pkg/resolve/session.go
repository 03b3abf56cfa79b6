// Package resolve turns the declarative part metadata of a set of
// providers into the concrete build set an application needs on one
// target: variant selection, per-provider availability closures, the
// project plan and the aggregated build value lists.
//
// A [Session] owns one (target, provider-set) resolution. Sessions
// never share memo state and only read the providers' template
// tables, so independent sessions may run concurrently;
// [ResolveTargets] fans one application out across several targets
// that way. Within a session, part unavailability is a value (a nil
// table entry), not an error: errors are reserved for malformed
// metadata, unknown providers and unresolvable application roots.
package resolve

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/partres/partres/pkg/errors"
	"github.com/partres/partres/pkg/part"
	"github.com/partres/partres/pkg/provider"
	"github.com/partres/partres/pkg/target"
)

// Options configures a session.
type Options struct {
	// Logger receives progress output and non-fatal warnings. Leave
	// nil to discard.
	Logger *log.Logger
}

// WithDefaults fills in unset options.
func (o Options) WithDefaults() Options {
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// Session is one resolution run: a single target and one configured
// provider set. All memo state is private to the session; a fresh
// session recomputes everything from the templates.
type Session struct {
	id        string
	target    target.Target
	order     []string
	resolvers map[string]*componentResolver
	logger    *log.Logger
}

// New creates a session for one target over a fixed provider set.
func New(tgt target.Target, providers []provider.Provider, opts Options) (*Session, error) {
	opts = opts.WithDefaults()

	s := &Session{
		id:        uuid.NewString(),
		target:    tgt,
		resolvers: make(map[string]*componentResolver, len(providers)),
	}
	s.logger = opts.Logger.With("session", s.id, "target", tgt.String())

	for _, p := range providers {
		name := p.Name()
		if _, dup := s.resolvers[name]; dup {
			return nil, errors.New(errors.ErrCodeInvalidMetadata, "provider %q appears twice in the session", name)
		}
		s.order = append(s.order, name)
		s.resolvers[name] = newComponentResolver(s, p)
	}

	if tgt.Arch.Deprecated() {
		s.logger.Warn("targeting a deprecated architecture", "arch", tgt.String())
	}
	for _, name := range s.order {
		p := s.resolvers[name].provider
		if vt, ok := p.(provider.VersionTested); ok {
			if r := vt.TestedRange(); !r.Contains(p.Version()) {
				s.logger.Warn("provider version is untested",
					"provider", name, "version", p.Version(), "tested", r)
			}
		}
	}

	return s, nil
}

// ID returns the session identifier used in log output.
func (s *Session) ID() string {
	return s.id
}

// Target returns the target the session resolves for.
func (s *Session) Target() target.Target {
	return s.target
}

// Providers returns the participating providers in session order.
func (s *Session) Providers() []provider.Provider {
	out := make([]provider.Provider, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.resolvers[name].provider)
	}
	return out
}

// ComponentParts returns one provider's full resolved table for the
// session's target: scoped name to resolved part, with unavailable
// entries as nils.
func (s *Session) ComponentParts(name string) (map[string]*part.Part, error) {
	r, ok := s.resolvers[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownProvider, "no provider %q in the session", name)
	}
	return r.table()
}

// ResolveTargets resolves the same application for several targets
// concurrently, one session per target, and returns the plans keyed by
// architecture name. The first error aborts the whole run.
func ResolveTargets(targets []target.Target, providers []provider.Provider, app Application, opts Options) (map[string]*Plan, error) {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		plans    = make(map[string]*Plan, len(targets))
		firstErr error
	)

	for _, tgt := range targets {
		wg.Add(1)
		go func(tgt target.Target) {
			defer wg.Done()

			var plan *Plan
			s, err := New(tgt, providers, opts)
			if err == nil {
				plan, err = s.Resolve(app)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			plans[tgt.String()] = plan
		}(tgt)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return plans, nil
}
