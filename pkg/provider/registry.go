package provider

import (
	"github.com/partres/partres/pkg/errors"
	"github.com/partres/partres/pkg/version"
)

// Config carries the host-supplied options for one provider, keyed by
// option name. Values are strings; factories parse them as needed.
type Config map[string]string

// Option describes one configurable option a factory accepts.
type Option struct {
	// Name is the option key in a Config.
	Name string

	// Required options must be present in the Config.
	Required bool

	// Default is used when an optional option is absent.
	Default string

	// Help describes the option for diagnostics.
	Help string
}

// VersionOption is the option every provider accepts: its resolved
// version number.
var VersionOption = Option{
	Name:     "version",
	Required: true,
	Help:     "The version number of the component.",
}

// Apply validates cfg against the declared options and returns the
// effective values with defaults filled in. Unknown keys and missing
// required options are INVALID_OPTION errors.
func (c Config) Apply(options []Option) (map[string]string, error) {
	known := make(map[string]bool, len(options))
	values := make(map[string]string, len(options))

	for _, opt := range options {
		known[opt.Name] = true

		v, ok := c[opt.Name]
		if !ok {
			if opt.Required {
				return nil, errors.New(errors.ErrCodeInvalidOption, "%q has not been specified", opt.Name)
			}
			v = opt.Default
		}
		values[opt.Name] = v
	}

	for k := range c {
		if !known[k] {
			return nil, errors.New(errors.ErrCodeInvalidOption, "unknown option %q", k)
		}
	}

	return values, nil
}

// ParseVersion resolves the mandatory version option from an applied
// config.
func ParseVersion(values map[string]string) (version.Number, error) {
	return version.Parse(values[VersionOption.Name])
}

// Factory builds a configured provider.
type Factory func(cfg Config) (Provider, error)

// Registry maps provider names to factories. It replaces the original
// design's filesystem plugin discovery: the host process registers
// every component it is willing to use.
type Registry struct {
	names     []string
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under a provider name.
func (r *Registry) Register(name string, f Factory) error {
	if err := errors.ValidateProviderName(name); err != nil {
		return err
	}
	if _, dup := r.factories[name]; dup {
		return errors.New(errors.ErrCodeInvalidMetadata, "provider %q is registered twice", name)
	}
	r.names = append(r.names, name)
	r.factories[name] = f
	return nil
}

// Names returns the registered provider names in registration order.
func (r *Registry) Names() []string {
	return r.names
}

// Build constructs the named provider with the given configuration.
func (r *Registry) Build(name string, cfg Config) (Provider, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownProvider, "no provider %q is registered", name)
	}
	return f(cfg)
}
