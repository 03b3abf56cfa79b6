// Package manifest loads declarative resolution metadata from TOML
// files: the providers file describing every component and its parts,
// and the project file describing the application to resolve.
//
// The files feed the construction of [provider.Provider] values; the
// resolver itself never touches the filesystem.
package manifest

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/partres/partres/pkg/errors"
	"github.com/partres/partres/pkg/part"
	"github.com/partres/partres/pkg/provider"
	"github.com/partres/partres/pkg/version"
)

type providersFile struct {
	Providers []providerDecl `toml:"provider"`
}

type providerDecl struct {
	Name              string     `toml:"name"`
	Version           string     `toml:"version"`
	AlternateFacility string     `toml:"alternate-facility"`
	TestedMin         string     `toml:"tested-min"`
	TestedMax         string     `toml:"tested-max"`
	Parts             []partDecl `toml:"part"`
}

type partDecl struct {
	Name        string   `toml:"name"`
	Kind        string   `toml:"kind"`
	Version     string   `toml:"version"`
	MinVersion  string   `toml:"min-version"`
	MaxVersion  string   `toml:"max-version"`
	Target      string   `toml:"target"`
	MinAPILevel int      `toml:"min-api-level"`
	Internal    bool     `toml:"internal"`
	Core        bool     `toml:"core"`
	Deps        []string `toml:"deps"`
	HiddenDeps  []string `toml:"hidden-deps"`

	// Kind-specific payload fields. Only the ones matching the
	// declared kind are read.
	Source           []string `toml:"source"`
	Defines          []string `toml:"defines"`
	Libs             []string `toml:"libs"`
	IncludePath      []string `toml:"includepath"`
	Config           []string `toml:"config"`
	BundleSharedLibs bool     `toml:"bundle-shared-libs"`
	Builtin          bool     `toml:"builtin"`
	Exclusions       []string `toml:"exclusions"`
	File             string   `toml:"file"`
}

// LoadProviders reads a providers manifest and builds every declared
// provider at its declared version. Multiple part entries under the
// same name become that part's variants, in file order.
func LoadProviders(path string) ([]provider.Provider, error) {
	decls, err := loadDecls(path)
	if err != nil {
		return nil, err
	}

	providers := make([]provider.Provider, 0, len(decls))
	for _, d := range decls {
		if d.Version == "" {
			return nil, errors.New(errors.ErrCodeInvalidManifest, "provider %q declares no version", d.Name)
		}
		v, err := version.Parse(d.Version)
		if err != nil {
			return nil, err
		}
		p, err := buildProvider(d, v)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, nil
}

// RegisterProviders reads a providers manifest and registers one
// factory per declared provider. The factory accepts a "version"
// option; when unset, the version declared in the manifest is used.
func RegisterProviders(reg *provider.Registry, path string) error {
	decls, err := loadDecls(path)
	if err != nil {
		return err
	}

	for _, d := range decls {
		versionOption := provider.VersionOption
		versionOption.Required = false
		versionOption.Default = d.Version
		options := []provider.Option{versionOption}

		decl := d
		err := reg.Register(d.Name, func(cfg provider.Config) (provider.Provider, error) {
			values, err := cfg.Apply(options)
			if err != nil {
				return nil, err
			}
			v, err := provider.ParseVersion(values)
			if err != nil {
				return nil, err
			}
			return buildProvider(decl, v)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func loadDecls(path string) ([]providerDecl, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", path)
	}

	var file providersFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", path)
	}
	if len(file.Providers) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "%s declares no providers", path)
	}
	return file.Providers, nil
}

func buildProvider(d providerDecl, v version.Number) (provider.Provider, error) {
	tbl := part.NewTable()

	// Consecutive or scattered entries under one name are that part's
	// variants, in file order.
	var names []string
	variants := make(map[string][]*part.Part)
	for _, pd := range d.Parts {
		p, err := buildPart(d.Name, pd)
		if err != nil {
			return nil, err
		}
		if _, seen := variants[pd.Name]; !seen {
			names = append(names, pd.Name)
		}
		variants[pd.Name] = append(variants[pd.Name], p)
	}
	for _, name := range names {
		if err := tbl.Add(name, variants[name]...); err != nil {
			return nil, err
		}
	}

	prov, err := provider.NewStatic(d.Name, v, tbl)
	if err != nil {
		return nil, err
	}
	if d.AlternateFacility != "" {
		prov = prov.WithAlternateFacility(d.AlternateFacility)
	}

	tested, err := testedRange(d)
	if err != nil {
		return nil, err
	}
	if tested != nil {
		prov = prov.WithTestedRange(*tested)
	}
	return prov, nil
}

func testedRange(d providerDecl) (*version.Range, error) {
	if d.TestedMin == "" && d.TestedMax == "" {
		return nil, nil
	}

	r := &version.Range{}
	if d.TestedMin != "" {
		b, err := version.ParseBound(d.TestedMin)
		if err != nil {
			return nil, err
		}
		r.Min = &b
	}
	if d.TestedMax != "" {
		b, err := version.ParseBound(d.TestedMax)
		if err != nil {
			return nil, err
		}
		r.Max = &b
	}
	return r, nil
}

func buildPart(providerName string, d partDecl) (*part.Part, error) {
	if d.Name == "" {
		return nil, errors.New(errors.ErrCodeInvalidMetadata, "provider %q declares a part without a name", providerName)
	}

	vrange, err := versionRange(d)
	if err != nil {
		return nil, err
	}

	payload, err := buildPayload(providerName, d)
	if err != nil {
		return nil, err
	}

	return &part.Part{
		Meta: part.Meta{
			Version:     vrange,
			Target:      d.Target,
			MinAPILevel: d.MinAPILevel,
			Internal:    d.Internal,
			Core:        d.Core,
			Deps:        d.Deps,
			HiddenDeps:  d.HiddenDeps,
		},
		Payload: payload,
	}, nil
}

func versionRange(d partDecl) (version.Range, error) {
	r := version.Range{}

	if d.Version != "" {
		b, err := version.ParseBound(d.Version)
		if err != nil {
			return r, err
		}
		r.Exact = &b
		return r, nil
	}

	if d.MinVersion != "" {
		b, err := version.ParseBound(d.MinVersion)
		if err != nil {
			return r, err
		}
		r.Min = &b
	}
	if d.MaxVersion != "" {
		b, err := version.ParseBound(d.MaxVersion)
		if err != nil {
			return r, err
		}
		r.Max = &b
	}
	return r, nil
}

func buildPayload(providerName string, d partDecl) (part.Payload, error) {
	switch part.Kind(d.Kind) {
	case part.KindNativeLibrary:
		return &part.NativeLibrary{
			Libs:             d.Libs,
			Defines:          d.Defines,
			IncludePath:      d.IncludePath,
			BundleSharedLibs: d.BundleSharedLibs,
		}, nil
	case part.KindExtensionModule:
		return &part.ExtensionModule{
			Source:      d.Source,
			Defines:     d.Defines,
			Libs:        d.Libs,
			IncludePath: d.IncludePath,
			Config:      d.Config,
		}, nil
	case part.KindInterpretedModule:
		return &part.InterpretedModule{Builtin: d.Builtin}, nil
	case part.KindInterpretedPackage:
		return &part.InterpretedPackage{Exclusions: d.Exclusions}, nil
	case part.KindDataFile:
		return &part.DataFile{File: d.File}, nil
	case "":
		return nil, errors.New(errors.ErrCodeInvalidMetadata, "part %q of %q declares no kind", d.Name, providerName)
	default:
		return nil, errors.New(errors.ErrCodeInvalidMetadata, "part %q of %q has unknown kind %q", d.Name, providerName, d.Kind)
	}
}
