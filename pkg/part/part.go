// Package part defines the unit of inclusion handled by the resolver:
// a Part is one module, package, data file or native library offered
// by a provider, together with the version range, target predicate and
// dependency specs that decide when it applies.
//
// A Part in a provider's provides table is a template. Resolution
// never mutates templates; it works on deep copies produced by
// [Part.Clone] with the scoped name filled in.
package part

import (
	"slices"
	"strings"

	"github.com/partres/partres/pkg/version"
)

// Kind identifies the concrete payload of a part.
type Kind string

const (
	KindNativeLibrary      Kind = "native-library"
	KindExtensionModule    Kind = "extension-module"
	KindInterpretedModule  Kind = "module"
	KindInterpretedPackage Kind = "package"
	KindDataFile           Kind = "data-file"
)

// Meta holds the fields shared by every part kind.
type Meta struct {
	// Version restricts the provider versions this variant applies to.
	Version version.Range

	// Target is the target predicate gating the whole part.
	// Empty covers every target.
	Target string

	// MinAPILevel is the minimum platform API level required, for
	// platforms that version their API. Zero means no constraint.
	MinAPILevel int

	// Internal parts are not part of the public surface an
	// application may name directly.
	Internal bool

	// Core parts are unconditionally required by every application.
	Core bool

	// Deps are dependency specs ([target#][marker][component:]name).
	// After resolution they hold the scoped names of the dependencies
	// that were actually satisfied.
	Deps []string

	// HiddenDeps are dependencies whose own transitive dependencies
	// are deliberately not expanded. The use case is a part required
	// by the runtime core for a rarely used code path that would
	// otherwise drag in a large subtree.
	HiddenDeps []string
}

// Payload is the kind-specific portion of a part.
type Payload interface {
	Kind() Kind
	clone() Payload
}

// NativeLibrary is a third-party native library a provider supplies.
type NativeLibrary struct {
	// Libs are linker flags (-L/-l values or literal library files).
	Libs []string

	Defines     []string
	IncludePath []string

	// BundleSharedLibs marks the libs as shared objects that must be
	// bundled with the application.
	BundleSharedLibs bool
}

func (l *NativeLibrary) Kind() Kind { return KindNativeLibrary }

func (l *NativeLibrary) clone() Payload {
	c := *l
	c.Libs = slices.Clone(l.Libs)
	c.Defines = slices.Clone(l.Defines)
	c.IncludePath = slices.Clone(l.IncludePath)
	return &c
}

// ExtensionModule is a compiled module loadable by the embedded runtime.
type ExtensionModule struct {
	Source      []string
	Defines     []string
	Libs        []string
	IncludePath []string

	// Config carries extra toolchain configuration values passed
	// through to the build-file generator.
	Config []string
}

func (e *ExtensionModule) Kind() Kind { return KindExtensionModule }

func (e *ExtensionModule) clone() Payload {
	c := *e
	c.Source = slices.Clone(e.Source)
	c.Defines = slices.Clone(e.Defines)
	c.Libs = slices.Clone(e.Libs)
	c.IncludePath = slices.Clone(e.IncludePath)
	c.Config = slices.Clone(e.Config)
	return &c
}

// InterpretedModule is a single source module of the embedded runtime.
type InterpretedModule struct {
	// Builtin is set when the module is already embedded in the
	// interpreter library and needs no source added.
	Builtin bool
}

func (m *InterpretedModule) Kind() Kind { return KindInterpretedModule }

func (m *InterpretedModule) clone() Payload {
	c := *m
	return &c
}

// InterpretedPackage is a source package of the embedded runtime.
type InterpretedPackage struct {
	// Exclusions are file or directory patterns, relative to the
	// package, excluded when the package is frozen.
	Exclusions []string
}

func (p *InterpretedPackage) Kind() Kind { return KindInterpretedPackage }

func (p *InterpretedPackage) clone() Payload {
	c := *p
	c.Exclusions = slices.Clone(p.Exclusions)
	return &c
}

// DataFile is a bare file shipped with the application.
type DataFile struct {
	File string
}

func (d *DataFile) Kind() Kind { return KindDataFile }

func (d *DataFile) clone() Payload {
	c := *d
	return &c
}

// Part is one unit of inclusion. In a provides table the Name is
// empty; the resolver assigns the scoped name on its copy.
type Part struct {
	// Name is the scoped name (provider:unscoped), set at resolution.
	Name string

	Meta

	Payload Payload
}

// Kind returns the payload kind.
func (p *Part) Kind() Kind {
	return p.Payload.Kind()
}

// Clone returns a deep copy of the part.
func (p *Part) Clone() *Part {
	c := *p
	c.Deps = slices.Clone(p.Deps)
	c.HiddenDeps = slices.Clone(p.HiddenDeps)
	c.Payload = p.Payload.clone()
	return &c
}

// Component returns the provider portion of the part's scoped name.
func (p *Part) Component() string {
	return ComponentOf(p.Name)
}

// Unscoped returns the unscoped portion of the part's scoped name.
func (p *Part) Unscoped() string {
	return UnscopedOf(p.Name)
}

// ScopedName joins a provider name and an unscoped part name.
func ScopedName(component, name string) string {
	return component + ":" + name
}

// IsScoped reports whether name carries a provider scope.
func IsScoped(name string) bool {
	return strings.Contains(name, ":")
}

// SplitName splits a scoped name into provider and unscoped name.
// An unscoped input returns an empty provider.
func SplitName(name string) (component, unscoped string) {
	component, unscoped, ok := strings.Cut(name, ":")
	if !ok {
		return "", name
	}
	return component, unscoped
}

// ComponentOf returns the provider portion of a scoped name.
func ComponentOf(name string) string {
	component, _ := SplitName(name)
	return component
}

// UnscopedOf returns the unscoped portion of a scoped name.
func UnscopedOf(name string) string {
	_, unscoped := SplitName(name)
	return unscoped
}

// ParentOf returns the scoped name of a hierarchical part's parent
// ("py:email.mime" -> "py:email") and whether there is one.
func ParentOf(name string) (string, bool) {
	component, unscoped := SplitName(name)
	i := strings.LastIndex(unscoped, ".")
	if i < 0 {
		return "", false
	}
	if component == "" {
		return unscoped[:i], true
	}
	return ScopedName(component, unscoped[:i]), true
}
