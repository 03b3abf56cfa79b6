package resolve

import (
	"slices"
	"strings"

	"github.com/partres/partres/pkg/part"
)

// BuildFlags is the aggregated view of a plan that the downstream
// build-file generator consumes. Every list is sorted and
// deduplicated so the generated output is reproducible.
type BuildFlags struct {
	// Sources are the extension module source files to compile.
	Sources []string

	// Defines are preprocessor definitions.
	Defines []string

	// IncludePaths are header search directories.
	IncludePaths []string

	// LinkFlags are the raw linker values, -L/-l or literal files.
	LinkFlags []string

	// LibraryDirs are the search directories contributed by -L flags.
	LibraryDirs []string

	// Libraries are the names contributed by -l flags.
	Libraries []string

	// BundledLibs are library names resolved to shared objects that
	// must ship with the application.
	BundledLibs []string

	// Modules are the unscoped names of the interpreted modules and
	// packages that need freezing. Builtins are already in the
	// interpreter library and excluded.
	Modules []string

	// Extensions are the unscoped registration names of the extension
	// modules, for the interpreter's built-in module table.
	Extensions []string
}

// Flags partitions the plan by part kind into the build value lists.
// Every value is already target- and version-resolved, so this is a
// pure reshaping pass.
func (p *Plan) Flags() BuildFlags {
	f := BuildFlags{}

	for _, prt := range p.Parts() {
		switch pl := prt.Payload.(type) {
		case *part.NativeLibrary:
			f.Defines = append(f.Defines, pl.Defines...)
			f.IncludePaths = append(f.IncludePaths, pl.IncludePath...)
			f.addLibs(pl.Libs, pl.BundleSharedLibs)
		case *part.ExtensionModule:
			f.Sources = append(f.Sources, pl.Source...)
			f.Defines = append(f.Defines, pl.Defines...)
			f.IncludePaths = append(f.IncludePaths, pl.IncludePath...)
			f.addLibs(pl.Libs, false)
			f.Extensions = append(f.Extensions, prt.Unscoped())
		case *part.InterpretedModule:
			if !pl.Builtin {
				f.Modules = append(f.Modules, prt.Unscoped())
			}
		case *part.InterpretedPackage:
			f.Modules = append(f.Modules, prt.Unscoped())
		}
	}

	f.Sources = sortUnique(f.Sources)
	f.Defines = sortUnique(f.Defines)
	f.IncludePaths = sortUnique(f.IncludePaths)
	f.LinkFlags = sortUnique(f.LinkFlags)
	f.LibraryDirs = sortUnique(f.LibraryDirs)
	f.Libraries = sortUnique(f.Libraries)
	f.BundledLibs = sortUnique(f.BundledLibs)
	f.Modules = sortUnique(f.Modules)
	f.Extensions = sortUnique(f.Extensions)
	return f
}

// addLibs records raw lib values, splitting out the -L search-path and
// -l library-name contributions. The -l names of a bundled native
// library identify the shared objects to ship.
func (f *BuildFlags) addLibs(libs []string, bundled bool) {
	for _, l := range libs {
		f.LinkFlags = append(f.LinkFlags, l)
		switch {
		case strings.HasPrefix(l, "-L"):
			f.LibraryDirs = append(f.LibraryDirs, l[2:])
		case strings.HasPrefix(l, "-l"):
			f.Libraries = append(f.Libraries, l[2:])
			if bundled {
				f.BundledLibs = append(f.BundledLibs, l[2:])
			}
		}
	}
}

func sortUnique(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	slices.Sort(values)
	return slices.Compact(values)
}
