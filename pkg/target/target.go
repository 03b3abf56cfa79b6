// Package target models the deployment targets a part can be built
// for: named platforms, their architectures, and the predicate
// expressions metadata uses to gate parts and individual values to a
// subset of targets.
//
// The tables are static. Every architecture belongs to exactly one
// platform and architecture names embed the platform name
// ("linux-64" belongs to "linux"). Predicate evaluation is a pure
// function of the predicate text and the target; naming an unknown
// platform or architecture is a fatal configuration error, never a
// silent false.
package target

import (
	"strings"

	"github.com/partres/partres/pkg/errors"
)

// Platform is a named operating system target.
type Platform struct {
	// Name is the short name used in metadata ("linux", "win").
	Name string

	// FullName is the human-readable name ("Linux", "Windows").
	FullName string

	// VersionedAPI is set when the platform gates parts by a numeric
	// API level (android).
	VersionedAPI bool

	archs []*Architecture
}

// Architectures returns the platform's architectures in declaration order.
func (p *Platform) Architectures() []*Architecture {
	return p.archs
}

// Architecture is a named platform/word-size combination.
type Architecture struct {
	// Name is the architecture name used in metadata ("linux-64").
	Name string

	// Platform is the owning platform.
	Platform *Platform
}

// Deprecated reports whether the architecture is still accepted but
// scheduled for removal. 32-bit desktop targets survive only for old
// toolchains.
func (a *Architecture) Deprecated() bool {
	return a.Name == "linux-32" || a.Name == "win-32"
}

// The platform and architecture tables, in alphabetical order.
var (
	android = newPlatform("Android", "android", true, "android-32", "android-64")
	ios     = newPlatform("iOS", "ios", false, "ios-64")
	linux   = newPlatform("Linux", "linux", false, "linux-32", "linux-64")
	macos   = newPlatform("macOS", "macos", false, "macos-64")
	win     = newPlatform("Windows", "win", false, "win-32", "win-64")

	platforms = []*Platform{android, ios, linux, macos, win}
)

func newPlatform(fullName, name string, versionedAPI bool, archNames ...string) *Platform {
	p := &Platform{Name: name, FullName: fullName, VersionedAPI: versionedAPI}
	for _, an := range archNames {
		p.archs = append(p.archs, &Architecture{Name: an, Platform: p})
	}
	return p
}

// Platforms returns all supported platforms.
func Platforms() []*Platform {
	return platforms
}

// Architectures returns all supported architectures across platforms.
func Architectures() []*Architecture {
	var archs []*Architecture
	for _, p := range platforms {
		archs = append(archs, p.archs...)
	}
	return archs
}

// PlatformByName returns the platform with the given short name.
func PlatformByName(name string) (*Platform, error) {
	for _, p := range platforms {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidTarget, "%q is not a supported platform", name)
}

// ArchByName returns the architecture with the given name. A bare
// platform name selects the platform's first architecture, matching
// how command lines accept "linux" for "linux-32".
func ArchByName(name string) (*Architecture, error) {
	for _, a := range Architectures() {
		if a.Name == name {
			return a, nil
		}
		if a.Platform.Name == name {
			return a, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidTarget, "%q is not a supported architecture", name)
}

// Target describes the architecture a resolution session is for.
type Target struct {
	// Arch is the target architecture.
	Arch *Architecture

	// APILevel is the platform API level being targeted, for platforms
	// with VersionedAPI set. Zero means unspecified.
	APILevel int
}

// New builds a Target from an architecture name.
func New(archName string) (Target, error) {
	arch, err := ArchByName(archName)
	if err != nil {
		return Target{}, err
	}
	return Target{Arch: arch}, nil
}

// Platform returns the target's platform.
func (t Target) Platform() *Platform {
	return t.Arch.Platform
}

// String returns the architecture name.
func (t Target) String() string {
	return t.Arch.Name
}

// Covers evaluates a target predicate against t.
//
// The grammar, in evaluation order:
//   - empty string: always covered
//   - "a|b|...": covered when the target's platform name or exact
//     architecture name appears in the list
//   - "!name": covered when the target's platform is NOT the named one
//   - a name containing '-': covered only by that exact architecture
//   - a bare name: covered when the target's platform matches
func Covers(predicate string, t Target) (bool, error) {
	if predicate == "" {
		return true, nil
	}

	if names := strings.Split(predicate, "|"); len(names) > 1 {
		covered := false
		for _, name := range names {
			if strings.Contains(name, "-") {
				arch, err := ArchByName(name)
				if err != nil {
					return false, err
				}
				covered = covered || t.Arch == arch
			} else {
				platform, err := PlatformByName(name)
				if err != nil {
					return false, err
				}
				covered = covered || t.Platform() == platform
			}
		}
		return covered, nil
	}

	if negated, ok := strings.CutPrefix(predicate, "!"); ok {
		// A negation always names a platform, not an architecture.
		platform, err := PlatformByName(negated)
		if err != nil {
			return false, err
		}
		return t.Platform() != platform, nil
	}

	if strings.Contains(predicate, "-") {
		arch, err := ArchByName(predicate)
		if err != nil {
			return false, err
		}
		return t.Arch == arch, nil
	}

	platform, err := PlatformByName(predicate)
	if err != nil {
		return false, err
	}
	return t.Platform() == platform, nil
}
