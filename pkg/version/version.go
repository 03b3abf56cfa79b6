// Package version implements parsed version numbers with
// partial-precision comparison.
//
// A [Number] is a fully resolved major.minor.patch version with an
// optional suffix ("5.15.2", "1.1.1g"). A [Bound] is the right-hand
// side of a comparison and carries an explicit precision: comparing a
// Number against the bound Prefix(3, 6) only considers the major and
// minor components, so every 3.6.x release is "equal" to it. Metadata
// uses bounds to express constraints like "applies to any 3.6.x"
// without enumerating patch releases.
//
// Comparison is asymmetric by design: precision always comes from the
// bound, never from the Number.
package version

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/partres/partres/pkg/errors"
)

// Number is a parsed version number. The zero value is version 0.0.0.
type Number struct {
	Major  int
	Minor  int
	Patch  int
	Suffix string
}

// String returns the version number in M.m.p<suffix> form.
func (n Number) String() string {
	return fmt.Sprintf("%d.%d.%d%s", n.Major, n.Minor, n.Patch, n.Suffix)
}

// IsZero reports whether the number is the zero value.
func (n Number) IsZero() bool {
	return n == Number{}
}

// Parse parses a version number of the form M[.m[.p]][suffix].
// Missing components default to zero. The suffix starts at the first
// non-digit character of the last component ("1.1.1g" has suffix "g").
func Parse(s string) (Number, error) {
	parts := strings.SplitN(s, ".", 3)

	// Split the last part into a leading integer and any suffix.
	last := parts[len(parts)-1]
	parts = parts[:len(parts)-1]

	intPart := ""
	suffix := ""
	for i, ch := range last {
		if ch >= '0' && ch <= '9' {
			intPart += string(ch)
		} else {
			suffix = last[i:]
			break
		}
	}

	if intPart != "" {
		parts = append(parts, intPart)
	} else if len(parts) == 0 {
		return Number{}, errors.New(errors.ErrCodeInvalidVersion, "%q has no major number", s)
	}

	names := [3]string{"major", "minor", "patch"}
	nums := [3]int{}
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return Number{}, errors.New(errors.ErrCodeInvalidVersion, "the %s number of %q is invalid", names[i], s)
		}
		nums[i] = v
	}

	return Number{Major: nums[0], Minor: nums[1], Patch: nums[2], Suffix: suffix}, nil
}

// MustParse is like Parse but panics on error. For use with literals
// in static metadata tables.
func MustParse(s string) Number {
	n, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

// FromHex decodes a version number packed as 0x00MMmmpp (one byte per
// component), the encoding used by C-style version macros.
func FromHex(v int) Number {
	return Number{
		Major: (v >> 16) & 0xff,
		Minor: (v >> 8) & 0xff,
		Patch: v & 0xff,
	}
}

// Bound precision levels. A bound compares only the components within
// its precision; anything finer is always considered equal.
const (
	precMajor  = 1
	precMinor  = 2
	precPatch  = 3
	precSuffix = 4
)

// Bound is a comparison bound with explicit precision.
type Bound struct {
	n    Number
	prec int
}

// MajorOnly returns a bound that compares only the major component.
func MajorOnly(major int) Bound {
	return Bound{n: Number{Major: major}, prec: precMajor}
}

// Prefix returns a bound from one to three leading components.
// Prefix(3, 6) matches every 3.6.x version in an equality test.
func Prefix(parts ...int) Bound {
	if len(parts) < 1 || len(parts) > 3 {
		panic("version: a bound needs between 1 and 3 components")
	}
	b := Bound{prec: len(parts)}
	b.n.Major = parts[0]
	if len(parts) > 1 {
		b.n.Minor = parts[1]
	}
	if len(parts) > 2 {
		b.n.Patch = parts[2]
	}
	return b
}

// Exact returns a full-precision bound, including the suffix.
func Exact(n Number) Bound {
	return Bound{n: n, prec: precSuffix}
}

// ParseBound parses a bound whose precision follows the text: "3" has
// major precision, "3.7" minor, "3.7.2" patch and "3.7.2rc1" full.
func ParseBound(s string) (Bound, error) {
	n, err := Parse(s)
	if err != nil {
		return Bound{}, err
	}

	if n.Suffix != "" {
		return Bound{n: n, prec: precSuffix}, nil
	}

	prec := strings.Count(s, ".") + 1
	if prec > precPatch {
		prec = precPatch
	}
	return Bound{n: n, prec: prec}, nil
}

// String returns the bound limited to its precision.
func (b Bound) String() string {
	switch b.prec {
	case precMajor:
		return strconv.Itoa(b.n.Major)
	case precMinor:
		return fmt.Sprintf("%d.%d", b.n.Major, b.n.Minor)
	case precPatch:
		return fmt.Sprintf("%d.%d.%d", b.n.Major, b.n.Minor, b.n.Patch)
	default:
		return b.n.String()
	}
}

// EQ reports whether n equals the bound, to the bound's precision.
func (n Number) EQ(b Bound) bool {
	if n.Major != b.n.Major {
		return false
	}
	if b.prec < precMinor {
		return true
	}
	if n.Minor != b.n.Minor {
		return false
	}
	if b.prec < precPatch {
		return true
	}
	if n.Patch != b.n.Patch {
		return false
	}
	if b.prec < precSuffix {
		return true
	}
	return n.Suffix == b.n.Suffix
}

// GE reports whether n is greater than or equal to the bound.
func (n Number) GE(b Bound) bool {
	if n.Major != b.n.Major {
		return n.Major > b.n.Major
	}
	if b.prec < precMinor {
		return true
	}
	if n.Minor != b.n.Minor {
		return n.Minor > b.n.Minor
	}
	if b.prec < precPatch {
		return true
	}
	if n.Patch != b.n.Patch {
		return n.Patch > b.n.Patch
	}
	if b.prec < precSuffix {
		return true
	}
	return n.Suffix >= b.n.Suffix
}

// GT reports whether n is greater than the bound. A version within the
// bound's precision window is not greater: 3.6.4 is not GT Prefix(3, 6).
func (n Number) GT(b Bound) bool {
	if n.Major != b.n.Major {
		return n.Major > b.n.Major
	}
	if b.prec < precMinor {
		return false
	}
	if n.Minor != b.n.Minor {
		return n.Minor > b.n.Minor
	}
	if b.prec < precPatch {
		return false
	}
	if n.Patch != b.n.Patch {
		return n.Patch > b.n.Patch
	}
	if b.prec < precSuffix {
		return false
	}
	return n.Suffix > b.n.Suffix
}

// LE reports whether n is less than or equal to the bound.
func (n Number) LE(b Bound) bool {
	if n.Major != b.n.Major {
		return n.Major < b.n.Major
	}
	if b.prec < precMinor {
		return true
	}
	if n.Minor != b.n.Minor {
		return n.Minor < b.n.Minor
	}
	if b.prec < precPatch {
		return true
	}
	if n.Patch != b.n.Patch {
		return n.Patch < b.n.Patch
	}
	if b.prec < precSuffix {
		return true
	}
	return n.Suffix <= b.n.Suffix
}

// LT reports whether n is less than the bound.
func (n Number) LT(b Bound) bool {
	if n.Major != b.n.Major {
		return n.Major < b.n.Major
	}
	if b.prec < precMinor {
		return false
	}
	if n.Minor != b.n.Minor {
		return n.Minor < b.n.Minor
	}
	if b.prec < precPatch {
		return false
	}
	if n.Patch != b.n.Patch {
		return n.Patch < b.n.Patch
	}
	if b.prec < precSuffix {
		return false
	}
	return n.Suffix < b.n.Suffix
}

// Range restricts the provider versions a part variant applies to.
// An exact bound wins over min/max; the zero Range matches everything.
type Range struct {
	Exact *Bound
	Min   *Bound
	Max   *Bound
}

// Contains reports whether the range applies to version n.
func (r Range) Contains(n Number) bool {
	if r.Exact != nil {
		return n.EQ(*r.Exact)
	}
	if r.Min != nil && n.LT(*r.Min) {
		return false
	}
	if r.Max != nil && n.GT(*r.Max) {
		return false
	}
	return true
}

// String renders the range for diagnostics.
func (r Range) String() string {
	switch {
	case r.Exact != nil:
		return "==" + r.Exact.String()
	case r.Min != nil && r.Max != nil:
		return fmt.Sprintf(">=%s <=%s", r.Min, r.Max)
	case r.Min != nil:
		return ">=" + r.Min.String()
	case r.Max != nil:
		return "<=" + r.Max.String()
	default:
		return "*"
	}
}
