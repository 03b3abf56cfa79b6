package resolve

import (
	"reflect"
	"testing"

	"github.com/partres/partres/pkg/errors"
	"github.com/partres/partres/pkg/part"
	"github.com/partres/partres/pkg/provider"
	"github.com/partres/partres/pkg/target"
	"github.com/partres/partres/pkg/version"
)

func mustTarget(t *testing.T, arch string) target.Target {
	t.Helper()
	tgt, err := target.New(arch)
	if err != nil {
		t.Fatalf("target.New(%q) error = %v", arch, err)
	}
	return tgt
}

func newTestSession(t *testing.T, arch string, providers ...provider.Provider) *Session {
	t.Helper()
	s, err := New(mustTarget(t, arch), providers, Options{})
	if err != nil {
		t.Fatalf("New session error = %v", err)
	}
	return s
}

func module(deps ...string) *part.Part {
	return &part.Part{Meta: part.Meta{Deps: deps}, Payload: &part.InterpretedModule{}}
}

func (s *Session) mustResolve(t *testing.T, component, name string) *part.Part {
	t.Helper()
	p, err := s.resolvers[component].resolve(name)
	if err != nil {
		t.Fatalf("resolve(%s:%s) error = %v", component, name, err)
	}
	return p
}

func TestFirstMatchVersionSelection(t *testing.T) {
	upTo5 := version.MajorOnly(5)
	tbl := part.NewTable()
	tbl.MustAdd("spam",
		&part.Part{
			Meta:    part.Meta{Version: version.Range{Max: &upTo5}},
			Payload: &part.ExtensionModule{Source: []string{"spam_v5.c"}},
		},
		&part.Part{
			Payload: &part.ExtensionModule{Source: []string{"spam_v6.c"}},
		},
	)

	tests := []struct {
		version string
		source  string
	}{
		{"5.0.0", "spam_v5.c"},
		{"5.9.9", "spam_v5.c"},
		{"6.0.0", "spam_v6.c"},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			prov := provider.MustStatic("lib", version.MustParse(tt.version), tbl)
			s := newTestSession(t, "linux-64", prov)

			p := s.mustResolve(t, "lib", "spam")
			if p == nil {
				t.Fatal("spam is unavailable")
			}
			got := p.Payload.(*part.ExtensionModule).Source[0]
			if got != tt.source {
				t.Errorf("selected source = %q, want %q", got, tt.source)
			}
		})
	}
}

func TestTargetMissIsFinal(t *testing.T) {
	// The second variant would cover win, but the first variant wins
	// the version match and its target miss must not fall through.
	tbl := part.NewTable()
	tbl.MustAdd("spam",
		&part.Part{
			Meta:    part.Meta{Target: "linux"},
			Payload: &part.ExtensionModule{Source: []string{"spam_linux.c"}},
		},
		&part.Part{
			Payload: &part.ExtensionModule{Source: []string{"spam_any.c"}},
		},
	)
	prov := provider.MustStatic("lib", version.MustParse("1.0"), tbl)

	s := newTestSession(t, "win-64", prov)
	if p := s.mustResolve(t, "lib", "spam"); p != nil {
		t.Errorf("spam resolved to %q on win, want unavailable", p.Name)
	}

	s = newTestSession(t, "linux-64", prov)
	p := s.mustResolve(t, "lib", "spam")
	if p == nil {
		t.Fatal("spam is unavailable on linux")
	}
	if got := p.Payload.(*part.ExtensionModule).Source[0]; got != "spam_linux.c" {
		t.Errorf("selected source = %q", got)
	}
}

func TestValueGating(t *testing.T) {
	tbl := part.NewTable()
	tbl.MustAdd("spam", &part.Part{
		Payload: &part.ExtensionModule{
			Source:  []string{"spammodule.c"},
			Libs:    []string{"linux#-lm", "win#-lzlib"},
			Defines: []string{"win#SPAM_WIN"},
		},
	})
	prov := provider.MustStatic("lib", version.MustParse("1.0"), tbl)

	s := newTestSession(t, "linux-64", prov)
	p := s.mustResolve(t, "lib", "spam")
	if p == nil {
		t.Fatal("spam is unavailable")
	}

	ext := p.Payload.(*part.ExtensionModule)
	if !reflect.DeepEqual(ext.Libs, []string{"-lm"}) {
		t.Errorf("Libs = %v, want [-lm]", ext.Libs)
	}
	if ext.Defines != nil {
		t.Errorf("Defines = %v, want nil after all entries were excluded", ext.Defines)
	}
	if !reflect.DeepEqual(ext.Source, []string{"spammodule.c"}) {
		t.Errorf("Source = %v", ext.Source)
	}
}

func TestRequiredDependencyPropagation(t *testing.T) {
	tbl := part.NewTable()
	tbl.MustAdd("ssl", module("missing"))
	tbl.MustAdd("smtplib", module("ssl"))
	tbl.MustAdd("poplib", module("?ssl"))
	prov := provider.MustStatic("py", version.MustParse("3.8"), tbl)

	s := newTestSession(t, "linux-64", prov)

	if p := s.mustResolve(t, "py", "ssl"); p != nil {
		t.Error("ssl resolved despite its missing required dependency")
	}
	if p := s.mustResolve(t, "py", "smtplib"); p != nil {
		t.Error("unavailability did not propagate to smtplib")
	}

	p := s.mustResolve(t, "py", "poplib")
	if p == nil {
		t.Fatal("optional dependency propagated unavailability to poplib")
	}
	if p.Deps != nil {
		t.Errorf("poplib deps = %v, want none", p.Deps)
	}
}

func TestOptionalDependencyKeptWhenAvailable(t *testing.T) {
	tbl := part.NewTable()
	tbl.MustAdd("ssl", module())
	tbl.MustAdd("poplib", module("?ssl"))
	prov := provider.MustStatic("py", version.MustParse("3.8"), tbl)

	s := newTestSession(t, "linux-64", prov)
	p := s.mustResolve(t, "py", "poplib")
	if p == nil {
		t.Fatal("poplib is unavailable")
	}
	if !reflect.DeepEqual(p.Deps, []string{"py:ssl"}) {
		t.Errorf("poplib deps = %v, want [py:ssl]", p.Deps)
	}
}

func TestNegativeConditionalDependency(t *testing.T) {
	tbl := part.NewTable()
	tbl.MustAdd("_md5", module())
	tbl.MustAdd("hashlib", module("!_md5"))
	runtime := provider.MustStatic("py", version.MustParse("3.8"), tbl).
		WithAlternateFacility("openssl")
	openssl := provider.MustStatic("openssl", version.MustParse("1.1.1"), nil)

	t.Run("AlternatePresent", func(t *testing.T) {
		s := newTestSession(t, "linux-64", runtime, openssl)
		p := s.mustResolve(t, "py", "hashlib")
		if p == nil {
			t.Fatal("hashlib is unavailable")
		}
		if p.Deps != nil {
			t.Errorf("hashlib deps = %v, want the fallback dropped", p.Deps)
		}
	})

	t.Run("AlternateAbsent", func(t *testing.T) {
		s := newTestSession(t, "linux-64", runtime)
		p := s.mustResolve(t, "py", "hashlib")
		if p == nil {
			t.Fatal("hashlib is unavailable")
		}
		if !reflect.DeepEqual(p.Deps, []string{"py:_md5"}) {
			t.Errorf("hashlib deps = %v, want [py:_md5]", p.Deps)
		}
	})

	t.Run("AlternateAbsentFallbackUnavailable", func(t *testing.T) {
		broken := part.NewTable()
		broken.MustAdd("_md5", module("missing"))
		broken.MustAdd("hashlib", module("!_md5"))
		prov := provider.MustStatic("py", version.MustParse("3.8"), broken).
			WithAlternateFacility("openssl")

		s := newTestSession(t, "linux-64", prov)
		if p := s.mustResolve(t, "py", "hashlib"); p != nil {
			t.Error("hashlib resolved without its required fallback")
		}
	})
}

func TestCrossProviderDependency(t *testing.T) {
	pyTbl := part.NewTable()
	pyTbl.MustAdd("ssl", module("openssl:libssl"))
	py := provider.MustStatic("py", version.MustParse("3.8"), pyTbl)

	sslTbl := part.NewTable()
	sslTbl.MustAdd("libssl", &part.Part{Payload: &part.NativeLibrary{Libs: []string{"-lssl"}}})
	openssl := provider.MustStatic("openssl", version.MustParse("1.1.1"), sslTbl)

	s := newTestSession(t, "linux-64", py, openssl)
	p := s.mustResolve(t, "py", "ssl")
	if p == nil {
		t.Fatal("ssl is unavailable")
	}
	if !reflect.DeepEqual(p.Deps, []string{"openssl:libssl"}) {
		t.Errorf("ssl deps = %v", p.Deps)
	}
}

func TestUnknownProvider(t *testing.T) {
	tbl := part.NewTable()
	tbl.MustAdd("ssl", module("ghost:libssl"))
	tbl.MustAdd("zlib", module("?ghost:libz"))
	prov := provider.MustStatic("py", version.MustParse("3.8"), tbl)

	s := newTestSession(t, "linux-64", prov)

	_, err := s.resolvers["py"].resolve("ssl")
	if !errors.Is(err, errors.ErrCodeUnknownProvider) {
		t.Errorf("required dep on unknown provider: error = %v, want UNKNOWN_PROVIDER", err)
	}

	// An optional dependency never propagates anything, not even an
	// unknown provider.
	p := s.mustResolve(t, "py", "zlib")
	if p == nil {
		t.Error("optional dep on unknown provider made zlib unavailable")
	}
}

func TestCycleResolvesOptimistically(t *testing.T) {
	tbl := part.NewTable()
	tbl.MustAdd("a", module("b"))
	tbl.MustAdd("b", module("a"))
	prov := provider.MustStatic("py", version.MustParse("3.8"), tbl)

	s := newTestSession(t, "linux-64", prov)
	a := s.mustResolve(t, "py", "a")
	b := s.mustResolve(t, "py", "b")
	if a == nil || b == nil {
		t.Fatal("mutual cycle did not resolve")
	}
	if !reflect.DeepEqual(a.Deps, []string{"py:b"}) || !reflect.DeepEqual(b.Deps, []string{"py:a"}) {
		t.Errorf("cycle deps = %v / %v", a.Deps, b.Deps)
	}
}

func TestComponentPartsIncludesUnavailable(t *testing.T) {
	tbl := part.NewTable()
	tbl.MustAdd("posix", &part.Part{Meta: part.Meta{Target: "!win"}, Payload: &part.InterpretedModule{}})
	tbl.MustAdd("os", module())
	prov := provider.MustStatic("py", version.MustParse("3.8"), tbl)

	s := newTestSession(t, "win-64", prov)
	parts, err := s.ComponentParts("py")
	if err != nil {
		t.Fatalf("ComponentParts error = %v", err)
	}

	if got, ok := parts["py:posix"]; !ok || got != nil {
		t.Errorf("parts[py:posix] = (%v, %v), want a present nil entry", got, ok)
	}
	if parts["py:os"] == nil {
		t.Error("parts[py:os] is unavailable")
	}

	if _, err := s.ComponentParts("ghost"); !errors.Is(err, errors.ErrCodeUnknownProvider) {
		t.Errorf("ComponentParts(ghost) error = %v, want UNKNOWN_PROVIDER", err)
	}
}

func TestTemplatesNeverMutated(t *testing.T) {
	build := func() *part.Table {
		tbl := part.NewTable()
		tbl.MustAdd("ssl", &part.Part{
			Meta: part.Meta{Deps: []string{"?zlib", "openssl:libssl"}},
			Payload: &part.ExtensionModule{
				Source: []string{"sslmodule.c"},
				Libs:   []string{"linux#-lssl"},
			},
		})
		tbl.MustAdd("zlib", module())
		return tbl
	}

	tbl := build()
	want := build()

	py := provider.MustStatic("py", version.MustParse("3.8"), tbl)
	sslTbl := part.NewTable()
	sslTbl.MustAdd("libssl", &part.Part{Payload: &part.NativeLibrary{}})
	openssl := provider.MustStatic("openssl", version.MustParse("1.1.1"), sslTbl)

	resolveOnce := func() []*part.Part {
		s := newTestSession(t, "linux-64", py, openssl)
		return []*part.Part{s.mustResolve(t, "py", "ssl"), s.mustResolve(t, "py", "zlib")}
	}

	first := resolveOnce()
	second := resolveOnce()

	if !reflect.DeepEqual(first, second) {
		t.Error("two sessions over identical inputs disagree")
	}
	for _, name := range want.Names() {
		if !reflect.DeepEqual(tbl.Variants(name), want.Variants(name)) {
			t.Errorf("template %q was mutated by resolution", name)
		}
	}
}
