package part

import (
	"testing"

	"github.com/partres/partres/pkg/errors"
)

func TestParseDep(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    Dep
		wantErr bool
	}{
		{
			name: "Bare",
			spec: "os",
			want: Dep{Component: "py", Name: "os"},
		},
		{
			name: "Scoped",
			spec: "openssl:ssl",
			want: Dep{Component: "openssl", Name: "ssl"},
		},
		{
			name: "Optional",
			spec: "?ssl",
			want: Dep{Component: "py", Name: "ssl", Optional: true},
		},
		{
			name: "OptionalScoped",
			spec: "?openssl:ssl",
			want: Dep{Component: "openssl", Name: "ssl", Optional: true},
		},
		{
			name: "NegativeConditional",
			spec: "!_md5",
			want: Dep{Component: "py", Name: "_md5", Unless: true},
		},
		{
			name: "TargetGate",
			spec: "win#msvcrt",
			want: Dep{Component: "py", Name: "msvcrt", Target: "win"},
		},
		{
			name: "NegatedTargetGate",
			spec: "!win#pwd",
			want: Dep{Component: "py", Name: "pwd", Target: "!win"},
		},
		{
			name: "AlternationGate",
			spec: "ios|macos#_osx_support",
			want: Dep{Component: "py", Name: "_osx_support", Target: "ios|macos"},
		},
		{
			name: "GateThenMarker",
			spec: "!win#?pwd",
			want: Dep{Component: "py", Name: "pwd", Target: "!win", Optional: true},
		},
		{
			name: "DottedName",
			spec: "!win#asyncio.unix_events",
			want: Dep{Component: "py", Name: "asyncio.unix_events", Target: "!win"},
		},
		{"Empty", "", Dep{}, true},
		{"MarkerOnly", "?", Dep{}, true},
		{"EmptyGate", "#os", Dep{}, true},
		{"EmptyName", "py:", Dep{}, true},
		{"DoubleScope", "a:b:c", Dep{}, true},
		{"EmptyComponent", ":ssl", Dep{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDep("py", tt.spec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDep(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidMetadata) {
					t.Errorf("error code = %q, want INVALID_METADATA", errors.GetCode(err))
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseDep(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestDepScoped(t *testing.T) {
	d := Dep{Component: "openssl", Name: "ssl"}
	if got := d.Scoped(); got != "openssl:ssl" {
		t.Errorf("Scoped() = %q", got)
	}
}

func TestTargetedValue(t *testing.T) {
	tests := []struct {
		value string
		gate  string
		bare  string
	}{
		{"-lm", "", "-lm"},
		{"linux#-lm", "linux", "-lm"},
		{"!win#-lz", "!win", "-lz"},
		{"win#-lzlib", "win", "-lzlib"},
	}

	for _, tt := range tests {
		gate, bare := TargetedValue(tt.value)
		if gate != tt.gate || bare != tt.bare {
			t.Errorf("TargetedValue(%q) = (%q, %q), want (%q, %q)", tt.value, gate, bare, tt.gate, tt.bare)
		}
	}
}
