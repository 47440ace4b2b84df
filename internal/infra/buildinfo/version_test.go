package buildinfo

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
	if info.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Errorf("Platform = %q", info.Platform)
	}
	if info.Version == "" {
		t.Error("Version should never be empty")
	}
}

func TestFillFromBuildInfo(t *testing.T) {
	tests := []struct {
		name string
		in   Info
		bi   debug.BuildInfo
		want Info
	}{
		{
			name: "vcs settings fill unknowns",
			in:   Info{Version: "dev", Commit: "unknown", BuildTime: "unknown"},
			bi: debug.BuildInfo{
				Main: debug.Module{Version: "v1.2.3"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc123"},
					{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
				},
			},
			want: Info{Version: "v1.2.3", Commit: "abc123", BuildTime: "2026-01-02T03:04:05Z"},
		},
		{
			name: "ldflags win",
			in:   Info{Version: "v9.0.0", Commit: "deadbeef", BuildTime: "yesterday"},
			bi: debug.BuildInfo{
				Main:     debug.Module{Version: "v1.2.3"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
			},
			want: Info{Version: "v9.0.0", Commit: "deadbeef", BuildTime: "yesterday"},
		},
		{
			name: "devel main module",
			in:   Info{Version: "dev", Commit: "unknown", BuildTime: "unknown"},
			bi:   debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			want: Info{Version: "dev", Commit: "unknown", BuildTime: "unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in
			fillFromBuildInfo(&got, &tt.bi)
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.Contains(s, Get().Version) || !strings.Contains(s, runtime.GOOS) {
		t.Errorf("String() = %q", s)
	}
}
