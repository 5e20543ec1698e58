package main

import (
	"runtime/debug"
	"testing"
)

func TestResolveVersion(t *testing.T) {
	tests := []struct {
		name    string
		ldflags string
		info    *debug.BuildInfo
		want    string
	}{
		// Release builds inject the tag with -ldflags "-X main.version=...".
		{"prefers ldflags", "v1.2.3", &debug.BuildInfo{Main: debug.Module{Version: "v0.0.0"}}, "v1.2.3"},
		// go install github.com/gauthierbraillon/playlistmix/cmd/playlistmix@v1.2.3
		{"falls back to module version", "dev", &debug.BuildInfo{Main: debug.Module{Version: "v1.2.3"}}, "v1.2.3"},
		{"ignores (devel)", "dev", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, "dev"},
		{"ignores empty module version", "dev", &debug.BuildInfo{}, "dev"},
		{"nil build info", "dev", nil, "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveVersion(tt.ldflags, tt.info); got != tt.want {
				t.Errorf("resolveVersion(%q) = %q, want %q", tt.ldflags, got, tt.want)
			}
		})
	}
}
