package version

import (
	"strings"
	"testing"
)

func TestBuildInfo(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if BuildTime == "" || GitCommit == "" {
		t.Error("build metadata should be initialized")
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, "statestore ") {
		t.Fatalf("unexpected version string %q", s)
	}
	if !strings.Contains(s, GitCommit) {
		t.Fatalf("expected commit in %q", s)
	}
}
