package version

import (
	"strings"
	"testing"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestColored(t *testing.T) {
	origVersion := Version
	defer func() { Version = origVersion }()

	tests := []struct {
		version string
		want    string
	}{
		{"1.2.3", "1.2.3"},
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3-rc.1+build.123", "1.2.3-rc.1+build.123"},
		{"dev", "dev"},
	}
	for _, tt := range tests {
		Version = tt.version
		if got := Colored(false); got != tt.want {
			t.Errorf("Colored(false) with %q = %q, want %q", tt.version, got, tt.want)
		}
	}

	Version = "1.2.3-dev"
	got := Colored(true)
	if !strings.Contains(got, "\x1b[") || !strings.HasSuffix(got, "-dev") {
		t.Errorf("Colored(true) = %q", got)
	}
}

func TestVersion_CanBeOverridden(t *testing.T) {
	origCommit, origDate := GitCommit, BuildDate
	defer func() { GitCommit, BuildDate = origCommit, origDate }()

	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"
	if GitCommit != "abc123def456" || BuildDate != "2024-01-15T10:30:00Z" {
		t.Errorf("override lost: %q %q", GitCommit, BuildDate)
	}
}
