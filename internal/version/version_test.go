package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	v, c, d := Info()
	if v == "" || c == "" || d == "" {
		t.Errorf("version info must not be empty: version=%q commit=%q date=%q", v, c, d)
	}
}

func TestAccessors(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should not return empty string")
	}
	if GetCommit() == "" {
		t.Error("GetCommit should not return empty string")
	}
	if GetDate() == "" {
		t.Error("GetDate should not return empty string")
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.Contains(s, "version=") || !strings.Contains(s, "commit=") || !strings.Contains(s, "date=") {
		t.Errorf("unexpected version string: %q", s)
	}
}
