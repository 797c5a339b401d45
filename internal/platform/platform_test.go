package platform

import (
	"runtime"
	"testing"
)

func TestHostMatchesRuntime(t *testing.T) {
	h := Host{}

	if !h.IsHostOS(OS(runtime.GOOS)) {
		t.Errorf("IsHostOS(%q) = false, want true", runtime.GOOS)
	}
	if h.Arch() != runtime.GOARCH {
		t.Errorf("Arch() = %q, want %q", h.Arch(), runtime.GOARCH)
	}
}

func TestFixed(t *testing.T) {
	f := Fixed{OS: MacOS, CPUArch: "arm64"}

	if !f.IsHostOS(MacOS) {
		t.Error("expected macOS to match")
	}
	if f.IsHostOS(Linux) {
		t.Error("expected linux not to match")
	}
	if f.Arch() != "arm64" {
		t.Errorf("Arch() = %q, want arm64", f.Arch())
	}
}

func TestOSMatchesGOOS(t *testing.T) {
	for _, kind := range []OS{MacOS, Linux, Windows} {
		if (Host{}).IsHostOS(kind) != (runtime.GOOS == string(kind)) {
			t.Errorf("IsHostOS(%q) disagrees with runtime.GOOS %q", kind, runtime.GOOS)
		}
	}
}
