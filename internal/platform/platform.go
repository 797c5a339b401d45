// Package platform answers questions about the host the installers run on.
package platform

import "runtime"

// OS identifies a host operating system family
type OS string

const (
	MacOS   OS = "darwin"
	Linux   OS = "linux"
	Windows OS = "windows"
)

// Probe reports facts about the host
type Probe interface {
	IsHostOS(kind OS) bool
	Arch() string
}

// Host is the Probe for the running process
type Host struct{}

// IsHostOS reports whether the process runs on kind
func (Host) IsHostOS(kind OS) bool {
	return OS(runtime.GOOS) == kind
}

// Arch returns the GOARCH of the running process
func (Host) Arch() string {
	return runtime.GOARCH
}

// Fixed is a Probe with predetermined answers
type Fixed struct {
	OS      OS
	CPUArch string
}

// IsHostOS reports whether kind matches the fixed OS
func (f Fixed) IsHostOS(kind OS) bool {
	return f.OS == kind
}

// Arch returns the fixed architecture
func (f Fixed) Arch() string {
	return f.CPUArch
}

var (
	_ Probe = Host{}
	_ Probe = Fixed{}
)
