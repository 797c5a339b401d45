// Package android installs and probes the Android SDK pieces the toolchain
// needs: SDK packages through sdkmanager and an emulator image through
// avdmanager.
package android

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/devboot/internal/platform"
)

const (
	// DefaultAPILevel is the Android platform the toolchain targets
	DefaultAPILevel = 29
	// DefaultAVDName is the emulator created by AVDInstaller
	DefaultAVDName = "devboot_emulator"
)

// Config tunes the Android installers
type Config struct {
	// SDKRoot overrides SDK discovery
	SDKRoot string `mapstructure:"sdk_root" yaml:"sdk_root,omitempty"`
	// APILevel selects the platform and system image
	APILevel int `mapstructure:"api_level" yaml:"api_level"`
	// ABI overrides the emulator ABI derived from the host CPU
	ABI string `mapstructure:"abi" yaml:"abi,omitempty"`
	// AVDName names the emulator AVD
	AVDName string `mapstructure:"avd_name" yaml:"avd_name"`
}

// DefaultConfig returns the Android defaults
func DefaultConfig() Config {
	return Config{APILevel: DefaultAPILevel, AVDName: DefaultAVDName}
}

func (c Config) withDefaults() Config {
	if c.APILevel == 0 {
		c.APILevel = DefaultAPILevel
	}
	if c.AVDName == "" {
		c.AVDName = DefaultAVDName
	}
	return c
}

// SDK answers questions about the local Android SDK installation
type SDK interface {
	// Path returns the SDK root, false when it cannot be determined
	Path() (string, bool)
	// IsPackageInstalled reports whether an sdkmanager package id is present
	IsPackageInstalled(id string) bool
	// EmulatorABI returns the system image ABI for this host
	EmulatorABI() string
}

// LocalSDK discovers the SDK on the local filesystem
type LocalSDK struct {
	Root     string
	ABI      string
	HomeDir  string
	Platform platform.Probe
	Getenv   func(string) string
}

// NewLocalSDK creates an SDK probe from config
func NewLocalSDK(cfg Config, probe platform.Probe, homeDir string) *LocalSDK {
	return &LocalSDK{
		Root:     cfg.SDKRoot,
		ABI:      cfg.ABI,
		HomeDir:  homeDir,
		Platform: probe,
		Getenv:   os.Getenv,
	}
}

// Path resolves the SDK root from config, ANDROID_SDK_ROOT, ANDROID_HOME,
// then the per-OS default location.
func (s *LocalSDK) Path() (string, bool) {
	if s.Root != "" {
		return s.Root, true
	}
	getenv := s.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, key := range []string{"ANDROID_SDK_ROOT", "ANDROID_HOME"} {
		if v := getenv(key); v != "" {
			return v, true
		}
	}

	switch {
	case s.Platform.IsHostOS(platform.Windows):
		if local := getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, "Android", "Sdk"), true
		}
		return "", false
	case s.HomeDir == "":
		return "", false
	case s.Platform.IsHostOS(platform.MacOS):
		return filepath.Join(s.HomeDir, "Library", "Android", "sdk"), true
	default:
		return filepath.Join(s.HomeDir, "Android", "Sdk"), true
	}
}

// IsPackageInstalled checks for the package.xml sdkmanager writes into every
// installed package directory.
func (s *LocalSDK) IsPackageInstalled(id string) bool {
	root, ok := s.Path()
	if !ok || id == "" {
		return false
	}
	parts := append([]string{root}, strings.Split(id, ";")...)
	parts = append(parts, "package.xml")
	_, err := os.Stat(filepath.Join(parts...))
	return err == nil
}

// EmulatorABI returns the configured ABI or the one matching the host CPU
func (s *LocalSDK) EmulatorABI() string {
	if s.ABI != "" {
		return s.ABI
	}
	if s.Platform.Arch() == "arm64" {
		return "arm64-v8a"
	}
	return "x86_64"
}

// PlatformPackage returns the sdkmanager id of the platform for apiLevel
func PlatformPackage(apiLevel int) string {
	return "platforms;android-" + strconv.Itoa(apiLevel)
}

// SystemImagePackage returns the sdkmanager id of the Google APIs system image
func SystemImagePackage(apiLevel int, abi string) string {
	return "system-images;android-" + strconv.Itoa(apiLevel) + ";google_apis;" + abi
}

// commandLineTool returns the path of a tool shipped in the SDK tools package
func commandLineTool(sdkRoot, name string) string {
	return filepath.Join(sdkRoot, "tools", "bin", name)
}

var _ SDK = (*LocalSDK)(nil)
