package android

import (
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/devboot/internal/exec"
	"github.com/felixgeelhaar/devboot/internal/installer"
	"github.com/felixgeelhaar/devboot/internal/platform"
	"github.com/felixgeelhaar/devboot/internal/task"
)

const avdDocsURL = "https://developer.android.com/studio/run/managing-avds"

// AVDInstaller creates the Android virtual device the toolchain launches.
// It relies on the system image installed by SDKManagerInstaller.
type AVDInstaller struct {
	deps Deps
	cfg  Config
}

// NewAVDInstaller creates the installer
func NewAVDInstaller(deps Deps, cfg Config) *AVDInstaller {
	return &AVDInstaller{deps: deps, cfg: cfg.withDefaults()}
}

// Name implements installer.Named
func (a *AVDInstaller) Name() string { return "android-avd" }

// IsApplicable implements installer.Task
func (a *AVDInstaller) IsApplicable() bool {
	return a.deps.Platform.IsHostOS(platform.MacOS)
}

// Describe implements installer.Task
func (a *AVDInstaller) Describe() string {
	return "Android Virtual Device " + a.cfg.AVDName
}

// IsInstalled implements installer.Task
func (a *AVDInstaller) IsInstalled() (bool, error) {
	if a.deps.HomeDir == "" {
		return false, &installer.ProbeError{Task: a.Describe(), Reason: "home directory is unknown"}
	}
	_, err := os.Stat(filepath.Join(a.deps.HomeDir, ".android", "avd", a.cfg.AVDName+".ini"))
	return err == nil, nil
}

// MitigationMessage implements installer.Task
func (a *AVDInstaller) MitigationMessage() string {
	return installer.Mitigation(a, avdDocsURL)
}

// Run creates the AVD, declining avdmanager's custom hardware profile question
func (a *AVDInstaller) Run(tc *task.Context) error {
	root, ok := a.deps.SDK.Path()
	if !ok {
		return &installer.ProbeError{Task: a.Describe(), Reason: "Android SDK location is unknown"}
	}

	tc.Update("Creating Android virtual device " + a.cfg.AVDName)
	spec := exec.Sync(commandLineTool(root, "avdmanager"),
		"create", "avd",
		"--name", a.cfg.AVDName,
		"--package", SystemImagePackage(a.cfg.APILevel, a.deps.SDK.EmulatorABI()),
		"--device", "pixel",
	).WithConfirm("no")

	_, err := a.deps.Runner.Run(spec, tc.Output())
	return err
}

var (
	_ installer.Task  = (*AVDInstaller)(nil)
	_ installer.Named = (*AVDInstaller)(nil)
)
