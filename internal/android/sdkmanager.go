package android

import (
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/devboot/internal/consent"
	"github.com/felixgeelhaar/devboot/internal/errors"
	"github.com/felixgeelhaar/devboot/internal/exec"
	"github.com/felixgeelhaar/devboot/internal/installer"
	"github.com/felixgeelhaar/devboot/internal/platform"
	"github.com/felixgeelhaar/devboot/internal/task"
)

const (
	studioURL = "https://developer.android.com/studio"
	termsURL  = "https://developer.android.com/studio/terms"

	repositoriesHeader = "### User Sources for Android SDK Manager"
)

// Deps are the collaborators shared by the Android installers
type Deps struct {
	SDK      SDK
	Platform platform.Probe
	Runner   exec.Runner
	Gate     *consent.Gate
	HomeDir  string
}

// SDKManagerInstaller installs platform-tools, the emulator, the target
// platform and its system image through sdkmanager.
type SDKManagerInstaller struct {
	deps Deps
	cfg  Config
}

// NewSDKManagerInstaller creates the installer
func NewSDKManagerInstaller(deps Deps, cfg Config) *SDKManagerInstaller {
	return &SDKManagerInstaller{deps: deps, cfg: cfg.withDefaults()}
}

// Name implements installer.Named
func (i *SDKManagerInstaller) Name() string { return "android-sdk" }

// IsApplicable implements installer.Task
func (i *SDKManagerInstaller) IsApplicable() bool {
	return i.deps.Platform.IsHostOS(platform.MacOS)
}

// Describe implements installer.Task
func (i *SDKManagerInstaller) Describe() string {
	return "Android SDK Manager"
}

// Packages returns the sdkmanager package ids this installer provides
func (i *SDKManagerInstaller) Packages() []string {
	return []string{
		"emulator",
		"platform-tools",
		PlatformPackage(i.cfg.APILevel),
		SystemImagePackage(i.cfg.APILevel, i.deps.SDK.EmulatorABI()),
	}
}

// IsInstalled implements installer.Task
func (i *SDKManagerInstaller) IsInstalled() (bool, error) {
	root, ok := i.deps.SDK.Path()
	if !ok {
		return false, &installer.ProbeError{
			Task:   i.Describe(),
			Reason: "Android SDK location is unknown; set ANDROID_SDK_ROOT or android.sdk_root",
		}
	}

	for _, dir := range []string{"tools", "platform-tools", "emulator"} {
		if !dirExists(filepath.Join(root, dir)) {
			return false, nil
		}
	}

	for _, pkg := range i.Packages() {
		if !i.deps.SDK.IsPackageInstalled(pkg) {
			return false, nil
		}
	}
	return true, nil
}

// MitigationMessage implements installer.Task
func (i *SDKManagerInstaller) MitigationMessage() string {
	return installer.Mitigation(i, studioURL)
}

// Run writes the repositories config, asks for consent to the SDK terms,
// accepts the licenses and installs the packages in order.
func (i *SDKManagerInstaller) Run(tc *task.Context) error {
	root, ok := i.deps.SDK.Path()
	if !ok {
		return &installer.ProbeError{Task: i.Describe(), Reason: "Android SDK location is unknown"}
	}
	sdkManager := commandLineTool(root, "sdkmanager")
	sdkRootArg := "--sdk_root=" + root
	platformPkg := PlatformPackage(i.cfg.APILevel)
	imagePkg := SystemImagePackage(i.cfg.APILevel, i.deps.SDK.EmulatorABI())

	tc.Update("Setting up ~/.android/repositories.cfg")
	if err := i.writeRepositoriesConfig(); err != nil {
		return err
	}

	if err := i.deps.Gate.Request(i, tc, termsURL); err != nil {
		return err
	}

	tc.Update("Accepting Android SDK licenses")
	if _, err := i.deps.Runner.Run(exec.Sync(sdkManager, "--licenses").WithConfirm("y"), tc.Output()); err != nil {
		return err
	}

	steps := []struct {
		progress string
		packages []string
	}{
		{"Installing platform-tools and emulator", []string{"platform-tools", "emulator"}},
		{"Installing " + platformPkg, []string{platformPkg}},
		{"Installing " + imagePkg, []string{imagePkg}},
	}
	for _, step := range steps {
		tc.Update(step.progress)
		args := append([]string{sdkRootArg}, step.packages...)
		if _, err := i.deps.Runner.Run(exec.Streamed(sdkManager, args...), tc.Output()); err != nil {
			return err
		}
	}
	return nil
}

// writeRepositoriesConfig creates the file sdkmanager refuses to run without
func (i *SDKManagerInstaller) writeRepositoriesConfig() error {
	if i.deps.HomeDir == "" {
		return errors.New(errors.ErrCodeDirectoryFailed, "home directory is unknown").
			WithSuggestion("Set the HOME environment variable")
	}

	androidDir := filepath.Join(i.deps.HomeDir, ".android")
	if err := os.MkdirAll(androidDir, 0750); err != nil {
		return errors.Wrap(errors.ErrCodeDirectoryFailed, "failed to create "+androidDir, err)
	}

	path := filepath.Join(androidDir, "repositories.cfg")
	if err := os.WriteFile(path, []byte(repositoriesHeader), 0600); err != nil {
		return errors.NewFileWriteError(path, err)
	}
	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

var (
	_ installer.Task  = (*SDKManagerInstaller)(nil)
	_ installer.Named = (*SDKManagerInstaller)(nil)
)
