package brew

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/devboot/internal/exec"
	"github.com/felixgeelhaar/devboot/internal/exec/exectest"
	"github.com/felixgeelhaar/devboot/internal/installer"
	"github.com/felixgeelhaar/devboot/internal/log"
	"github.com/felixgeelhaar/devboot/internal/platform"
	"github.com/felixgeelhaar/devboot/internal/task"
)

const brewPath = "/opt/homebrew/bin/brew"

func testDeps(runner exec.Runner) Deps {
	return Deps{
		Platform: platform.Fixed{OS: platform.MacOS, CPUArch: "arm64"},
		Runner:   runner,
		LookPath: func(string) (string, error) { return brewPath, nil },
	}
}

func TestInstallerDescribe(t *testing.T) {
	deps := testDeps(exectest.New())

	formula := NewInstaller(deps, "watchman")
	assert.Equal(t, "Homebrew formula watchman", formula.Describe())
	assert.Equal(t, "watchman", formula.Name())
	assert.Contains(t, formula.MitigationMessage(), "https://formulae.brew.sh/formula/watchman")

	cask := NewCaskInstaller(deps, "android-studio")
	assert.Equal(t, "Homebrew cask android-studio", cask.Describe())
	assert.Contains(t, cask.MitigationMessage(), "https://formulae.brew.sh/cask/android-studio")
}

func TestInstallerApplicability(t *testing.T) {
	deps := testDeps(exectest.New())
	assert.True(t, NewInstaller(deps, "watchman").IsApplicable())

	deps.Platform = platform.Fixed{OS: platform.Linux}
	assert.False(t, NewInstaller(deps, "watchman").IsApplicable())
}

func TestIsInstalled(t *testing.T) {
	tests := []struct {
		name     string
		response exectest.Response
		want     bool
		wantErr  bool
	}{
		{name: "installed", response: exectest.Response{Output: "watchman 2024.01.22.00"}, want: true},
		{name: "missing", response: exectest.Response{ExitCode: 1, Output: "Error: No such keg"}, want: false},
		{name: "cannot run", response: exectest.Response{Err: stderrors.New("exec format error")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := exectest.New().On("list", tt.response)
			got, err := NewInstaller(testDeps(runner), "watchman").IsInstalled()

			if tt.wantErr {
				var probeErr *installer.ProbeError
				require.True(t, stderrors.As(err, &probeErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			calls := runner.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, brewPath, calls[0].Path())
			assert.Equal(t, []string{"list", "--versions", "watchman"}, calls[0].Args())
			assert.Equal(t, exec.ModeSync, calls[0].Mode())
		})
	}
}

func TestIsInstalledWithoutBrew(t *testing.T) {
	runner := exectest.New()
	deps := testDeps(runner)
	deps.LookPath = func(string) (string, error) { return "", stderrors.New("not found") }

	_, err := NewInstaller(deps, "watchman").IsInstalled()

	var probeErr *installer.ProbeError
	require.True(t, stderrors.As(err, &probeErr))
	assert.Contains(t, probeErr.Reason, "brew is not on PATH")
	assert.Empty(t, runner.Calls())
}

func TestIsInstalledKeepsOffInstallRunner(t *testing.T) {
	runner, probes := exectest.New(), exectest.New()
	deps := testDeps(runner)
	deps.Probe = probes

	installed, err := NewInstaller(deps, "cocoapods").IsInstalled()

	require.NoError(t, err)
	assert.True(t, installed)
	assert.Empty(t, runner.Calls(), "brew list must not go through the install runner")
	assert.Equal(t, []string{"brew list --versions cocoapods"}, probes.Rendered())
}

func TestRunStreamsInstall(t *testing.T) {
	runner := exectest.New().On("install", exectest.Response{Lines: []string{"==> Pouring watchman"}})
	var progress []string
	tc := task.New(task.Options{}, task.SinkFunc(func(msg string) { progress = append(progress, msg) }), log.Discard())

	require.NoError(t, NewCaskInstaller(testDeps(runner), "temurin").Run(tc))

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"install", "--cask", "temurin"}, calls[0].Args())
	assert.Equal(t, exec.ModeStreamed, calls[0].Mode())
	assert.Equal(t, []string{"Installing temurin with Homebrew", "==> Pouring watchman"}, progress)
}

func TestParse(t *testing.T) {
	installers := Parse(testDeps(exectest.New()), []string{"watchman", " ", "cask:temurin", "openjdk@11"})

	require.Len(t, installers, 3)
	assert.Equal(t, "watchman", installers[0].Formula)
	assert.False(t, installers[0].Cask)
	assert.Equal(t, "temurin", installers[1].Formula)
	assert.True(t, installers[1].Cask)
	assert.Equal(t, "openjdk@11", installers[2].Formula)
}
