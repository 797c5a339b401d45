package cmd

import (
	"github.com/felixgeelhaar/devboot/internal/android"
	"github.com/felixgeelhaar/devboot/internal/brew"
	"github.com/felixgeelhaar/devboot/internal/consent"
	"github.com/felixgeelhaar/devboot/internal/exec"
	"github.com/felixgeelhaar/devboot/internal/installer"
)

// buildRegistry registers every installer in install order: the Android SDK,
// the AVD that depends on its system image, then the Homebrew formulae.
// Probes that shell out go through probe so they never record manifests.
func buildRegistry(env *Environment, runner, probe exec.Runner) (*installer.Registry, error) {
	cfg := env.Config

	androidDeps := android.Deps{
		SDK:      android.NewLocalSDK(cfg.Android, env.Platform, env.HomeDir),
		Platform: env.Platform,
		Runner:   runner,
		Gate:     consent.NewGate(env.Prompter),
		HomeDir:  env.HomeDir,
	}
	tasks := []installer.Task{
		android.NewSDKManagerInstaller(androidDeps, cfg.Android),
		android.NewAVDInstaller(androidDeps, cfg.Android),
	}

	brewDeps := brew.Deps{Platform: env.Platform, Runner: runner, Probe: probe}
	for _, b := range brew.Parse(brewDeps, cfg.Brew.Formulae) {
		tasks = append(tasks, b)
	}

	return installer.NewRegistry(tasks...)
}

// newRunner creates the process runner for one run. Tests replace it.
var newRunner = func(env *Environment, runID string) exec.Runner {
	r := exec.NewLocalRunner(env.Logger)
	r.ManifestDir = env.Config.ManifestDir
	r.RunID = runID
	return r
}
