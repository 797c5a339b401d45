// Package brew installs Homebrew formulae and casks.
package brew

import (
	stderrors "errors"
	osexec "os/exec"
	"strings"

	"github.com/felixgeelhaar/devboot/internal/exec"
	"github.com/felixgeelhaar/devboot/internal/installer"
	"github.com/felixgeelhaar/devboot/internal/platform"
	"github.com/felixgeelhaar/devboot/internal/task"
)

const formulaeURL = "https://formulae.brew.sh"

// DefaultFormulae are installed when config does not name any
var DefaultFormulae = []string{"watchman", "cocoapods", "openjdk@11"}

// Deps are the collaborators shared by Homebrew installers
type Deps struct {
	Platform platform.Probe
	Runner   exec.Runner
	// Probe runs the read-only brew list queries; defaults to Runner
	Probe exec.Runner
	// LookPath finds the brew binary; defaults to os/exec.LookPath
	LookPath func(file string) (string, error)
}

// Installer installs one formula, or a cask when Cask is set
type Installer struct {
	Formula string
	Cask    bool
	// URL overrides the formula page used in the mitigation message
	URL string

	deps Deps
}

// NewInstaller creates an installer for formula
func NewInstaller(deps Deps, formula string) *Installer {
	if deps.LookPath == nil {
		deps.LookPath = osexec.LookPath
	}
	if deps.Probe == nil {
		deps.Probe = deps.Runner
	}
	return &Installer{Formula: formula, deps: deps}
}

// NewCaskInstaller creates an installer for a cask
func NewCaskInstaller(deps Deps, cask string) *Installer {
	inst := NewInstaller(deps, cask)
	inst.Cask = true
	return inst
}

// Parse builds installers from config entries. Entries prefixed with
// "cask:" install casks.
func Parse(deps Deps, entries []string) []*Installer {
	out := make([]*Installer, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if name, ok := strings.CutPrefix(entry, "cask:"); ok {
			out = append(out, NewCaskInstaller(deps, name))
			continue
		}
		out = append(out, NewInstaller(deps, entry))
	}
	return out
}

// Name implements installer.Named
func (i *Installer) Name() string { return i.Formula }

// IsApplicable implements installer.Task
func (i *Installer) IsApplicable() bool {
	return i.deps.Platform.IsHostOS(platform.MacOS)
}

// Describe implements installer.Task
func (i *Installer) Describe() string {
	if i.Cask {
		return "Homebrew cask " + i.Formula
	}
	return "Homebrew formula " + i.Formula
}

func (i *Installer) brewArgs(verb string, extra ...string) []string {
	args := []string{verb}
	if i.Cask {
		args = append(args, "--cask")
	}
	args = append(args, extra...)
	return append(args, i.Formula)
}

// IsInstalled asks brew whether the formula has an installed version
func (i *Installer) IsInstalled() (bool, error) {
	brew, err := i.deps.LookPath("brew")
	if err != nil {
		return false, &installer.ProbeError{Task: i.Describe(), Reason: "brew is not on PATH", Err: err}
	}

	_, err = i.deps.Probe.Run(exec.Sync(brew, i.brewArgs("list", "--versions")...), nil)
	if err == nil {
		return true, nil
	}
	var cmdErr *exec.CommandError
	if stderrors.As(err, &cmdErr) {
		return false, nil
	}
	return false, &installer.ProbeError{Task: i.Describe(), Reason: "brew list failed", Err: err}
}

// MitigationMessage implements installer.Task
func (i *Installer) MitigationMessage() string {
	url := i.URL
	if url == "" {
		kind := "formula"
		if i.Cask {
			kind = "cask"
		}
		url = formulaeURL + "/" + kind + "/" + i.Formula
	}
	return installer.Mitigation(i, url)
}

// Run streams brew install
func (i *Installer) Run(tc *task.Context) error {
	brew, err := i.deps.LookPath("brew")
	if err != nil {
		return &installer.ProbeError{Task: i.Describe(), Reason: "brew is not on PATH", Err: err}
	}

	tc.Update("Installing " + i.Formula + " with Homebrew")
	_, err = i.deps.Runner.Run(exec.Streamed(brew, i.brewArgs("install")...), tc.Output())
	return err
}

var (
	_ installer.Task  = (*Installer)(nil)
	_ installer.Named = (*Installer)(nil)
)
