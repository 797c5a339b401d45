package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/devboot/internal/exec"
	"github.com/felixgeelhaar/devboot/internal/health"
	"github.com/felixgeelhaar/devboot/internal/platform"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check which toolchain components are installed",
	Long: `Run every installer's read-only probe and report what is installed, what is
missing and what does not apply to this host. Nothing is installed or changed.

Examples:
  # Check the toolchain
  devboot doctor

  # Output as JSON for CI/CD
  devboot doctor --format json
`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// DoctorReport represents the complete health check report
type DoctorReport struct {
	Status  health.Status    `json:"status" yaml:"status"`
	Healthy bool             `json:"healthy" yaml:"healthy"`
	Checks  []*health.Result `json:"checks" yaml:"checks"`
}

// RenderText implements ux.TextRenderer
func (r *DoctorReport) RenderText(w io.Writer) error {
	fmt.Fprintln(w, "Toolchain Diagnostics")
	fmt.Fprintln(w, strings.Repeat("─", 40))

	for _, check := range r.Checks {
		glyph, c := statusGlyph(check.Status)
		c.Fprintf(w, "%s %-14s", glyph, check.Name)
		fmt.Fprintf(w, " %s\n", check.Message)
		for _, key := range []string{"version", "mitigation", "suggestion", "error"} {
			if v, ok := check.Details[key]; ok {
				fmt.Fprintf(w, "    %s: %v\n", key, v)
			}
		}
	}

	fmt.Fprintln(w)
	glyph, c := statusGlyph(r.Status)
	_, err := c.Fprintf(w, "%s Overall: %s\n", glyph, r.Status)
	return err
}

func statusGlyph(s health.Status) (string, *color.Color) {
	switch s {
	case health.StatusHealthy:
		return "✓", color.New(color.FgGreen)
	case health.StatusDegraded:
		return "⚠", color.New(color.FgYellow)
	case health.StatusSkipped:
		return "⊘", color.New(color.Faint)
	default:
		return "✗", color.New(color.FgRed)
	}
}

func runDoctor(cmd *cobra.Command, args []string) error {
	env, err := newEnvironment(cmd)
	if err != nil {
		return err
	}

	report, err := doctor(cmd.Context(), env)
	if err != nil {
		return err
	}

	formatter, err := env.formatter()
	if err != nil {
		return err
	}
	if err := formatter.Format(report); err != nil {
		return err
	}

	if report.Status == health.StatusUnhealthy {
		return fmt.Errorf("some components are missing; run 'devboot install' to install them")
	}
	return nil
}

func doctor(ctx context.Context, env *Environment) (*DoctorReport, error) {
	// Probes never write manifests.
	probe := probeRunner(env)
	registry, err := buildRegistry(env, probe, probe)
	if err != nil {
		return nil, err
	}

	manager := health.NewManager()
	if env.Platform.IsHostOS(platform.MacOS) {
		brewCheck := health.NewToolChecker("brew", "https://brew.sh")
		brewCheck.MinMajor = 4
		manager.AddChecker(brewCheck)
	}
	for _, t := range registry.All() {
		manager.AddChecker(health.NewInstallerChecker(t))
	}

	results := manager.Check(ctx)
	status := manager.OverallStatus(results)
	return &DoctorReport{
		Status:  status,
		Healthy: status == health.StatusHealthy,
		Checks:  results,
	}, nil
}

// probeRunner creates the runner for read-only probes. Tests replace it.
var probeRunner = func(env *Environment) exec.Runner {
	return exec.NewLocalRunner(env.Logger)
}
