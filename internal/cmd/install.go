package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/devboot/internal/installer"
	"github.com/felixgeelhaar/devboot/internal/progress"
	"github.com/felixgeelhaar/devboot/internal/task"
	"github.com/felixgeelhaar/devboot/internal/ux"
)

var installCmd = &cobra.Command{
	Use:   "install [installer...]",
	Short: "Install missing toolchain components",
	Long: `Install runs the selected installers in order. Installers that do not apply
to this host are skipped and installers that are already satisfied are left
alone. Without arguments every installer runs; in an interactive terminal
you are asked which ones to run.

Some components require accepting third-party license terms. You are asked
once per component; pass --yes to accept them up front.

Examples:
  # Install everything
  devboot install

  # Install only the Android SDK, accepting its terms
  devboot install android-sdk --yes

  # Show what would be installed
  devboot install --dry-run
`,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().Bool("continue-on-error", false, "keep running the remaining installers after a failure")
	installCmd.Flags().Bool("dry-run", false, "report what would be installed without installing")

	rootCmd.AddCommand(installCmd)
}

// installRequest is one install invocation
type installRequest struct {
	Names           []string
	ContinueOnError bool
	DryRun          bool
}

func runInstall(cmd *cobra.Command, args []string) error {
	env, err := newEnvironment(cmd)
	if err != nil {
		return err
	}

	continueOnError, err := cmd.Flags().GetBool("continue-on-error")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}

	return install(cmd.Context(), env, installRequest{
		Names:           args,
		ContinueOnError: continueOnError,
		DryRun:          dryRun,
	})
}

func install(ctx context.Context, env *Environment, req installRequest) error {
	cfg := env.Config
	opts := task.Options{
		AutoApprove:   cfg.Yes,
		StopOnFailure: cfg.StopOnFailure && !req.ContinueOnError,
		DryRun:        cfg.DryRun || req.DryRun,
	}

	formatter, err := env.formatter()
	if err != nil {
		return err
	}
	textOutput := env.Flags.Format == "" || env.Flags.Format == "text"

	progressOut := env.Out
	if !textOutput {
		progressOut = env.Err
	}
	indicator := progress.NewIndicator(progress.Config{
		Writer: progressOut,
		// Consent prompts draw on the terminal too; only animate when none can appear.
		ShowSpinner: env.Interactive && opts.AutoApprove,
		Verbose:     env.Flags.Verbose,
		NoColor:     env.Flags.NoColor,
	})

	tc := task.New(opts, indicator, env.Logger)
	registry, err := buildRegistry(env, newRunner(env, tc.RunID), probeRunner(env))
	if err != nil {
		return err
	}

	tasks, err := selectTasks(env, registry, req.Names, opts)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Fprintln(env.Out, "Nothing selected.")
		return nil
	}

	orch := installer.NewOrchestrator(env.Logger)
	orch.Observer = indicator

	indicator.Start()
	report := orch.Run(ctx, tasks, tc)
	indicator.Stop()

	if textOutput {
		indicator.PrintSummary(report)
	} else if err := formatter.Format(report); err != nil {
		return err
	}

	if report.Interrupted != nil {
		return fmt.Errorf("install interrupted: %w", report.Interrupted)
	}
	return ux.RunFailure(report)
}

// selectTasks resolves the installers to run: the named ones, a menu choice
// when interactive, or all of them.
func selectTasks(env *Environment, registry *installer.Registry, names []string, opts task.Options) ([]installer.Task, error) {
	if len(names) > 0 {
		return registry.Select(names...)
	}
	if !env.Interactive || opts.AutoApprove || opts.DryRun {
		return registry.All(), nil
	}

	var choices []ux.Choice
	for _, t := range registry.All() {
		if !t.IsApplicable() {
			continue
		}
		choices = append(choices, ux.Choice{
			Name:        installer.NameOf(t),
			Description: t.Describe(),
			Selected:    true,
		})
	}
	if len(choices) == 0 {
		return registry.All(), nil
	}

	picked, err := ux.SelectInstallers("Which components should devboot install?", choices)
	if err != nil {
		return nil, err
	}
	if len(picked) == 0 {
		return nil, nil
	}
	return registry.Select(picked...)
}
