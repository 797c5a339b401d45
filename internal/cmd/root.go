package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "devboot",
	Short: "Bootstrap the developer toolchain",
	Long: `devboot detects, installs and validates the third-party SDK components the
toolchain needs: Android SDK packages, an emulator image and Homebrew formulae.

Installers that are already satisfied are left alone. When an installer fails,
devboot prints what to do to finish the installation by hand.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx; cancelling ctx stops an
// install run before its next installer starts.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolP("yes", "y", false, "accept third-party license terms without prompting")
	flags.String("config", "", "config file (default is $HOME/.devboot/config.yaml)")
	flags.String("format", "text", "output format: text, json or yaml")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log format: text or json")
	flags.Bool("verbose", false, "print every progress update")
}
