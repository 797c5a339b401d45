package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/devboot/internal/config"
	"github.com/felixgeelhaar/devboot/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View devboot configuration",
	Long: `Manage devboot configuration stored at ~/.devboot/config.yaml

Settings can also come from DEVBOOT_* environment variables (for example
DEVBOOT_ANDROID_SDK_ROOT) or a .env file in the working directory.

Examples:
  # View the effective configuration
  devboot config view

  # Write a config file with the defaults
  devboot config init

  # Show configuration file path
  devboot config path
`,
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Display the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigView,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the defaults",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")

	configCmd.AddCommand(configViewCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(configCmd)
}

func runConfigView(cmd *cobra.Command, args []string) error {
	env, err := newEnvironment(cmd)
	if err != nil {
		return err
	}

	if env.Flags.Format == "json" {
		formatter, err := env.formatter()
		if err != nil {
			return err
		}
		return formatter.Format(env.Config)
	}

	data, err := yaml.Marshal(env.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if env.Config.File != "" {
		fmt.Fprintf(env.Out, "# %s\n", env.Config.File)
	}
	_, err = env.Out.Write(data)
	return err
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := configPath(cmd)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := configPath(cmd)
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if err := writeDefaultConfig(path, force); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func configPath(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path, nil
	}
	path, err := config.DefaultPath()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return path, nil
}

// writeDefaultConfig saves the built-in defaults to path
func writeDefaultConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.New(errors.ErrCodeFileWriteFailed, "config file already exists: "+path).
			WithSuggestion("Pass --force to overwrite it")
	}

	data, err := yaml.Marshal(config.Default())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return errors.Wrap(errors.ErrCodeDirectoryFailed, "failed to create config directory", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return errors.NewFileWriteError(path, err)
	}
	return nil
}
