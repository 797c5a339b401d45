package cmd

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/devboot/internal/config"
	"github.com/felixgeelhaar/devboot/internal/consent"
	"github.com/felixgeelhaar/devboot/internal/log"
	"github.com/felixgeelhaar/devboot/internal/platform"
	"github.com/felixgeelhaar/devboot/internal/ux"
)

// CommandContext holds the persistent flags of one invocation
type CommandContext struct {
	Yes        bool
	ConfigFile string
	Format     string
	NoColor    bool
	LogLevel   string
	LogFormat  string
	Verbose    bool
}

// NewCommandContext extracts command context from cobra.Command flags.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	flags := cmd.Flags()

	yes, err := flags.GetBool("yes")
	if err != nil {
		return nil, err
	}
	configFile, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	format, err := flags.GetString("format")
	if err != nil {
		return nil, err
	}
	noColor, err := flags.GetBool("no-color")
	if err != nil {
		return nil, err
	}
	logLevel, err := flags.GetString("log-level")
	if err != nil {
		return nil, err
	}
	logFormat, err := flags.GetString("log-format")
	if err != nil {
		return nil, err
	}
	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Yes:        yes,
		ConfigFile: configFile,
		Format:     format,
		NoColor:    noColor,
		LogLevel:   logLevel,
		LogFormat:  logFormat,
		Verbose:    verbose,
	}, nil
}

// Environment is everything a command needs from the outside world
type Environment struct {
	Flags    *CommandContext
	Config   *config.Config
	Logger   *log.Logger
	Platform platform.Probe
	HomeDir  string
	Prompter consent.Prompter
	Out      io.Writer
	Err      io.Writer
	// Interactive is true when installers may be chosen from a menu
	Interactive bool
}

// newEnvironment builds the Environment for cmd. Tests replace it.
var newEnvironment = loadEnvironment

func loadEnvironment(cmd *cobra.Command) (*Environment, error) {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return nil, err
	}

	if cmdCtx.NoColor {
		color.NoColor = true
	}

	v := config.New()
	bindings := map[string]string{
		"yes":        "yes",
		"log.level":  "log-level",
		"log.format": "log-format",
	}
	for key, flag := range bindings {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}

	cfg, err := config.Load(v, cmdCtx.ConfigFile)
	if err != nil {
		return nil, err
	}

	logCfg := cfg.LoggerConfig()
	logCfg.Output = log.NewOutput(cmd.ErrOrStderr())
	logger := log.New(logCfg)
	log.SetDefaultLogger(logger)

	home, err := os.UserHomeDir()
	if err != nil {
		logger.Warn("home directory is unknown", "error", err)
	}

	return &Environment{
		Flags:       cmdCtx,
		Config:      cfg,
		Logger:      logger,
		Platform:    platform.Host{},
		HomeDir:     home,
		Prompter:    consent.NewTerminalPrompter(os.Stdin, cmd.ErrOrStderr()),
		Out:         cmd.OutOrStdout(),
		Err:         cmd.ErrOrStderr(),
		Interactive: ux.ShouldPrompt(),
	}, nil
}

// formatter returns the formatter selected by --format
func (e *Environment) formatter() (ux.Formatter, error) {
	return ux.NewFormatter(e.Flags.Format, &ux.FormatterOptions{
		Writer:  e.Out,
		NoColor: e.Flags.NoColor,
	})
}
