// Package config loads devboot settings from the config file, the
// environment and an optional .env file.
//
// Precedence, highest first: command-line flags bound by the caller,
// DEVBOOT_* environment variables (including those set from .env), the config
// file, then built-in defaults.
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/felixgeelhaar/devboot/internal/android"
	"github.com/felixgeelhaar/devboot/internal/brew"
	"github.com/felixgeelhaar/devboot/internal/errors"
	"github.com/felixgeelhaar/devboot/internal/log"
)

const (
	// EnvPrefix prefixes every environment override, e.g. DEVBOOT_ANDROID_API_LEVEL
	EnvPrefix = "DEVBOOT"
	// DirName is the per-user config directory under $HOME
	DirName  = ".devboot"
	fileName = "config.yaml"
)

// Config is the effective devboot configuration
type Config struct {
	Yes           bool           `mapstructure:"yes" yaml:"yes"`
	StopOnFailure bool           `mapstructure:"stop_on_failure" yaml:"stop_on_failure"`
	DryRun        bool           `mapstructure:"dry_run" yaml:"dry_run"`
	Log           LogConfig      `mapstructure:"log" yaml:"log"`
	ManifestDir   string         `mapstructure:"manifest_dir" yaml:"manifest_dir,omitempty"`
	Android       android.Config `mapstructure:"android" yaml:"android"`
	Brew          BrewConfig     `mapstructure:"brew" yaml:"brew"`

	// File is the config file that was read, empty when none was found
	File string `mapstructure:"-" yaml:"-"`
}

// LogConfig selects the log level and handler format
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// BrewConfig lists the Homebrew formulae to install. Prefix an entry with
// "cask:" to install a cask.
type BrewConfig struct {
	Formulae []string `mapstructure:"formulae" yaml:"formulae"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		StopOnFailure: true,
		Log:           LogConfig{Level: "warn", Format: "text"},
		Android:       android.DefaultConfig(),
		Brew:          BrewConfig{Formulae: append([]string(nil), brew.DefaultFormulae...)},
	}
}

// DefaultPath returns ~/.devboot/config.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DirName, fileName), nil
}

// New creates a viper instance with defaults and environment binding. The
// caller binds flags on it before calling Load.
func New() *viper.Viper {
	v := viper.New()

	def := Default()
	v.SetDefault("yes", def.Yes)
	v.SetDefault("stop_on_failure", def.StopOnFailure)
	v.SetDefault("dry_run", def.DryRun)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("manifest_dir", def.ManifestDir)
	v.SetDefault("android.sdk_root", def.Android.SDKRoot)
	v.SetDefault("android.api_level", def.Android.APILevel)
	v.SetDefault("android.abi", def.Android.ABI)
	v.SetDefault("android.avd_name", def.Android.AVDName)
	v.SetDefault("brew.formulae", def.Brew.Formulae)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads .env (when present in the working directory), then the config
// file at path. An empty path means the default location, which may be
// absent; an explicit path must exist.
func Load(v *viper.Viper, path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.NewConfigInvalidError(".env", err)
	}

	explicit := path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}

	var file string
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		switch err := v.ReadInConfig(); {
		case err == nil:
			file = path
		case !explicit && stderrors.Is(err, fs.ErrNotExist):
		default:
			return nil, errors.NewConfigInvalidError(path, err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.NewConfigInvalidError(path, err)
	}
	cfg.File = file

	if err := cfg.Validate(); err != nil {
		return nil, errors.NewConfigInvalidError(path, err)
	}
	return &cfg, nil
}

// Validate rejects values the installers cannot work with
func (c *Config) Validate() error {
	var errs []error
	if _, ok := log.LookupLevel(c.Log.Level); !ok {
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	if _, ok := log.LookupFormat(c.Log.Format); !ok {
		errs = append(errs, fmt.Errorf("log.format %q is not one of text, json", c.Log.Format))
	}
	if c.Android.APILevel <= 0 {
		errs = append(errs, fmt.Errorf("android.api_level must be positive, got %d", c.Android.APILevel))
	}
	return stderrors.Join(errs...)
}

// LoggerConfig converts the settings into a logger configuration
func (c *Config) LoggerConfig() log.Config {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(c.Log.Level)
	cfg.Format = log.ParseFormat(c.Log.Format)
	return cfg
}
