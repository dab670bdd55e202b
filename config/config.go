// Package config loads doclet settings from a config file, DOCLET_*
// environment variables and defaults, in increasing order of precedence
// below command line flags.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/dhamidi/doclet/format"
	"github.com/dhamidi/doclet/java"
)

type InputConfig struct {
	Exclude []string `mapstructure:"exclude"`
	// Visibility drops declarations less visible than it; empty keeps everything.
	Visibility string `mapstructure:"visibility"`
}

type OutputConfig struct {
	Dir      string `mapstructure:"dir"`
	Format   string `mapstructure:"format"`
	Layout   string `mapstructure:"layout"`
	Compress bool   `mapstructure:"compress"`
	CSS      string `mapstructure:"css"`
}

type LogConfig struct {
	Verbosity int    `mapstructure:"verbosity"`
	Path      string `mapstructure:"path"`
}

type Config struct {
	Input   InputConfig  `mapstructure:"input"`
	Output  OutputConfig `mapstructure:"output"`
	Workers int          `mapstructure:"workers"`
	Log     LogConfig    `mapstructure:"log"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// ErrInvalid marks configuration values that fail validation.
var ErrInvalid = errors.New("invalid configuration")

func newViper(file string) *viper.Viper {
	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("doclet")
		v.AddConfigPath(".")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "doclet"))
		} else if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "doclet"))
		}
	}

	v.SetDefault("input.exclude", []string{})
	v.SetDefault("input.visibility", "")
	v.SetDefault("output.dir", "docs")
	v.SetDefault("output.format", "markdown")
	v.SetDefault("output.layout", string(format.LayoutType))
	v.SetDefault("output.compress", false)
	v.SetDefault("output.css", "")
	v.SetDefault("workers", 1)
	v.SetDefault("log.verbosity", 0)
	v.SetDefault("log.path", "")

	v.SetEnvPrefix("DOCLET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration. An explicit file must exist; without one,
// doclet.{toml,yaml,json} is looked up in the working directory and then in
// $XDG_CONFIG_HOME/doclet, and a missing file is not an error.
func Load(file string) (*Config, error) {
	v := newViper(file)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create decoder")
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unknown formats, layouts and visibilities and worker
// counts below one.
func (c *Config) Validate() error {
	if _, err := format.ForName(c.Output.Format); err != nil {
		return errors.Mark(err, ErrInvalid)
	}
	if _, err := format.ParseLayout(c.Output.Layout); err != nil {
		return errors.Mark(err, ErrInvalid)
	}
	if c.Workers < 1 {
		return errors.Wrapf(ErrInvalid, "workers must be at least 1, got %d", c.Workers)
	}
	switch java.Visibility(c.Input.Visibility) {
	case "", java.VisibilityPublic, java.VisibilityProtected, java.VisibilityPackage, java.VisibilityPrivate:
	default:
		return errors.WithHint(
			errors.Wrapf(ErrInvalid, "unknown visibility %q", c.Input.Visibility),
			"use public, protected, package or private")
	}
	return nil
}

// Renderer builds the configured output renderer.
func (c *Config) Renderer() (format.Renderer, error) {
	r, err := format.ForName(c.Output.Format)
	if err != nil {
		return nil, err
	}
	if h, ok := r.(*format.HTML); ok && c.Output.CSS != "" {
		h.WithCSS(c.Output.CSS)
	}
	return r, nil
}

// Writer builds the emitter writing to the configured output directory.
func (c *Config) Writer() (*format.Writer, error) {
	r, err := c.Renderer()
	if err != nil {
		return nil, err
	}
	layout, err := format.ParseLayout(c.Output.Layout)
	if err != nil {
		return nil, err
	}
	w := format.NewWriter(c.Output.Dir, r, layout)
	w.Compress = c.Output.Compress
	return w, nil
}

// LoadOptions turns the input settings into java.Load options.
func (c *Config) LoadOptions() []java.LoadOption {
	opts := []java.LoadOption{java.WithParseWorkers(c.Workers)}
	if len(c.Input.Exclude) > 0 {
		opts = append(opts, java.WithExclude(c.Input.Exclude...))
	}
	if c.Input.Visibility != "" {
		opts = append(opts, java.WithVisibility(java.Visibility(c.Input.Visibility)))
	}
	return opts
}
