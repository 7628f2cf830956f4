// Package config loads partialgen settings from defaults, an optional YAML
// file and PARTIALGEN_* environment variables.
package config

import (
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"partialgen/internal/compat"
	"partialgen/internal/gen"
	"partialgen/internal/plan"
)

// EnvPrefix prefixes environment overrides: PARTIALGEN_WORKERS, PARTIALGEN_LOG_LEVEL.
const EnvPrefix = "PARTIALGEN"

// Config holds the generator settings.
type Config struct {
	// Workers bounds per-type parallelism; 0 means GOMAXPROCS.
	Workers int `mapstructure:"workers" yaml:"workers"`
	// FileSuffix names generated files.
	FileSuffix string `mapstructure:"file_suffix" yaml:"file_suffix"`
	// FixImports formats output with goimports instead of gofmt.
	FixImports bool `mapstructure:"fix_imports" yaml:"fix_imports"`
	// OptImport is the import path of the package providing opt.Field.
	OptImport string `mapstructure:"opt_import" yaml:"opt_import"`
	// JSONOmitZero appends omitzero to json tags of optional fields.
	JSONOmitZero bool `mapstructure:"json_omitzero" yaml:"json_omitzero"`
	// TypeRefMinGo is the module Go version from which type-valued marker
	// arguments are rendered as type expressions.
	TypeRefMinGo string `mapstructure:"type_ref_min_go" yaml:"type_ref_min_go"`
	// BuildFlags are passed to the package loader.
	BuildFlags []string `mapstructure:"build_flags" yaml:"build_flags,omitempty"`
	// Tests loads _test.go files too.
	Tests bool `mapstructure:"tests" yaml:"tests"`
	Log   Log  `mapstructure:"log" yaml:"log"`
}

// Log configures the zap logger.
type Log struct {
	JSON  bool   `mapstructure:"json" yaml:"json"`
	Level string `mapstructure:"level" yaml:"level"`
}

// Default returns the default configuration.
func Default() *Config {
	opts := plan.DefaultOptions()

	return &Config{
		FileSuffix:   gen.DefaultFileSuffix,
		FixImports:   true,
		OptImport:    gen.DefaultOptImport,
		JSONOmitZero: opts.JSONOmitZero,
		TypeRefMinGo: opts.TypeRefMinGo,
		Log:          Log{Level: "info"},
	}
}

// setDefaults registers every key with v so that env-only keys resolve.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("workers", d.Workers)
	v.SetDefault("file_suffix", d.FileSuffix)
	v.SetDefault("fix_imports", d.FixImports)
	v.SetDefault("opt_import", d.OptImport)
	v.SetDefault("json_omitzero", d.JSONOmitZero)
	v.SetDefault("type_ref_min_go", d.TypeRefMinGo)
	_ = v.BindEnv("build_flags")
	v.SetDefault("tests", d.Tests)
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("log.level", d.Log.Level)
}

// NewViper returns a viper instance with defaults and env bindings. Cobra
// flags are bound onto it by the CLI.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	return v
}

// Load reads the configuration. An empty path uses defaults and env only.
func Load(path string) (*Config, error) {
	v := NewViper()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config file %s", path)
		}
	}

	return FromViper(v)
}

// FromViper unmarshals and validates the settings held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings for consistency.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return errors.Newf("workers must not be negative, got %d", c.Workers)
	}

	if !strings.HasSuffix(c.FileSuffix, ".go") {
		return errors.WithHint(
			errors.Newf("file_suffix %q does not end in .go", c.FileSuffix),
			"use something like _partial.go")
	}

	if strings.HasSuffix(c.FileSuffix, "_test.go") {
		return errors.Newf("file_suffix %q would produce test files", c.FileSuffix)
	}

	if c.OptImport == "" || strings.ContainsAny(c.OptImport, " \t\"`") {
		return errors.WithHint(
			errors.Newf("opt_import %q is not an import path", c.OptImport),
			"use the path of a package declaring opt.Field, e.g. "+gen.DefaultOptImport)
	}

	if _, err := compat.ParseGoVersion(c.TypeRefMinGo); err != nil {
		return errors.Wrapf(err, "type_ref_min_go")
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.Newf("unknown log.level %q", c.Log.Level)
	}

	return nil
}

// WorkerLimit returns the effective worker bound.
func (c *Config) WorkerLimit() int {
	if c.Workers > 0 {
		return c.Workers
	}

	return runtime.GOMAXPROCS(0)
}

// GeneratorConfig returns the code generator settings.
func (c *Config) GeneratorConfig() gen.Config {
	return gen.Config{
		FileSuffix:       c.FileSuffix,
		FixImports:       c.FixImports,
		DebugUnformatted: true,
		OptImport:        c.OptImport,
	}
}

// PlanOptions returns the synthesis options.
func (c *Config) PlanOptions() plan.Options {
	return plan.Options{
		JSONOmitZero: c.JSONOmitZero,
		TypeRefMinGo: c.TypeRefMinGo,
	}
}

// YAML renders the configuration as a config file.
func (c *Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "encoding config")
	}

	return out, nil
}
