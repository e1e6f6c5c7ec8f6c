package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/panyam/ion/decl"
	"github.com/panyam/ion/runtime"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFile = "ion.yaml"
	DefaultEnvFile    = ".env"
	EnvPrefix         = "ION_"
)

// Config holds the knobs shared by the CLI, the REPL and embedders.
type Config struct {
	LogLevel       string `yaml:"log_level"`
	MaxAliasDepth  int    `yaml:"max_alias_depth"`
	MaxSchemaDepth int    `yaml:"max_schema_depth"`
	MaxErrors      int    `yaml:"max_errors"`
	Prompt         string `yaml:"prompt"`
	HistoryFile    string `yaml:"history_file"`
	ShowTree       bool   `yaml:"show_tree"`
}

func Defaults() *Config {
	return &Config{
		LogLevel:       runtime.LogLevelWarn.String(),
		MaxAliasDepth:  decl.DefaultMaxAliasDepth,
		MaxSchemaDepth: runtime.DefaultMaxSchemaDepth,
		MaxErrors:      10,
		Prompt:         "ion> ",
	}
}

// Options says where Load looks. Empty paths fall back to the defaults;
// a missing default file is not an error, a missing explicit one is.
type Options struct {
	ConfigFile string
	EnvFile    string
}

// Load layers defaults, the YAML file, the .env file and the process environment.
// Flags are applied afterwards with ApplyFlags.
func Load(opts Options) (*Config, error) {
	cfg := Defaults()

	path, explicit := opts.ConfigFile, opts.ConfigFile != ""
	if !explicit {
		path = DefaultConfigFile
	}
	if err := cfg.LoadYAML(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	envPath, explicit := opts.EnvFile, opts.EnvFile != ""
	if !explicit {
		envPath = DefaultEnvFile
	}
	// godotenv.Load never overrides variables that are already set, which
	// keeps the process environment above the .env file.
	if err := godotenv.Load(envPath); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: loading %s: %w", envPath, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// LoadYAML overlays the fields present in the file at path.
func (c *Config) LoadYAML(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()
	return c.DecodeYAML(f, path)
}

func (c *Config) DecodeYAML(r io.Reader, name string) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("config: parse %s: %w", name, err)
	}
	return nil
}

// ApplyEnv overlays ION_* variables found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %s%s: %w", EnvPrefix, key, err)
		}
		*dst = n
		return nil
	}

	str("LOG_LEVEL", &c.LogLevel)
	str("PROMPT", &c.Prompt)
	str("HISTORY_FILE", &c.HistoryFile)
	if v, ok := lookup(EnvPrefix + "SHOW_TREE"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %sSHOW_TREE: %w", EnvPrefix, err)
		}
		c.ShowTree = b
	}
	return errors.Join(
		num("MAX_ALIAS_DEPTH", &c.MaxAliasDepth),
		num("MAX_SCHEMA_DEPTH", &c.MaxSchemaDepth),
		num("MAX_ERRORS", &c.MaxErrors),
	)
}

// RegisterFlags adds the overridable settings to a flag set.
func RegisterFlags(flags *pflag.FlagSet) {
	d := Defaults()
	flags.String("log-level", d.LogLevel, "Log level (debug, info, warn, error)")
	flags.Int("max-alias-depth", d.MaxAliasDepth, "Maximum alias hops before resolution fails")
	flags.Int("max-schema-depth", d.MaxSchemaDepth, "Maximum nesting of structural type checks")
	flags.Int("max-errors", d.MaxErrors, "Maximum diagnostics reported by check (0 = unlimited)")
	flags.Bool("show-tree", d.ShowTree, "Print the parsed tree before evaluating")
}

// ApplyFlags copies only the flags the user actually set.
func (c *Config) ApplyFlags(flags *pflag.FlagSet) error {
	var errs []error
	if flags.Changed("log-level") {
		v, err := flags.GetString("log-level")
		errs = append(errs, err)
		c.LogLevel = v
	}
	for name, dst := range map[string]*int{
		"max-alias-depth":  &c.MaxAliasDepth,
		"max-schema-depth": &c.MaxSchemaDepth,
		"max-errors":       &c.MaxErrors,
	} {
		if flags.Changed(name) {
			v, err := flags.GetInt(name)
			errs = append(errs, err)
			*dst = v
		}
	}
	if flags.Changed("show-tree") {
		v, err := flags.GetBool("show-tree")
		errs = append(errs, err)
		c.ShowTree = v
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	var errs []error
	if _, err := runtime.ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("config: log_level: %w", err))
	}
	if c.MaxAliasDepth <= 0 {
		errs = append(errs, fmt.Errorf("config: max_alias_depth must be positive, got %d", c.MaxAliasDepth))
	}
	if c.MaxSchemaDepth <= 0 {
		errs = append(errs, fmt.Errorf("config: max_schema_depth must be positive, got %d", c.MaxSchemaDepth))
	}
	if c.MaxErrors < 0 {
		errs = append(errs, fmt.Errorf("config: max_errors must not be negative, got %d", c.MaxErrors))
	}
	return errors.Join(errs...)
}

// ApplyLogLevel sets the global runtime logger's level.
func (c *Config) ApplyLogLevel() error {
	level, err := runtime.ParseLogLevel(c.LogLevel)
	if err != nil {
		return err
	}
	runtime.SetLogLevel(level)
	return nil
}

func (c *Config) NewEvaluator() *runtime.SimpleEval {
	return &runtime.SimpleEval{MaxSchemaDepth: c.MaxSchemaDepth}
}

// NewRootScope seeds a root scope with the natives and the configured alias bound.
func (c *Config) NewRootScope(host *runtime.Host) *decl.Scope {
	scope := runtime.NewRootScope(host)
	scope.SetMaxAliasDepth(c.MaxAliasDepth)
	return scope
}
