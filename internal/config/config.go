// Package config loads the entitydoc HCL configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/phillipfoxsmaflex/entitydoc"
	"github.com/phillipfoxsmaflex/entitydoc/category"
	"github.com/phillipfoxsmaflex/entitydoc/generator"
	"github.com/phillipfoxsmaflex/entitydoc/introspect"
)

const (
	// DefaultFilename is the configuration file looked up when none is given.
	DefaultFilename = "entitydoc.hcl"

	// DefaultCooldown is the minimum time between two watch-triggered runs.
	DefaultCooldown = 2 * time.Second

	// DefaultProbeTable is the table checked by the probe command.
	DefaultProbeTable = "safety_instruction"
)

// Config represents the configuration file.
type Config struct {
	SourceDir   string `hcl:"source_dir,optional"`
	Output      string `hcl:"output,optional"`
	ModelOutput string `hcl:"model_output,optional"`

	Extensions      []string `hcl:"extensions,optional"`
	Marker          string   `hcl:"marker,optional"`
	ExcludeDirs     []string `hcl:"exclude_dirs,optional"`
	ExcludeEntities []string `hcl:"exclude_entities,optional"`

	Title        string `hcl:"title,optional"`
	Purpose      string `hcl:"purpose,optional"`
	QuerySection string `hcl:"query_section,optional"`

	TypeMappings map[string]string `hcl:"type_mappings,optional"`
	Descriptions map[string]string `hcl:"descriptions,optional"`

	// Categories replace the built-in category table when at least one is
	// declared.
	Categories       []category.Category `hcl:"category,block"`
	ResidualCategory string              `hcl:"residual_category,optional"`

	// QueryExamples replace the built-in query examples when at least one is
	// declared.
	QueryExamples []generator.QueryExample `hcl:"query_example,block"`

	Watch *WatchConfig `hcl:"watch,block"`
	Probe *ProbeConfig `hcl:"probe,block"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	// Cooldown is a duration string such as "2s".
	Cooldown string `hcl:"cooldown,optional"`
	// Exec runs the given command for each regeneration instead of the
	// in-process pipeline. The first element is the program.
	Exec       []string `hcl:"exec,optional"`
	RunOnStart bool     `hcl:"run_on_start,optional"`

	// CooldownDuration is Cooldown parsed by ApplyDefaults.
	CooldownDuration time.Duration
}

// ProbeConfig configures the probe command. Connection parameters come from
// the environment.
type ProbeConfig struct {
	Driver string   `hcl:"driver,optional"`
	Schema string   `hcl:"schema,optional"`
	Tables []string `hcl:"tables,optional"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// Load reads, defaults and validates an HCL configuration file.
func Load(filename string) (*Config, error) {
	if filename == "" {
		return nil, fmt.Errorf("configuration file path is required")
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", filename)
	}

	var cfg Config
	if err := hclsimple.DecodeFile(filename, nil, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file: %w", err)
	}

	return finish(&cfg)
}

// Parse decodes configuration source. filename selects the syntax by its
// extension (".hcl" or ".json") and is used in diagnostics.
func Parse(filename string, src []byte) (*Config, error) {
	var cfg Config
	if err := hclsimple.Decode(filename, src, nil, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file: %w", err)
	}

	return finish(&cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults fills unset values. An unparsable cooldown is left for
// Validate to report.
func (c *Config) ApplyDefaults() {
	if c.Output == "" {
		c.Output = entitydoc.DefaultOutput
	}

	if c.Watch == nil {
		c.Watch = &WatchConfig{}
	}
	if c.Watch.Cooldown == "" {
		c.Watch.Cooldown = DefaultCooldown.String()
	}
	if d, err := time.ParseDuration(c.Watch.Cooldown); err == nil {
		c.Watch.CooldownDuration = d
	}

	if c.Probe == nil {
		c.Probe = &ProbeConfig{}
	}
	if c.Probe.Driver == "" {
		c.Probe.Driver = introspect.DriverPostgres
	}
	if c.Probe.Schema == "" {
		c.Probe.Schema = introspect.DefaultSchema
	}
	if len(c.Probe.Tables) == 0 {
		c.Probe.Tables = []string{DefaultProbeTable}
	}
}

// Validate implements validation.Validatable.
func (c Config) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.Watch),
		validation.Field(&c.Probe),
	); err != nil {
		return err
	}

	if categories := c.CategoryConfig(); categories != nil {
		if _, err := category.New(*categories); err != nil {
			return err
		}
	}
	return nil
}

// Validate implements validation.Validatable.
func (w WatchConfig) Validate() error {
	return validation.ValidateStruct(&w,
		validation.Field(&w.Cooldown, validation.Required, validation.By(positiveDuration)),
	)
}

// Validate implements validation.Validatable.
func (p ProbeConfig) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Driver, validation.Required, validation.In(introspect.DriverPostgres, introspect.DriverPgx)),
		validation.Field(&p.Schema, validation.Required),
		validation.Field(&p.Tables, validation.Required, validation.Each(validation.Required)),
	)
}

func positiveDuration(value interface{}) error {
	s, _ := value.(string)
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("must be a duration such as \"2s\"")
	}
	if d <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}

// CategoryConfig returns the declared categories, or nil when the built-in
// table applies.
func (c *Config) CategoryConfig() *category.Config {
	if len(c.Categories) == 0 && c.ResidualCategory == "" {
		return nil
	}

	categories := c.Categories
	if len(categories) == 0 {
		categories = category.DefaultConfig().Categories
	}
	return &category.Config{Categories: categories, Residual: c.ResidualCategory}
}

// Pipeline converts the file settings into a pipeline configuration.
func (c *Config) Pipeline() *entitydoc.Config {
	cfg := &entitydoc.Config{
		SourceDir:       c.SourceDir,
		Output:          c.Output,
		ModelOutput:     c.ModelOutput,
		Extensions:      c.Extensions,
		Marker:          c.Marker,
		ExcludeDirs:     c.ExcludeDirs,
		ExcludeEntities: c.ExcludeEntities,
		TypeMappings:    c.TypeMappings,
		Categories:      c.CategoryConfig(),
		Descriptions:    c.Descriptions,
		QuerySection:    c.QuerySection,
		Title:           c.Title,
		Purpose:         c.Purpose,
	}
	if len(c.QueryExamples) > 0 {
		cfg.QueryExamples = c.QueryExamples
	}
	return cfg
}
