package generate

import (
	"flag"
	"fmt"

	"github.com/phillipfoxsmaflex/entitydoc"
	"github.com/phillipfoxsmaflex/entitydoc/internal/cmd/base"
	"github.com/phillipfoxsmaflex/entitydoc/internal/config"
)

// Environment variables that fill unset flags.
const (
	EnvSourceDir = "ENTITYDOC_SOURCE_DIR"
	EnvOutput    = "ENTITYDOC_OUTPUT"
)

type Command struct {
	*base.Command

	flagConfig      string
	flagSource      string
	flagOutput      string
	flagModelOutput string
	flagLogLevel    string
}

func (c *Command) Synopsis() string {
	return "Generate the database structure document"
}

func (c *Command) Help() string {
	return `Usage: entitydoc generate [options]

  Scans the entity sources, groups the entities into categories and writes
  the Markdown database structure document.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("generate", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "",
		"[ENTITYDOC_CONFIG] Path to the HCL configuration file",
	)
	f.StringVar(
		&c.flagSource, "source", "",
		"[ENTITYDOC_SOURCE_DIR] Directory containing the entity sources",
	)
	f.StringVar(
		&c.flagOutput, "output", "",
		"[ENTITYDOC_OUTPUT] Markdown output path (default: "+entitydoc.DefaultOutput+")",
	)
	f.StringVar(
		&c.flagModelOutput, "model-output", "",
		"Also write the categorized model as YAML to this path",
	)
	f.StringVar(
		&c.flagLogLevel, "log-level", "",
		"Log level (trace, debug, info, warn, error)",
	)

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if err := c.SetLogLevel(c.flagLogLevel); err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	cfg, err := c.LoadConfig(c.flagConfig)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading configuration: %v", err))
		return 1
	}

	pipeline := Pipeline(cfg, c.flagSource, c.flagOutput, c.flagModelOutput)
	if pipeline.SourceDir == "" {
		c.UI.Error("source directory is required (-source, " + EnvSourceDir + " or source_dir)")
		return 1
	}

	result, err := entitydoc.WriteToFile(pipeline, entitydoc.WithLogger(c.Log))
	if err != nil {
		c.UI.Error(fmt.Sprintf("error generating documentation: %v", err))
		return 1
	}

	for _, failure := range result.Report.Failures {
		c.UI.Warn(fmt.Sprintf("skipped: %v", failure))
	}
	c.UI.Output(fmt.Sprintf(
		"Documentation written to %s (%d entities from %d files)",
		pipeline.Output, result.Report.Entities, result.Report.Scanned,
	))
	if pipeline.ModelOutput != "" {
		c.UI.Output(fmt.Sprintf("Model written to %s", pipeline.ModelOutput))
	}
	return 0
}

// Pipeline builds the pipeline configuration. Flag values win over the
// environment, which wins over the file.
func Pipeline(cfg *config.Config, source, output, modelOutput string) *entitydoc.Config {
	p := cfg.Pipeline()
	if v := base.StringEnv(source, EnvSourceDir); v != "" {
		p.SourceDir = v
	}
	if v := base.StringEnv(output, EnvOutput); v != "" {
		p.Output = v
	}
	if modelOutput != "" {
		p.ModelOutput = modelOutput
	}
	if p.Output == "" {
		p.Output = entitydoc.DefaultOutput
	}
	return p
}
