package watch

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/phillipfoxsmaflex/entitydoc"
	"github.com/phillipfoxsmaflex/entitydoc/internal/cmd/base"
	"github.com/phillipfoxsmaflex/entitydoc/internal/cmd/commands/generate"
	"github.com/phillipfoxsmaflex/entitydoc/internal/config"
	"github.com/phillipfoxsmaflex/entitydoc/watch"
)

type Command struct {
	*base.Command

	flagConfig      string
	flagSource      string
	flagOutput      string
	flagModelOutput string
	flagCooldown    string
	flagExec        string
	flagRunOnStart  bool
	flagLogLevel    string
}

func (c *Command) Synopsis() string {
	return "Regenerate the document when entity sources change"
}

func (c *Command) Help() string {
	return `Usage: entitydoc watch [options]

  Watches the source directory and regenerates the document after changes.
  Changes arriving within the cooldown of the previous run are ignored.
  Stops on SIGINT or SIGTERM.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("watch", flag.ContinueOnError))

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
		"[ENTITYDOC_OUTPUT] Markdown output path",
	)
	f.StringVar(
		&c.flagModelOutput, "model-output", "",
		"Also write the categorized model as YAML to this path",
	)
	f.StringVar(
		&c.flagCooldown, "cooldown", "",
		"Minimum time between two runs (default: "+config.DefaultCooldown.String()+")",
	)
	f.StringVar(
		&c.flagExec, "exec", "",
		"Run this command (split on spaces) for each regeneration instead of generating in-process",
	)
	f.BoolVar(
		&c.flagRunOnStart, "run-on-start", false,
		"Generate once before watching",
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

	w, err := c.watcher(cfg)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := w.Run(ctx); err != nil {
		c.UI.Error(fmt.Sprintf("error watching sources: %v", err))
		return 1
	}
	return 0
}

func (c *Command) watcher(cfg *config.Config) (*watch.Watcher, error) {
	pipeline := generate.Pipeline(cfg, c.flagSource, c.flagOutput, c.flagModelOutput)
	if pipeline.SourceDir == "" {
		return nil, fmt.Errorf("source directory is required (-source, %s or source_dir)", generate.EnvSourceDir)
	}

	cooldown := cfg.Watch.CooldownDuration
	if c.flagCooldown != "" {
		d, err := time.ParseDuration(c.flagCooldown)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid cooldown %q", c.flagCooldown)
		}
		cooldown = d
	}

	argv := cfg.Watch.Exec
	if c.flagExec != "" {
		argv = strings.Fields(c.flagExec)
	}

	var runner watch.Runner
	if len(argv) > 0 {
		r, err := watch.NewExecRunner(argv, "")
		if err != nil {
			return nil, fmt.Errorf("invalid exec command: %w", err)
		}
		runner = r
	} else {
		runner = watch.RunnerFunc(func(ctx context.Context) error {
			result, err := entitydoc.WriteToFile(pipeline, entitydoc.WithLogger(c.Log))
			if err != nil {
				return err
			}
			for _, failure := range result.Report.Failures {
				c.UI.Warn(fmt.Sprintf("skipped: %v", failure))
			}
			return nil
		})
	}

	return watch.New(watch.Config{
		Root:        pipeline.SourceDir,
		Extensions:  pipeline.Extensions,
		ExcludeDirs: pipeline.ExcludeDirs,
		Cooldown:    cooldown,
		RunOnStart:  c.flagRunOnStart || cfg.Watch.RunOnStart,
	}, runner, c.Log.Named("watch")), nil
}
