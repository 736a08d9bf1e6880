// Package base holds what every entitydoc subcommand shares: the UI, the
// logger, flag help rendering and configuration lookup.
package base

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/phillipfoxsmaflex/entitydoc/internal/config"
)

// EnvConfig names the configuration file when -config is not given.
const EnvConfig = "ENTITYDOC_CONFIG"

// Command is embedded by every subcommand.
type Command struct {
	UI  cli.Ui
	Log hclog.Logger
}

// New returns a Command using ui and log.
func New(ui cli.Ui, log hclog.Logger) *Command {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Command{UI: ui, Log: log}
}

// SetLogLevel applies a -log-level flag value. An empty level keeps the
// current one.
func (c *Command) SetLogLevel(level string) error {
	if level == "" {
		return nil
	}
	l := hclog.LevelFromString(level)
	if l == hclog.NoLevel {
		return fmt.Errorf("invalid log level %q", level)
	}
	c.Log.SetLevel(l)
	return nil
}

// LoadConfig reads the configuration file named by path, falling back to
// ENTITYDOC_CONFIG and then to config.DefaultFilename in the working
// directory. With no file at all the built-in defaults are returned.
func (c *Command) LoadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		if _, err := os.Stat(config.DefaultFilename); err != nil {
			c.Log.Debug("no configuration file, using defaults")
			return config.Default(), nil
		}
		path = config.DefaultFilename
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	c.Log.Debug("loaded configuration", "path", path)
	return cfg, nil
}

// FlagSet wraps a flag.FlagSet with help text rendering.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet wraps f. Parse errors are returned instead of printed.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	f.SetOutput(io.Discard)
	return &FlagSet{FlagSet: f}
}

// Help renders the flags as an "Options:" section.
func (f *FlagSet) Help() string {
	var flags []*flag.Flag
	f.VisitAll(func(fl *flag.Flag) {
		flags = append(flags, fl)
	})
	if len(flags) == 0 {
		return ""
	}
	sort.Slice(flags, func(i, j int) bool { return flags[i].Name < flags[j].Name })

	var b strings.Builder
	b.WriteString("\n\nOptions:\n")
	for _, fl := range flags {
		fmt.Fprintf(&b, "\n  -%s", fl.Name)
		if fl.DefValue != "" && fl.DefValue != "false" {
			fmt.Fprintf(&b, "=%s", fl.DefValue)
		}
		fmt.Fprintf(&b, "\n      %s\n", fl.Usage)
	}
	return b.String()
}

// StringEnv returns value, or the named environment variable when value is
// empty.
func StringEnv(value, key string) string {
	if value != "" {
		return value
	}
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return ""
}
