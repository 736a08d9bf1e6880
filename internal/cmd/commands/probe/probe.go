package probe

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/phillipfoxsmaflex/entitydoc/internal/cmd/base"
	"github.com/phillipfoxsmaflex/entitydoc/introspect"
)

type Command struct {
	*base.Command

	flagConfig   string
	flagDriver   string
	flagSchema   string
	flagEnvFile  string
	flagTimeout  time.Duration
	flagLogLevel string
}

func (c *Command) Synopsis() string {
	return "Check whether tables exist in the database"
}

func (c *Command) Help() string {
	return `Usage: entitydoc probe [options] [table ...]

  Checks the PostgreSQL catalog for the given tables (default:
  safety_instruction). Connection parameters come from DB_HOST, DB_PORT,
  DB_NAME, DB_USER, DB_PASSWORD, DB_SSLMODE and DB_SCHEMA, optionally loaded
  from a .env file.

  Exit status:
    0  none of the tables exist
    1  a table exists
    2  the database could not be reached or queried` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("probe", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "",
		"[ENTITYDOC_CONFIG] Path to the HCL configuration file",
	)
	f.StringVar(
		&c.flagDriver, "driver", "",
		"Database driver (postgres, pgx)",
	)
	f.StringVar(
		&c.flagSchema, "schema", "",
		"[DB_SCHEMA] Schema searched for the tables (default: "+introspect.DefaultSchema+")",
	)
	f.StringVar(
		&c.flagEnvFile, "env-file", ".env",
		"Dotenv file with connection parameters; ignored when missing",
	)
	f.DurationVar(
		&c.flagTimeout, "timeout", introspect.DefaultTimeout,
		"Timeout for connecting and for each query",
	)
	f.StringVar(
		&c.flagLogLevel, "log-level", "",
		"Log level (trace, debug, info, warn, error)",
	)

	return f
}

func (c *Command) Run(args []string) int {
	unknown := introspect.StatusUnknown.ExitCode()

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return unknown
	}
	if err := c.SetLogLevel(c.flagLogLevel); err != nil {
		c.UI.Error(err.Error())
		return unknown
	}

	cfg, err := c.LoadConfig(c.flagConfig)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading configuration: %v", err))
		return unknown
	}

	if err := introspect.LoadEnv(c.flagEnvFile); err != nil {
		c.UI.Error(err.Error())
		return unknown
	}
	conn, err := introspect.ConnConfigFromEnv()
	if err != nil {
		c.UI.Error(err.Error())
		return unknown
	}

	conn.Driver = cfg.Probe.Driver
	if c.flagDriver != "" {
		conn.Driver = c.flagDriver
	}
	if conn.Driver != introspect.DriverPostgres && conn.Driver != introspect.DriverPgx {
		c.UI.Error(fmt.Sprintf("unsupported driver %q", conn.Driver))
		return unknown
	}
	if c.flagSchema != "" {
		conn.Schema = c.flagSchema
	} else if conn.Schema == introspect.DefaultSchema {
		conn.Schema = cfg.Probe.Schema
	}

	tables := f.Args()
	if len(tables) == 0 {
		tables = cfg.Probe.Tables
	}

	status, err := introspect.Probe(context.Background(), conn, tables,
		introspect.WithTimeout(c.flagTimeout),
		introspect.WithLogger(c.Log.Named("probe")),
	)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error checking tables: %v", err))
		return status.ExitCode()
	}

	c.UI.Output(describe(status, conn.Schema, tables))
	return status.ExitCode()
}

func describe(status introspect.Status, schema string, tables []string) string {
	qualified := make([]string, len(tables))
	for i, t := range tables {
		qualified[i] = schema + "." + t
	}
	names := strings.Join(qualified, ", ")

	if len(tables) == 1 {
		if status == introspect.StatusExists {
			return fmt.Sprintf("Table %s exists", names)
		}
		return fmt.Sprintf("Table %s does not exist", names)
	}
	if status == introspect.StatusExists {
		return fmt.Sprintf("At least one of %s exists", names)
	}
	return fmt.Sprintf("None of %s exist", names)
}
