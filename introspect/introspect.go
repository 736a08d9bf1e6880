// Package introspect checks a PostgreSQL catalog for the presence of tables.
//
// A probe distinguishes three outcomes. A table is present, a table is
// absent, or the database could not be asked. The third outcome is never
// reported as absent.
//
// Basic usage:
//
//	cfg, err := introspect.ConnConfigFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	status, err := introspect.Probe(ctx, cfg, []string{"safety_instruction"})
//	os.Exit(status.ExitCode())
//
// With an existing connection:
//
//	exists, err := introspect.TableExists(ctx, db, "public", "work_order")
package introspect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

var (
	// ErrConnection is matched by every error reported with StatusUnknown
	// when the database could not be reached or queried.
	ErrConnection = errors.New("database unavailable")

	// ErrNoTables is returned with StatusUnknown when no table was named.
	ErrNoTables = errors.New("at least one table is required")
)

// Status is the outcome of a probe. Its numeric value is the process exit
// code.
type Status int

const (
	// StatusAbsent means the table does not exist.
	StatusAbsent Status = iota
	// StatusExists means the table exists.
	StatusExists
	// StatusUnknown means the database could not be reached or queried.
	StatusUnknown
)

// ExitCode returns the process exit code for the status.
func (s Status) ExitCode() int {
	return int(s)
}

func (s Status) String() string {
	switch s {
	case StatusAbsent:
		return "absent"
	case StatusExists:
		return "exists"
	default:
		return "unknown"
	}
}

// Checker answers whether a table exists.
type Checker interface {
	TableExists(ctx context.Context, schema, table string) (bool, error)
}

// SQLChecker is a Checker backed by a database/sql connection.
type SQLChecker struct {
	DB *sql.DB
}

// TableExists implements Checker.
func (c SQLChecker) TableExists(ctx context.Context, schema, table string) (bool, error) {
	return TableExists(ctx, c.DB, schema, table)
}

// TableExists reports whether schema.table is listed in the catalog.
func TableExists(ctx context.Context, db *sql.DB, schema, table string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.tables
			WHERE table_schema = $1 AND table_name = $2
		)
	`

	var exists bool
	if err := db.QueryRowContext(ctx, query, schema, table).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check if table exists: %w", err)
	}
	return exists, nil
}

// Probe connects with cfg and checks each table. The returned status is the
// highest of the per-table statuses; any connection, authentication or
// query failure yields StatusUnknown with an error wrapping ErrConnection.
// An empty tables slice yields StatusUnknown and ErrNoTables without
// connecting.
func Probe(ctx context.Context, cfg ConnConfig, tables []string, opts ...Option) (Status, error) {
	if len(tables) == 0 {
		return StatusUnknown, ErrNoTables
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	driver := cfg.Driver
	if driver == "" {
		driver = DriverPostgres
	}

	db, err := sql.Open(driver, cfg.DSN())
	if err != nil {
		return StatusUnknown, fmt.Errorf("%w: failed to open database connection: %w", ErrConnection, err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return StatusUnknown, fmt.Errorf("%w: failed to ping database: %w", ErrConnection, err)
	}

	o.logger.Debug("connected", "driver", driver, "host", cfg.Host, "port", cfg.Port, "database", cfg.Database)
	return ProbeWith(ctx, SQLChecker{DB: db}, cfg.Schema, tables, opts...)
}

// ProbeWith checks each table with checker and returns the highest status.
func ProbeWith(ctx context.Context, checker Checker, schema string, tables []string, opts ...Option) (Status, error) {
	if len(tables) == 0 {
		return StatusUnknown, ErrNoTables
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if schema == "" {
		schema = DefaultSchema
	}

	result := StatusAbsent
	for _, table := range tables {
		queryCtx, cancel := context.WithTimeout(ctx, o.timeout)
		exists, err := checker.TableExists(queryCtx, schema, table)
		cancel()
		if err != nil {
			return StatusUnknown, fmt.Errorf("%w: %w", ErrConnection, err)
		}

		status := StatusAbsent
		if exists {
			status = StatusExists
		}
		o.logger.Debug("checked table", "schema", schema, "table", table, "status", status.String())
		if status > result {
			result = status
		}
	}
	return result, nil
}
