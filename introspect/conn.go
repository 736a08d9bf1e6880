package introspect

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Supported database/sql driver names.
const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
)

// DefaultSchema is the schema searched when none is configured.
const DefaultSchema = "public"

// ConnConfig holds PostgreSQL connection parameters.
type ConnConfig struct {
	Driver   string
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
	Schema   string
}

// DefaultConnConfig returns the parameters of a local development database.
func DefaultConnConfig() ConnConfig {
	return ConnConfig{
		Driver:   DriverPostgres,
		Host:     "localhost",
		Port:     5432,
		Database: "mms",
		User:     "rootUser",
		Password: "rootPassword",
		SSLMode:  "disable",
		Schema:   DefaultSchema,
	}
}

// ConnConfigFromEnv reads DB_HOST, DB_PORT, DB_NAME, DB_USER, DB_PASSWORD,
// DB_SSLMODE and DB_SCHEMA, falling back to DefaultConnConfig for unset
// variables.
func ConnConfigFromEnv() (ConnConfig, error) {
	cfg := DefaultConnConfig()

	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 {
			return ConnConfig{}, fmt.Errorf("invalid DB_PORT %q", v)
		}
		cfg.Port = port
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.User = v
	}
	if v, ok := os.LookupEnv("DB_PASSWORD"); ok {
		cfg.Password = v
	}
	if v := os.Getenv("DB_SSLMODE"); v != "" {
		cfg.SSLMode = v
	}
	if v := os.Getenv("DB_SCHEMA"); v != "" {
		cfg.Schema = v
	}

	return cfg, nil
}

// LoadEnv loads variables from the given dotenv files (default ".env")
// without overriding variables already set. Missing files are ignored.
func LoadEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, filename := range filenames {
		if err := godotenv.Load(filename); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", filename, err)
		}
	}
	return nil
}

// DSN returns a keyword/value connection string understood by both
// supported drivers.
func (c ConnConfig) DSN() string {
	pairs := []struct{ key, value string }{
		{"host", c.Host},
		{"port", portString(c.Port)},
		{"dbname", c.Database},
		{"user", c.User},
		{"password", c.Password},
		{"sslmode", c.SSLMode},
	}

	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p.value == "" {
			continue
		}
		parts = append(parts, p.key+"="+quoteDSNValue(p.value))
	}
	return strings.Join(parts, " ")
}

func portString(port int) string {
	if port <= 0 {
		return ""
	}
	return strconv.Itoa(port)
}

func quoteDSNValue(v string) string {
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
