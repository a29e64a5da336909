package fsqlexec

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// dialect supplies the driver-specific parts of connecting and of
// classifying statement failures.
type dialect interface {
	name() string
	open(ctx context.Context, cc ConnConfig) (*sql.DB, error)
	classify(err error) (ErrorKind, string)
}

// newDialect returns the dialect for driver. An empty driver yields a
// dialect that can classify errors but cannot open connections.
func newDialect(driver string) (dialect, error) {
	switch normalizeDriver(driver) {
	case "pg":
		return &pgDialect{}, nil
	case "sqlite3":
		return &sqlite3Dialect{}, nil
	case "":
		return baseDialect{}, nil
	default:
		return nil, fmt.Errorf("db driver '%s' not supported. Must be one of: sqlite3 or pg", driver)
	}
}

// normalizeDriver maps driver aliases to their canonical name.
func normalizeDriver(driver string) string {
	switch d := strings.ToLower(strings.TrimSpace(driver)); d {
	case "pg", "pgx", "postgres", "postgresql":
		return "pg"
	case "sqlite", "sqlite3":
		return "sqlite3"
	default:
		return d
	}
}

// baseDialect treats every failure as a driver error.
type baseDialect struct{}

func (baseDialect) name() string { return "" }

func (baseDialect) open(context.Context, ConnConfig) (*sql.DB, error) {
	return nil, fmt.Errorf("no database driver configured")
}

func (baseDialect) classify(error) (ErrorKind, string) {
	return KindDriver, ""
}
