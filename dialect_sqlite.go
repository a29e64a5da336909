package fsqlexec

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// sqlite3Dialect opens database files with mattn/go-sqlite3. Every
// sqlite3.Error comes from the engine and counts as a server error.
type sqlite3Dialect struct{}

func (d *sqlite3Dialect) name() string { return "sqlite3" }

func (d *sqlite3Dialect) open(_ context.Context, cc ConnConfig) (*sql.DB, error) {
	dsn := firstNonEmpty(cc.URL, cc.Path, cc.Database)
	if dsn == "" {
		return nil, fmt.Errorf("sqlite3 connection needs a database path")
	}
	return sql.Open("sqlite3", dsn)
}

func (d *sqlite3Dialect) classify(err error) (ErrorKind, string) {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return KindServer, sqliteErr.Code.Error()
	}
	return KindDriver, ""
}

// firstNonEmpty returns the first non-empty string in the provided list.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
