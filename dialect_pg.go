package fsqlexec

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"
)

// pgDialect connects through pgx and reports *pgconn.PgError as server errors.
type pgDialect struct{}

func (d *pgDialect) name() string { return "pg" }

func (d *pgDialect) open(_ context.Context, cc ConnConfig) (*sql.DB, error) {
	connConfig, err := pgx.ParseConfig(pgConnString(cc))
	if err != nil {
		return nil, fmt.Errorf("invalid PostgreSQL connection settings: %w", err)
	}
	return stdlib.OpenDB(*connConfig), nil
}

func (d *pgDialect) classify(err error) (ErrorKind, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return KindServer, pgErr.Code
	}
	return KindDriver, ""
}

// pgConnString returns cc.URL when set, otherwise a postgres:// URL built
// from the individual settings.
func pgConnString(cc ConnConfig) string {
	if cc.URL != "" {
		return cc.URL
	}
	u := url.URL{Scheme: "postgres"}
	if cc.User != "" {
		if cc.Password != "" {
			u.User = url.UserPassword(cc.User, cc.Password)
		} else {
			u.User = url.User(cc.User)
		}
	}
	host := cc.Host
	if host == "" {
		host = "localhost"
	}
	if cc.Port > 0 {
		u.Host = net.JoinHostPort(host, strconv.Itoa(cc.Port))
	} else {
		u.Host = host
	}
	if cc.Database != "" {
		u.Path = "/" + cc.Database
	}
	if cc.SSLMode != "" {
		q := url.Values{}
		q.Set("sslmode", cc.SSLMode)
		u.RawQuery = q.Encode()
	}
	return u.String()
}
