// Package database implements the postboard repository on top of a SQL
// backend. SQLite (modernc) and Postgres (pgx) are supported.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/sethvargo/go-retry"
	_ "modernc.org/sqlite"
)

// Dialect names the SQL backend a connection talks to.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Target is a parsed backend URL: which driver to use and the DSN to hand it.
type Target struct {
	Dialect Dialect
	Driver  string
	DSN     string
}

// ParseBackendURL turns a backend URL and the service credential into a
// driver target.
//
//	sqlite://./postboard.db       file database
//	sqlite://:memory:             private in-memory database
//	postgres://user@host:5432/db  credential becomes the password
func ParseBackendURL(backendURL, credential string) (Target, error) {
	switch {
	case strings.HasPrefix(backendURL, "sqlite://"):
		path := strings.TrimPrefix(backendURL, "sqlite://")
		if path == "" {
			return Target{}, fmt.Errorf("sqlite backend url has no path: %q", backendURL)
		}
		dsn := path
		if path != ":memory:" {
			dsn = path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
		}
		return Target{Dialect: DialectSQLite, Driver: "sqlite", DSN: dsn}, nil
	case strings.HasPrefix(backendURL, "postgres://"), strings.HasPrefix(backendURL, "postgresql://"):
		u, err := url.Parse(backendURL)
		if err != nil {
			return Target{}, fmt.Errorf("error parsing backend url: %s", err)
		}
		if credential != "" {
			username := "postgres"
			if u.User != nil && u.User.Username() != "" {
				username = u.User.Username()
			}
			u.User = url.UserPassword(username, credential)
		}
		return Target{Dialect: DialectPostgres, Driver: "pgx", DSN: u.String()}, nil
	default:
		return Target{}, fmt.Errorf("unsupported backend url scheme: %q", backendURL)
	}
}

// Open connects to the backend and waits for it to answer a ping, retrying
// with a fibonacci backoff until ctx is done.
func Open(ctx context.Context, backendURL, credential string) (*sqlx.DB, Dialect, error) {
	target, err := ParseBackendURL(backendURL, credential)
	if err != nil {
		return nil, "", err
	}

	dbx, err := sqlx.Open(target.Driver, target.DSN)
	if err != nil {
		return nil, "", fmt.Errorf("error opening database: %s", err)
	}
	if target.DSN == ":memory:" {
		// Every new connection to :memory: is a fresh, empty database.
		dbx.SetMaxOpenConns(1)
	}

	b := retry.WithMaxRetries(5, retry.NewFibonacci(500*time.Millisecond))
	if err := retry.Do(ctx, b, func(ctx context.Context) error {
		if err := dbx.PingContext(ctx); err != nil {
			slog.WarnContext(ctx, "backend not ready", "dialect", target.Dialect, "err", err)
			return retry.RetryableError(err)
		}
		return nil
	}); err != nil {
		dbx.Close()
		return nil, "", fmt.Errorf("error reaching backend: %w", err)
	}

	return dbx, target.Dialect, nil
}
