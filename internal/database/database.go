package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

var ErrUnavailable = errors.New("storage unavailable")

// ConnectivityError is returned when the health check failed and the one
// reconnect attempt failed as well.
type ConnectivityError struct {
	HealthCheck error
	Reconnect   error
}

func (err *ConnectivityError) Error() string {
	return fmt.Sprintf("storage unavailable: health check failed (%v), reconnect failed (%v)", err.HealthCheck, err.Reconnect)
}

func (err *ConnectivityError) Unwrap() []error {
	return []error{ErrUnavailable, err.Reconnect}
}

// Opener creates a fresh, pinged handle.
type Opener func() (*sql.DB, error)

// Client owns the storage handle for the lifetime of the process. Every
// operation obtains the handle through DB, which health-checks it first.
type Client struct {
	mu      sync.Mutex
	db      *sql.DB
	open    Opener
	dialect Dialect
}

// DialectFor picks Postgres for postgres:// URLs and SQLite for anything
// else, which is treated as a file path.
func DialectFor(dsn string) Dialect {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

func Open(dsn string) (*Client, error) {
	dialect := DialectFor(dsn)
	switch dialect {
	case DialectPostgres:
		return NewClient(dialect, func() (*sql.DB, error) { return openPostgres(dsn) })
	default:
		return NewClient(dialect, func() (*sql.DB, error) { return openSQLite(dsn) })
	}
}

func NewClient(dialect Dialect, open Opener) (*Client, error) {
	database, err := open()
	if err != nil {
		return nil, err
	}
	return &Client{db: database, open: open, dialect: dialect}, nil
}

func (client *Client) Dialect() Dialect {
	return client.dialect
}

// DB returns a live handle. A failed round-trip triggers exactly one
// reconnect; if that fails too the error wraps ErrUnavailable.
//
// Reconnecting closes the previous handle. Queries already running on it
// finish, but new ones fail, so callers must call DB once per operation and
// never keep the returned handle across calls.
func (client *Client) DB(ctx context.Context) (*sql.DB, error) {
	client.mu.Lock()
	defer client.mu.Unlock()

	healthErr := errors.New("no open handle")
	if client.db != nil {
		healthErr = client.db.PingContext(ctx)
		if healthErr == nil {
			return client.db, nil
		}
		slog.Warn("storage health check failed, reconnecting", "error", healthErr)
		client.db.Close()
		client.db = nil
	}

	database, err := client.open()
	if err != nil {
		return nil, &ConnectivityError{HealthCheck: healthErr, Reconnect: err}
	}
	client.db = database
	slog.Info("storage reconnected", "dialect", client.dialect)
	return database, nil
}

// WithTx runs fn inside one transaction, rolling back on any error.
func (client *Client) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	database, err := client.DB(ctx)
	if err != nil {
		return err
	}

	transaction, err := database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(transaction); err != nil {
		if rollbackErr := transaction.Rollback(); rollbackErr != nil {
			slog.Error("rolling back transaction", "error", rollbackErr)
		}
		return err
	}
	if err := transaction.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Rebind rewrites ? placeholders to $n for Postgres. Queries must not
// contain literal question marks.
func (client *Client) Rebind(query string) string {
	if client.dialect != DialectPostgres {
		return query
	}
	var builder strings.Builder
	builder.Grow(len(query) + 8)
	position := 0
	for _, character := range query {
		if character == '?' {
			position++
			builder.WriteByte('$')
			builder.WriteString(strconv.Itoa(position))
			continue
		}
		builder.WriteRune(character)
	}
	return builder.String()
}

func (client *Client) Close() error {
	client.mu.Lock()
	defer client.mu.Unlock()
	if client.db == nil {
		return nil
	}
	err := client.db.Close()
	client.db = nil
	return err
}

func openSQLite(databasePath string) (*sql.DB, error) {
	directory := filepath.Dir(databasePath)
	if err := os.MkdirAll(directory, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	database, err := sql.Open("sqlite", databasePath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection keeps :memory: databases and pragmas on a single handle.
	database.SetMaxOpenConns(1)

	if _, err := database.Exec("PRAGMA journal_mode=WAL"); err != nil {
		database.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := database.Exec("PRAGMA busy_timeout=5000"); err != nil {
		database.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return database, nil
}

func openPostgres(dsn string) (*sql.DB, error) {
	database, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return database, nil
}
