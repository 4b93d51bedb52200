package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// ErrConflict is returned by InTx when a transaction keeps colliding
// with concurrent commits after the retry budget is spent.
var ErrConflict = errors.New("transaction conflict")

// Open connects to the configured database. dbType is "sqlite" or
// "postgres"; url is the driver connection string.
func Open(dbType, url string) (*sql.DB, error) {
	var conn *sql.DB
	var err error

	switch dbType {
	case "postgres":
		conn, err = sql.Open("postgres", url)
	case "sqlite":
		conn, err = sql.Open("sqlite", url)
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dbType == "sqlite" {
		// SQLite serializes writers; a single pooled connection avoids
		// SQLITE_BUSY storms and keeps pragmas applied to every query.
		conn.SetMaxOpenConns(1)
		if _, err := conn.Exec(`PRAGMA foreign_keys = ON; PRAGMA busy_timeout = 10000;`); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set sqlite pragmas: %w", err)
		}
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return conn, nil
}

// InTx runs fn inside a transaction, retrying up to retries times when
// the commit collides with a concurrent transaction (serialization
// failure, deadlock, or SQLite busy). fn must be side-effect free
// outside the transaction so a retry replays cleanly.
func InTx(conn *sql.DB, retries int, fn func(tx *sql.Tx) error) error {
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		err = runTx(conn, fn)
		if err == nil || !IsRetryable(err) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrConflict, err)
}

func runTx(conn *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// IsUniqueViolation reports whether err is a unique/primary key
// constraint violation from either driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "duplicate key value violates unique constraint") // postgres
}

// IsRetryable reports whether err is a transient concurrency failure
// worth retrying: postgres serialization/deadlock, sqlite busy.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "could not serialize access") || // postgres 40001
		strings.Contains(msg, "deadlock detected") || // postgres 40P01
		strings.Contains(msg, "database is locked") || // sqlite
		strings.Contains(msg, "SQLITE_BUSY")
}
