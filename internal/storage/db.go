// Package storage provides the SQLite persistence layer for students,
// offices, salaries, and colleges.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver for database/sql

	"github.com/ecoulson/perdue/internal/metrics"
)

// DatabaseBusyTimeout is how long a connection waits on a locked database.
const DatabaseBusyTimeout = 5 * time.Second

// DatabaseConnMaxLifetime bounds how long pooled connections are reused.
const DatabaseConnMaxLifetime = time.Hour

// DB wraps SQLite database connections with read/write separation.
// Writer uses a single connection to avoid SQLITE_BUSY errors; upserts for a
// chunk run in one transaction, so they are atomic and last-writer-wins
// across concurrent sites. Reader uses multiple connections for parallel
// queries.
type DB struct {
	mu      sync.RWMutex
	writer  *sql.DB
	reader  *sql.DB
	path    string
	metrics *metrics.Metrics
}

// New creates a new database with read/write separation and initializes the
// schema. maxReadConns sizes the reader pool.
func New(ctx context.Context, dbPath string, maxReadConns int) (*DB, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	isMemory := dbPath == ":memory:"

	var writerDSN, readerDSN string
	if isMemory {
		baseDSN := "file:perdue_directory?mode=memory&cache=shared"
		writerDSN = baseDSN + "&_txlock=immediate"
		readerDSN = baseDSN
	} else {
		writerDSN = dbPath + "?_txlock=immediate"
		readerDSN = dbPath + "?mode=ro"
	}

	writer, err := sql.Open("sqlite", writerDSN)
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}

	writer.SetMaxOpenConns(1)
	writer.SetMaxIdleConns(1)
	writer.SetConnMaxLifetime(DatabaseConnMaxLifetime)

	if err := configureConnection(ctx, writer, false); err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("configure writer: %w", err)
	}

	if err := writer.PingContext(ctx); err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("ping writer: %w", err)
	}

	if err := InitSchema(ctx, writer); err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	reader, err := sql.Open("sqlite", readerDSN)
	if err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("open reader: %w", err)
	}

	if maxReadConns <= 0 {
		maxReadConns = 8
	}
	reader.SetMaxOpenConns(maxReadConns)
	reader.SetMaxIdleConns(maxReadConns / 2)
	reader.SetConnMaxLifetime(DatabaseConnMaxLifetime)

	if err := configureConnection(ctx, reader, true); err != nil {
		_ = writer.Close()
		_ = reader.Close()
		return nil, fmt.Errorf("configure reader: %w", err)
	}

	if err := reader.PingContext(ctx); err != nil {
		_ = writer.Close()
		_ = reader.Close()
		return nil, fmt.Errorf("ping reader: %w", err)
	}

	return &DB{
		writer: writer,
		reader: reader,
		path:   dbPath,
	}, nil
}

func configureConnection(ctx context.Context, conn *sql.DB, readOnly bool) error {
	if !readOnly {
		if _, err := conn.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			return fmt.Errorf("enable WAL: %w", err)
		}
	}

	busyTimeoutMs := int(DatabaseBusyTimeout.Milliseconds())
	if _, err := conn.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeoutMs)); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := conn.ExecContext(ctx, "PRAGMA temp_store=MEMORY"); err != nil {
		return fmt.Errorf("failed to set temp store: %w", err)
	}

	// WAL keeps NORMAL durable for the writer
	if !readOnly {
		if _, err := conn.ExecContext(ctx, "PRAGMA synchronous=NORMAL"); err != nil {
			return fmt.Errorf("failed to set synchronous mode: %w", err)
		}
	} else {
		if _, err := conn.ExecContext(ctx, "PRAGMA query_only=ON"); err != nil {
			return fmt.Errorf("failed to set query-only mode: %w", err)
		}
	}

	return nil
}

// Close closes both reader and writer database connections.
// Returns all errors joined together.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	var errs []error
	if db.reader != nil {
		if err := db.reader.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close reader: %w", err))
		}
	}
	if db.writer != nil {
		if err := db.writer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close writer: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Writer returns the writer connection for write operations.
func (db *DB) Writer() *sql.DB {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.writer
}

// Reader returns the reader connection pool for read operations.
func (db *DB) Reader() *sql.DB {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.reader
}

// Path returns the database file path.
func (db *DB) Path() string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.path
}

// ExecContext executes a write query with context on the writer connection.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	db.mu.RLock()
	writer := db.writer
	db.mu.RUnlock()
	return writer.ExecContext(ctx, query, args...)
}

// Ping verifies both connections are alive.
func (db *DB) Ping(ctx context.Context) error {
	db.mu.RLock()
	writer := db.writer
	reader := db.reader
	db.mu.RUnlock()
	return errors.Join(
		writer.PingContext(ctx),
		reader.PingContext(ctx),
	)
}

// ExecBatchContext executes a batch of operations within a single
// transaction. The execFn receives the prepared statement and should execute
// it for each item.
func (db *DB) ExecBatchContext(ctx context.Context, query string, execFn func(stmt *sql.Stmt) error) error {
	db.mu.RLock()
	writer := db.writer
	db.mu.RUnlock()

	tx, err := writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	if err := execFn(stmt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true

	return nil
}

// CreateSnapshot creates a consistent snapshot of the database at destPath
// using VACUUM INTO.
func (db *DB) CreateSnapshot(ctx context.Context, destPath string) error {
	if destPath == "" {
		return errors.New("snapshot path is required")
	}
	_ = os.Remove(destPath)

	query := fmt.Sprintf("VACUUM INTO '%s'", escapeSQLiteString(destPath))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("create snapshot: wal checkpoint: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA optimize"); err != nil {
		return fmt.Errorf("create snapshot: optimize: %w", err)
	}
	return nil
}

// CheckIntegrity runs PRAGMA integrity_check on the database.
func (db *DB) CheckIntegrity(ctx context.Context) error {
	db.mu.RLock()
	reader := db.reader
	db.mu.RUnlock()

	var result string
	err := reader.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result)
	if err != nil {
		return fmt.Errorf("integrity check query failed: %w", err)
	}

	if result != "ok" {
		return fmt.Errorf("database integrity check failed: %s", result)
	}

	return nil
}

func escapeSQLiteString(value string) string {
	return strings.ReplaceAll(value, "'", "''")
}
