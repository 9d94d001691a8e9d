// Package sqlite is a store.Backend keeping each kind as one row of a
// single-file SQLite database. Writes are UPSERTs inside a transaction.
//
// Writers of a kind are serialised with an advisory lock on
// "<db>.<kind>.lock", so processes sharing the database file never
// interleave their read-modify-write cycles.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"saba/internal/store"
)

const (
	defaultBusyTimeout = 5 * time.Second
	retryDelay         = 25 * time.Millisecond
)

type Backend struct {
	db          *sql.DB
	path        string
	lockTimeout time.Duration
}

// dsn adds a busy timeout so a connection waits for another process's
// transaction instead of failing with SQLITE_BUSY.
func dsn(dbPath string, busy time.Duration) string {
	return fmt.Sprintf("%s?_pragma=busy_timeout(%d)", dbPath, busy.Milliseconds())
}

// Open opens or creates the database at dbPath and applies migrations.
// lockTimeout bounds both Lock and the SQLite busy wait; zero means
// Lock waits until ctx ends and the busy wait uses a default.
func Open(dbPath string, lockTimeout time.Duration) (*Backend, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	busy := lockTimeout
	if busy <= 0 {
		busy = defaultBusyTimeout
	}
	if err := RunMigrations(dsn(dbPath, busy)); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn(dbPath, busy))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection keeps writes serialised and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Backend{db: db, path: dbPath, lockTimeout: lockTimeout}, nil
}

func (b *Backend) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

// Ping is used by the readiness probe.
func (b *Backend) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

func (b *Backend) Read(ctx context.Context, kind store.Kind) ([]byte, error) {
	var body []byte
	err := b.db.QueryRowContext(ctx, `SELECT body FROM records WHERE kind = ?`, string(kind)).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", kind, err)
	}
	return body, nil
}

func (b *Backend) Write(ctx context.Context, kind store.Kind, data []byte) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO records (kind, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(kind) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		string(kind), data, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", kind, err)
	}
	return tx.Commit()
}

// Lock grants exclusive write access to kind across every process using
// the same database file.
func (b *Backend) Lock(ctx context.Context, kind store.Kind) (func(), error) {
	if b.lockTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.lockTimeout)
		defer cancel()
	}
	lockPath := b.path + "." + string(kind) + ".lock"
	fl := flock.New(lockPath)
	ok, err := fl.TryLockContext(ctx, retryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", lockPath, err)
	}
	if !ok {
		return nil, fmt.Errorf("acquire %s: lock busy", lockPath)
	}
	return func() { _ = fl.Unlock() }, nil
}
