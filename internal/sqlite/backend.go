// Package sqlite implements the SQLite HostStorage backend for Cairn.
// A single kv table plays the role the device storage API played for the
// original client: synchronous, flat string keys, opaque values.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cairnapp/cairn/pkg/types"
)

const dbFileName = "cairn.db"

// schemaSQL is executed on every attach; CREATE TABLE IF NOT EXISTS keeps
// reattach non-destructive, since the queue depends on data surviving
// restarts.
const schemaSQL = `CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value BLOB NOT NULL,
    updated_at TEXT NOT NULL
);`

var _ types.HostStorage = (*Backend)(nil)

// Backend implements the HostStorage interface using SQLite.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist and initializes the schema.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}

	dbPath := filepath.Join(dataDir, dbFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("init schema: %w", err)
	}

	if config.LimitBytes == 0 {
		config.LimitBytes = types.DefaultLimitBytes
	}

	b.db = db
	b.config = config
	b.attached = true

	return nil
}

// Detach releases backend resources. Idempotent: detaching a detached
// backend succeeds. After Detach, operations return ErrStorageDetached.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	return nil
}

// Set stores value under key, replacing any previous value.
func (b *Backend) Set(key string, value []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrStorageDetached
	}

	_, err := b.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

// Get returns the value stored under key, or ErrKeyNotFound.
func (b *Backend) Get(key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStorageDetached
	}

	var value []byte
	err := b.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, types.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", key, err)
	}
	return value, nil
}

// Remove deletes key. Removing an absent key succeeds.
func (b *Backend) Remove(key string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrStorageDetached
	}

	if _, err := b.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

// Keys returns every stored key with the given prefix in lexicographic
// order.
func (b *Backend) Keys(prefix string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStorageDetached
	}

	rows, err := b.db.Query(
		"SELECT key FROM kv WHERE key >= ? AND key < ? ORDER BY key",
		prefix, prefixUpperBound(prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Clear deletes every stored key with the given prefix.
func (b *Backend) Clear(prefix string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrStorageDetached
	}

	_, err := b.db.Exec(
		"DELETE FROM kv WHERE key >= ? AND key < ?",
		prefix, prefixUpperBound(prefix),
	)
	if err != nil {
		return fmt.Errorf("clearing prefix %q: %w", prefix, err)
	}
	return nil
}

// Usage reports bytes consumed by keys and values against the configured
// quota.
func (b *Backend) Usage() (types.StorageUsage, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.StorageUsage{}, types.ErrStorageDetached
	}

	var used sql.NullInt64
	err := b.db.QueryRow("SELECT SUM(LENGTH(key) + LENGTH(value)) FROM kv").Scan(&used)
	if err != nil {
		return types.StorageUsage{}, fmt.Errorf("measuring usage: %w", err)
	}
	return types.StorageUsage{
		UsedBytes:  used.Int64,
		LimitBytes: b.config.LimitBytes,
	}, nil
}

// prefixUpperBound returns the smallest string greater than every string
// carrying prefix, for half-open range scans. An empty prefix scans the
// whole table.
func prefixUpperBound(prefix string) string {
	if prefix == "" {
		return "\xff\xff\xff\xff"
	}
	bound := []byte(prefix)
	for i := len(bound) - 1; i >= 0; i-- {
		if bound[i] < 0xff {
			bound[i]++
			return string(bound[:i+1])
		}
	}
	return prefix + "\xff"
}
