package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	_ "github.com/tursodatabase/go-libsql"
	_ "modernc.org/sqlite"
)

// Store is a string-keyed persistent store. Values are opaque strings;
// use Get and Set for JSON-typed access.
type Store interface {
	Raw(key string) (string, bool)
	Put(key, value string) error
}

// Driver names accepted by Open.
const (
	DriverLibSQL = "libsql"
	DriverSQLite = "sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// Get returns the JSON-decoded value stored under key, or def if the key is
// absent or the stored value does not decode into T.
func Get[T any](s Store, key string, def T) T {
	raw, ok := s.Raw(key)
	if !ok || raw == "" || raw == "null" {
		return def
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		log.Debug("stored value did not decode, using default", "key", key, "err", err)
		return def
	}
	return v
}

// Set JSON-encodes v and persists it under key. Persistence is best-effort:
// failures are logged, never returned.
func Set[T any](s Store, key string, v T) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Warn("failed to encode value", "key", key, "err", err)
		return
	}
	if err := s.Put(key, string(data)); err != nil {
		log.Warn("failed to persist value", "key", key, "err", err)
	}
}

// SQLStore implements Store on a single kv table.
type SQLStore struct {
	db *sql.DB
}

// Open opens (and creates if needed) a kv database at path using the given
// driver. The libsql driver expects a file: DSN; sqlite takes the bare path.
func Open(driver, path string) (*SQLStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := path
	switch driver {
	case DriverLibSQL:
		dsn = "file:" + path
	case DriverSQLite:
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	log.Debug("state store opened", "driver", driver, "path", path)
	return &SQLStore{db: db}, nil
}

// Raw implements Store.
func (s *SQLStore) Raw(key string) (string, bool) {
	var value string
	err := s.db.QueryRowContext(context.Background(), `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Warn("failed to read key", "key", key, "err", err)
		}
		return "", false
	}
	return value, true
}

// Put implements Store.
func (s *SQLStore) Put(key, value string) error {
	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Raw(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *MemoryStore) Put(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Keys returns the stored keys in sorted order.
func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.data))
}
