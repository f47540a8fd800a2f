package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var errStoreNotInitialized = errors.New("registry: store is not initialized")

// SQLiteStore persists entries in a SQLite database file. The driver is
// pure Go, so no cgo toolchain is needed.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteStore creates a store backed by the database at path. The
// database is opened by Init, not here.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Init opens the database and creates the schema if needed.
func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("registry: sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

// Put inserts or replaces an entry by name, keeping the original creation
// time on replacement.
func (s *SQLiteStore) Put(ctx context.Context, entry Entry) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("registry: encode metadata for %s: %w", entry.Name, err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err = db.ExecContext(ctx, `
		INSERT INTO models (name, model_type, path, num_params, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			model_type = excluded.model_type,
			path = excluded.path,
			num_params = excluded.num_params,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at
	`, entry.Name, entry.ModelType, entry.Path, entry.NumParams, string(metadata), now, now)
	return err
}

// Get returns the named entry and whether it exists.
func (s *SQLiteStore) Get(ctx context.Context, name string) (Entry, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return Entry{}, false, err
	}

	row := db.QueryRowContext(ctx, `
		SELECT name, model_type, path, num_params, metadata, created_at, updated_at
		FROM models WHERE name = ?
	`, name)
	entry, err := scanEntry(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, false, nil
		}
		return Entry{}, false, err
	}
	return entry, true, nil
}

// List returns all entries ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT name, model_type, path, num_params, metadata, created_at, updated_at
		FROM models ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Delete removes the named entry.
func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	result, err := db.ExecContext(ctx, `DELETE FROM models WHERE name = ?`, name)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errStoreNotInitialized
	}
	return s.db, nil
}

func scanEntry(scan func(...any) error) (Entry, error) {
	var entry Entry
	var metadata, createdAt, updatedAt string
	if err := scan(&entry.Name, &entry.ModelType, &entry.Path, &entry.NumParams,
		&metadata, &createdAt, &updatedAt); err != nil {
		return Entry{}, err
	}

	if metadata != "" && metadata != "null" {
		if err := json.Unmarshal([]byte(metadata), &entry.Metadata); err != nil {
			return Entry{}, fmt.Errorf("registry: decode metadata for %s: %w", entry.Name, err)
		}
	}
	var err error
	if entry.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Entry{}, fmt.Errorf("registry: decode created_at for %s: %w", entry.Name, err)
	}
	if entry.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return Entry{}, fmt.Errorf("registry: decode updated_at for %s: %w", entry.Name, err)
	}
	return entry, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS models (
			name TEXT PRIMARY KEY,
			model_type TEXT NOT NULL,
			path TEXT NOT NULL,
			num_params INTEGER NOT NULL,
			metadata TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
	`)
	return err
}
