// Package store handles SQLite persistence of the keyed application state.
package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Keys of the persisted state.
const (
	ProfilesKey       = "typetastic_profiles"
	CurrentProfileKey = "typetastic_current_profile"
	settingsKeyPrefix = "typetastic_settings_"
)

// SettingsKey returns the key holding a profile's settings.
func SettingsKey(username string) string {
	return settingsKeyPrefix + username
}

// Store wraps SQLite access for keyed values.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the value stored under key. The boolean is false when the key
// is absent.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Batch is a set of writes applied in one transaction. Deletes run after sets.
type Batch struct {
	Set    map[string]string
	Delete []string
}

// Apply writes the batch atomically.
func (s *Store) Apply(ctx context.Context, b Batch) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	updatedAt := s.now().UTC().Format(time.RFC3339Nano)
	if len(b.Set) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		keys := make([]string, 0, len(b.Set))
		for key := range b.Set {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if _, err := stmt.ExecContext(ctx, key, b.Set[key], updatedAt); err != nil {
				return err
			}
		}
	}
	for _, key := range b.Delete {
		if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Set stores a single value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.Apply(ctx, Batch{Set: map[string]string{key: value}})
}

// Delete removes a single key. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.Apply(ctx, Batch{Delete: []string{key}})
}
