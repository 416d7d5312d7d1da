package store

import (
	"database/sql"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Current schema version
const SchemaVersion = "1"

// SQLite is a SQLite-backed history store.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLite opens or creates the history database at path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, errors.Wrapf(err, "open history %s", path)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			line TEXT NOT NULL,
			session TEXT NOT NULL,
			at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create history schema")
	}

	s := &SQLite{db: db}

	// Unlocked helpers; nothing else can see s yet.
	version, err := s.getMetadataUnlocked("schema_version")
	if err != nil {
		db.Close()
		return nil, err
	}
	switch version {
	case "":
		if err := s.setMetadataUnlocked("schema_version", SchemaVersion); err != nil {
			db.Close()
			return nil, err
		}
	case SchemaVersion:
	default:
		db.Close()
		return nil, errors.Errorf("unsupported schema version: %s (expected %s)", version, SchemaVersion)
	}

	return s, nil
}

// Append records a line.
func (s *SQLite) Append(line, session string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	at := time.Now()
	res, err := s.db.Exec("INSERT INTO history (line, session, at) VALUES (?, ?, ?)",
		line, session, at.UnixNano())
	if err != nil {
		return Entry{}, errors.Wrap(err, "append history")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Entry{}, errors.Wrap(err, "append history")
	}
	return Entry{ID: id, Line: line, Session: session, At: at}, nil
}

// Recent returns up to limit entries, newest first.
func (s *SQLite) Recent(limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		"SELECT id, line, session, at FROM history ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, errors.Wrap(err, "query history")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var at int64
		if err := rows.Scan(&e.ID, &e.Line, &e.Session, &at); err != nil {
			return nil, errors.Wrap(err, "scan history")
		}
		e.At = time.Unix(0, at)
		entries = append(entries, e)
	}
	return entries, errors.Wrap(rows.Err(), "read history")
}

// Prune keeps the newest keep entries.
func (s *SQLite) Prune(keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keep < 0 {
		keep = 0
	}
	_, err := s.db.Exec(`
		DELETE FROM history WHERE id NOT IN (
			SELECT id FROM history ORDER BY id DESC LIMIT ?
		)
	`, keep)
	return errors.Wrap(err, "prune history")
}

// Clear removes all entries.
func (s *SQLite) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM history")
	return errors.Wrap(err, "clear history")
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// GetMetadata retrieves a metadata value by key.
func (s *SQLite) GetMetadata(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getMetadataUnlocked(key)
}

// getMetadataUnlocked retrieves metadata without locking (caller must hold lock).
func (s *SQLite) getMetadataUnlocked(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "read metadata %s", key)
	}
	return value, nil
}

// SetMetadata stores a metadata value by key.
func (s *SQLite) SetMetadata(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setMetadataUnlocked(key, value)
}

// setMetadataUnlocked stores metadata without locking (caller must hold lock).
func (s *SQLite) setMetadataUnlocked(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return errors.Wrapf(err, "write metadata %s", key)
}
