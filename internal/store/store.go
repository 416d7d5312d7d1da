// Package store persists submitted console lines.
package store

import "time"

// Entry is one submitted line.
type Entry struct {
	ID      int64
	Line    string
	Session string
	At      time.Time
}

// Store is the interface for console history persistence.
type Store interface {
	// Append records a line and returns the stored entry.
	Append(line, session string) (Entry, error)
	// Recent returns up to limit entries, newest first. A limit of zero or
	// less returns every entry.
	Recent(limit int) ([]Entry, error)
	// Prune keeps the newest keep entries and deletes the rest.
	Prune(keep int) error
	// Clear removes all entries.
	Clear() error
	// Close releases resources.
	Close() error
}

// MetadataStore is implemented by stores that carry key/value metadata.
type MetadataStore interface {
	GetMetadata(key string) (string, error)
	SetMetadata(key, value string) error
}
