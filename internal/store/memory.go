package store

import (
	"sync"
	"time"
)

// Memory is an in-memory store for testing and for sessions without a
// database.
type Memory struct {
	mu       sync.RWMutex
	entries  []Entry
	nextID   int64
	metadata map[string]string
	now      func() time.Time
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{
		metadata: make(map[string]string),
		now:      time.Now,
	}
}

// Append records a line.
func (m *Memory) Append(line, session string) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	e := Entry{ID: m.nextID, Line: line, Session: session, At: m.now()}
	m.entries = append(m.entries, e)
	return e, nil
}

// Recent returns up to limit entries, newest first.
func (m *Memory) Recent(limit int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := len(m.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Entry, 0, n)
	for i := len(m.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

// Prune keeps the newest keep entries.
func (m *Memory) Prune(keep int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if keep < 0 {
		keep = 0
	}
	if over := len(m.entries) - keep; over > 0 {
		m.entries = append([]Entry(nil), m.entries[over:]...)
	}
	return nil
}

// Clear removes all entries.
func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	return nil
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}

// GetMetadata retrieves a metadata value by key.
func (m *Memory) GetMetadata(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.metadata[key], nil
}

// SetMetadata stores a metadata value by key.
func (m *Memory) SetMetadata(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadata[key] = value
	return nil
}
