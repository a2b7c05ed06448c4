package storage

import (
	"errors"
	"sync"
)

// Keys used by the repository.
const (
	KeySettings       = "settings"
	KeyCompletedCount = "completedCount"
)

// ErrClosed indicates the store was used after Close.
var ErrClosed = errors.New("store closed")

// Store is a durable string key/value store.
type Store interface {
	// Load returns the value for key and whether it exists.
	Load(key string) (string, bool, error)
	// Save replaces the value for key.
	Save(key, value string) error
	// Close releases the underlying resources.
	Close() error
}

// MemoryStore keeps values in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Load returns the value for key.
func (store *MemoryStore) Load(key string) (string, bool, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	value, ok := store.values[key]
	return value, ok, nil
}

// Save replaces the value for key.
func (store *MemoryStore) Save(key, value string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.values[key] = value
	return nil
}

func (store *MemoryStore) Close() error { return nil }
