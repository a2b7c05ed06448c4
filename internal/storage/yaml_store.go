package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// StateFileName is the default YAML state file name.
const StateFileName = "state.yaml"

type yamlState struct {
	Values map[string]string `yaml:"values"`
}

// YAMLStore keeps all values in a single YAML file.
// The file is read once on open and rewritten on every Save.
type YAMLStore struct {
	mu     sync.Mutex
	path   string
	values map[string]string
	closed bool
}

// OpenYAMLStore reads path if it exists. A missing file yields an empty store;
// an unparsable file is kept aside and replaced by an empty store.
func OpenYAMLStore(path string) (*YAMLStore, error) {
	store := &YAMLStore{path: path, values: make(map[string]string)}

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var fileData yamlState
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		if renameErr := os.Rename(path, path+".corrupt"); renameErr != nil {
			return nil, fmt.Errorf("parse state yaml: %w", err)
		}
		return store, nil
	}
	for key, value := range fileData.Values {
		store.values[key] = value
	}
	return store, nil
}

// Path returns the backing file path.
func (store *YAMLStore) Path() string {
	return store.path
}

// Load returns the value for key.
func (store *YAMLStore) Load(key string) (string, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.closed {
		return "", false, ErrClosed
	}
	value, ok := store.values[key]
	return value, ok, nil
}

// Save replaces the value for key and rewrites the file.
func (store *YAMLStore) Save(key, value string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.closed {
		return ErrClosed
	}

	previous, existed := store.values[key]
	store.values[key] = value
	if err := store.writeLocked(); err != nil {
		if existed {
			store.values[key] = previous
		} else {
			delete(store.values, key)
		}
		return err
	}
	return nil
}

// Close marks the store closed.
func (store *YAMLStore) Close() error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.closed = true
	return nil
}

func (store *YAMLStore) writeLocked() error {
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	serialized, err := yaml.Marshal(yamlState{Values: store.values})
	if err != nil {
		return fmt.Errorf("marshal state yaml: %w", err)
	}

	tmpPath := store.path + ".tmp"
	if err := os.WriteFile(tmpPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmpPath, store.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
