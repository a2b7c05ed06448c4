// Package storage persists timer settings and the completed session counter.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
)

// Backend names accepted by Open.
const (
	BackendPreferences = "preferences"
	BackendYAML        = "yaml"
	BackendSQLite      = "sqlite"
	BackendMemory      = "memory"
)

// ErrUnknownBackend indicates an unsupported storage backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// ErrPreferencesUnavailable indicates the preferences backend was requested without a Fyne app.
var ErrPreferencesUnavailable = errors.New("preferences backend requires the desktop app")

// Options selects and locates a backend.
type Options struct {
	Backend string
	// Path is the file for yaml/sqlite. When empty a file under Dir is used.
	Path string
	Dir  string
	// Preferences backs the preferences backend.
	Preferences fyne.Preferences
}

// Open creates the store described by options.
func Open(options Options) (Store, error) {
	backend := strings.ToLower(strings.TrimSpace(options.Backend))
	switch backend {
	case BackendPreferences:
		if options.Preferences == nil {
			return nil, ErrPreferencesUnavailable
		}
		return NewPreferencesStore(options.Preferences), nil
	case BackendYAML:
		return OpenYAMLStore(resolvePath(options, StateFileName))
	case BackendSQLite:
		return OpenSQLiteStore(resolvePath(options, "state.db"))
	case BackendMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("open %q: %w", options.Backend, ErrUnknownBackend)
}

func resolvePath(options Options, fileName string) string {
	if strings.TrimSpace(options.Path) != "" {
		return options.Path
	}
	return filepath.Join(options.Dir, fileName)
}
